package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbnlang/dbn/core/logging"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/trace"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token sequence of a program as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tokens := lexer.Lex(src, lexer.WithLogger(logging.Get()))
			if tokens == nil {
				tokens = []lexer.Token{}
			}
			return writeJSON(cmd.OutOrStdout(), tokens)
		},
	}
}

func newTraceCmd(global *globalOpts) *cobra.Command {
	var (
		format string
		hash   bool
		opts   compileOpts
	)

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Print the drawing trace of a program",
		Long: `Print the drawing trace of a program as JSON or as canonical CBOR.
With --hash only the BLAKE2b-256 fingerprint of the canonical encoding is
printed; equal drawings have equal fingerprints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			src, _, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := buildTrace(src, global, &opts)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeTrace(cmd.OutOrStdout(), tr, format, hash)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output encoding: json or cbor")
	cmd.Flags().BoolVar(&hash, "hash", false, "Print the trace fingerprint instead of the trace")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "Limit command nesting depth (0 means no limit)")
	opts.width, opts.height = 100, 100
	return cmd
}

func writeTrace(w io.Writer, tr trace.Trace, format string, hash bool) error {
	if hash {
		sum, err := trace.FingerprintHex(tr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, sum)
		return err
	}

	switch format {
	case "json":
		return writeJSON(w, tr)
	case "cbor":
		data, err := trace.MarshalCanonical(tr)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown trace format %q (want json or cbor)", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
