package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbnlang/dbn/core/logging"
	"github.com/dbnlang/dbn/runtime/scope"
)

// globalOpts are the persistent flags shared by every subcommand.
type globalOpts struct {
	debug   bool
	noColor bool
	vars    string
}

func main() {
	root, opts := newRootCmd()
	if err := root.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(opts.noColor))
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *globalOpts) {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:           "dbn",
		Short:         "Compile Design By Numbers drawings to SVG and raster output",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				logging.Set(logging.NewText(cmd.ErrOrStderr(), true))
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", os.Getenv("DBN_DEBUG") != "", "Enable debug output (or set DBN_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&opts.vars, "vars", "", "JSON file with initial variable bindings")

	rootCmd.AddCommand(
		newCompileCmd(opts),
		newTokensCmd(),
		newTraceCmd(opts),
		newWatchCmd(opts),
	)
	return rootCmd, opts
}

// readSource reads a program from file, or from stdin when file is "-".
// name is the base name used for output files.
func readSource(cmd *cobra.Command, file string) (src, name string, err error) {
	reader, closeFunc, err := getInputReader(cmd, file)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = closeFunc() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", "", fmt.Errorf("error reading %s: %w", file, err)
	}
	return string(data), outputName(file), nil
}

// getInputReader handles explicit stdin ("-") and file input.
func getInputReader(cmd *cobra.Command, file string) (io.Reader, func() error, error) {
	if file == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", file, err)
	}
	return f, f.Close, nil
}

func outputName(file string) string {
	if file == "-" {
		return "data"
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadScope returns the initial scope named by --vars, or an empty one.
func loadScope(path string) (*scope.Scope, error) {
	if path == "" {
		return scope.New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening vars file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := scope.LoadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
