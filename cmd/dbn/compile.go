package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbnlang/dbn/core/logging"
	"github.com/dbnlang/dbn/runtime/backend/raster"
	"github.com/dbnlang/dbn/runtime/backend/svg"
	"github.com/dbnlang/dbn/runtime/compiler"
	"github.com/dbnlang/dbn/runtime/parser"
	"github.com/dbnlang/dbn/runtime/trace"
)

// formats are the text outputs, in the order they are written.
var formats = []string{"svg", string(raster.EncodingTest), string(raster.EncodingBinary)}

type compileOpts struct {
	outDir   string
	format   string
	width    int
	height   int
	png      bool
	maxDepth int
}

func (o *compileOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.outDir, "out", "o", "out", "Directory for output files")
	cmd.Flags().IntVar(&o.width, "width", 100, "Output width in pixels (SVG and PNG)")
	cmd.Flags().IntVar(&o.height, "height", 100, "Output height in pixels (SVG and PNG)")
	cmd.Flags().BoolVar(&o.png, "png", false, "Also write a PNG image")
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", 0, "Limit command nesting depth (0 means no limit)")
}

func (o *compileOpts) validate() error {
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("output size must be positive, got %dx%d", o.width, o.height)
	}
	if o.maxDepth < 0 {
		return fmt.Errorf("--max-depth must not be negative, got %d", o.maxDepth)
	}
	return nil
}

func newCompileCmd(global *globalOpts) *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a DBN program (use - for stdin)",
		Long: `Compile a DBN program. By default NAME.svg, NAME.test and NAME.binary are
written to the output directory. With --format a single output is printed to
stdout instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			src, name, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := buildTrace(src, global, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if opts.format != "" {
				out, err := render(tr, opts.format, opts)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			return writeOutputs(tr, name, opts)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Print one format to stdout: svg, test or binary")
	return cmd
}

// buildTrace interprets src with the scope from --vars.
func buildTrace(src string, global *globalOpts, opts *compileOpts) (trace.Trace, error) {
	sc, err := loadScope(global.vars)
	if err != nil {
		return nil, err
	}
	return compiler.Trace(src,
		parser.WithScope(sc),
		parser.WithLogger(logging.Get()),
		parser.WithMaxDepth(opts.maxDepth),
	)
}

// render produces one text format from tr.
func render(tr trace.Trace, format string, opts *compileOpts) (string, error) {
	switch format {
	case "svg":
		return compiler.Render(tr, svg.New(svg.WithSize(opts.width, opts.height)))
	case string(raster.EncodingTest), string(raster.EncodingBinary):
		b, err := raster.New(raster.Encoding(format))
		if err != nil {
			return "", err
		}
		return compiler.Render(tr, b)
	default:
		return "", fmt.Errorf("unknown format %q (want svg, test or binary)", format)
	}
}

// writeOutputs writes every format, and the PNG when asked, to opts.outDir.
func writeOutputs(tr trace.Trace, name string, opts *compileOpts) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	for _, format := range formats {
		out, err := render(tr, format, opts)
		if err != nil {
			return err
		}
		path := filepath.Join(opts.outDir, name+"."+format)
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}
		logging.Get().Debug("wrote output", slog.String("path", path), slog.Int("bytes", len(out)))
	}

	if opts.png {
		return writePNG(tr, filepath.Join(opts.outDir, name+".png"), opts)
	}
	return nil
}

func writePNG(tr trace.Trace, path string, opts *compileOpts) error {
	b, err := raster.New(raster.EncodingBinary)
	if err != nil {
		return err
	}
	grid, err := b.Transform(tr)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := raster.WritePNG(f, grid, opts.width, opts.height); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}
