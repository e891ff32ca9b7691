package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dbnlang/dbn/core/logging"
)

func newWatchCmd(global *globalOpts) *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompile a program every time it is saved",
		Long: `Compile FILE into the output directory, then recompile whenever it changes.
Errors are reported and watching continues. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			file := args[0]
			if file == "-" {
				return fmt.Errorf("watch needs a file, not stdin")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			build := func() error {
				src, name, err := readSource(cmd, file)
				if err != nil {
					return err
				}
				tr, err := buildTrace(src, global, opts)
				if err != nil {
					return err
				}
				return writeOutputs(tr, name, opts)
			}
			return watch(ctx, file, cmd.ErrOrStderr(), ShouldUseColor(global.noColor), build)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// watch runs build once and then after every write to file, until ctx is
// done. Build failures are reported to w and do not stop the loop.
func watch(ctx context.Context, file string, w io.Writer, useColor bool, build func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often save by replacing the file, which drops a watch on the
	// file itself, so watch its directory.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("error watching %s: %w", file, err)
	}
	target := filepath.Clean(file)

	report := func() {
		if err := build(); err != nil {
			FormatError(w, err, useColor)
			return
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("compiled", ColorGreen, useColor), file)
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logging.Get().Debug("source changed", "file", file, "op", event.Op.String())
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("error watching %s: %w", file, err)
		}
	}
}
