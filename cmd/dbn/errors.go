package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dbnlang/dbn/core/diag"
)

// FormatError writes err for the terminal. Diagnostics keep their canonical
// layout; only the labels are coloured.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	d, ok := diag.As(err)
	if !ok {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
		return
	}

	if prefix := strings.TrimSuffix(err.Error(), d.Error()); prefix != "" {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize(strings.TrimSuffix(prefix, ": "), ColorGray, useColor))
	}
	formatDiagnostic(w, d, useColor)
}

func formatDiagnostic(w io.Writer, d *diag.Diagnostic, useColor bool) {
	label := ColorRed
	if d.Kind == diag.Internal {
		label = ColorMagenta
	}

	for _, line := range strings.Split(d.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "Error:"), strings.HasPrefix(line, "Internal:"):
			head, rest, _ := strings.Cut(line, ":")
			line = Colorize(head+":", label, useColor) + rest
		case strings.HasPrefix(line, "Location:"):
			line = Colorize("Location:", ColorGray, useColor) + strings.TrimPrefix(line, "Location:")
		case strings.HasPrefix(line, "Hint:"):
			line = Colorize("Hint:", ColorYellow, useColor) + strings.TrimPrefix(line, "Hint:")
		case strings.TrimSpace(line) == "^":
			line = Colorize(line, ColorCyan, useColor)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
