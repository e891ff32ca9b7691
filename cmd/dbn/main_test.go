package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbnlang/dbn/core/diag"
)

// execute runs the CLI with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, _ := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileToStdout(t *testing.T) {
	out, err := execute(t, "Paper 0\nLine 0 0 100 100", "compile", "-", "-f", "svg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<svg width="100" height="100"`), out)
	assert.Contains(t, out, `<line x1="0" y1="100" x2="100" y2="0"`)

	out, err = execute(t, "Set [0 100] 100", "compile", "-", "-f", "binary")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "o "), out)
	assert.Equal(t, 101, strings.Count(out, "\n"))
}

func TestCompileSize(t *testing.T) {
	out, err := execute(t, "", "compile", "-", "-f", "svg", "--width", "400", "--height", "300")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<svg width="400" height="300"`), out)

	_, err = execute(t, "", "compile", "-", "-f", "svg", "--width", "0")
	assert.Error(t, err)
}

func TestCompileWritesFiles(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "drawing.dbn", "Paper 20\nPen 80\nLine 10 10 90 90\n")
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "", "compile", src, "-o", outDir, "--png")
	require.NoError(t, err)

	for _, ext := range []string{".svg", ".test", ".binary", ".png"} {
		info, err := os.Stat(filepath.Join(outDir, "drawing"+ext))
		require.NoError(t, err, ext)
		assert.Positive(t, info.Size(), ext)
	}

	svgOut, err := os.ReadFile(filepath.Join(outDir, "drawing.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svgOut), `fill="rgb(80%,80%,80%)"`)
}

func TestCompileError(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.dbn", "Paper 0\nLien 0 0 10 10\n")

	_, err := execute(t, "", "compile", src, "-f", "svg")
	require.Error(t, err)
	assert.True(t, diag.IsInput(err))

	var buf bytes.Buffer
	FormatError(&buf, err, false)
	want := src + "\n" +
		"Error:    \"Lien\" is not a valid keyword.\n" +
		"Location: 2:0\n" +
		"  Lien 0 0 10 10\n" +
		"  ^\n" +
		"Hint:     did you mean \"Line\"?\n"
	assert.Equal(t, want, buf.String())
}

func TestCompileUnknownFormat(t *testing.T) {
	_, err := execute(t, "Paper 0", "compile", "-", "-f", "gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "gif"`)
}

func TestCompileMissingFile(t *testing.T) {
	_, err := execute(t, "", "compile", filepath.Join(t.TempDir(), "missing.dbn"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error opening file")
}

func TestVarsFile(t *testing.T) {
	dir := t.TempDir()
	vars := writeFile(t, dir, "vars.json", `{"shade": 40, "edge": "-5"}`)

	out, err := execute(t, "Paper shade\nLine edge 0 0 0", "--vars", vars, "compile", "-", "-f", "svg")
	require.NoError(t, err)
	assert.Contains(t, out, `fill="rgb(60%,60%,60%)"`)
	assert.Contains(t, out, `x1="-5"`)

	bad := writeFile(t, dir, "bad.json", `{"shade": "forty"}`)
	_, err = execute(t, "Paper shade", "--vars", bad, "compile", "-", "-f", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid values")
}

func TestMaxDepthFlag(t *testing.T) {
	_, err := execute(t, "Command f { f }\nf", "compile", "-", "-f", "svg", "--max-depth", "8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested deeper than 8 calls")
}

func TestTokensCommand(t *testing.T) {
	out, err := execute(t, "Pen 5 // grey", "tokens", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "word"`)
	assert.Contains(t, out, `"value": "Pen"`)
	assert.Contains(t, out, `"type": "number"`)
	assert.NotContains(t, out, "grey\"")

	out, err = execute(t, "", "tokens", "-")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestTraceCommand(t *testing.T) {
	out, err := execute(t, "Pen 5\nSet [1 2] 3", "trace", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "drawing"`)
	assert.Contains(t, out, `"name": "point"`)

	cbor, err := execute(t, "Pen 5", "trace", "-", "--format", "cbor")
	require.NoError(t, err)
	assert.NotEmpty(t, cbor)

	_, err = execute(t, "Pen 5", "trace", "-", "--format", "xml")
	assert.Error(t, err)
}

func TestTraceHashIgnoresLayout(t *testing.T) {
	a, err := execute(t, "Pen 5\nLine 0 0 1 1", "trace", "-", "--hash")
	require.NoError(t, err)
	b, err := execute(t, "// same drawing\nPen    5 Line 0 0 (0 + 1) 1", "trace", "-", "--hash")
	require.NoError(t, err)
	c, err := execute(t, "Pen 6\nLine 0 0 1 1", "trace", "-", "--hash")
	require.NoError(t, err)

	assert.Len(t, strings.TrimSpace(a), 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFormatErrorColors(t *testing.T) {
	err := diag.NewInternal(diag.Location{Line: 1, Column: 2, Source: "Pen x"}, "broken")

	var buf bytes.Buffer
	FormatError(&buf, err, true)
	assert.Contains(t, buf.String(), ColorMagenta+"Internal:"+ColorReset)

	buf.Reset()
	FormatError(&buf, assert.AnError, true)
	assert.Equal(t, ColorRed+"Error: "+ColorReset+assert.AnError.Error()+"\n", buf.String())

	buf.Reset()
	FormatError(&buf, nil, true)
	assert.Empty(t, buf.String())
}

func TestShouldUseColor(t *testing.T) {
	assert.False(t, ShouldUseColor(true))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(false))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "data", outputName("-"))
	assert.Equal(t, "drawing", outputName("dir/drawing.dbn"))
	assert.Equal(t, "plain", outputName("plain"))
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "live.dbn", "Paper 0")
	writeFile(t, dir, "other.dbn", "Paper 0")

	var builds atomic.Int32
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- watch(ctx, src, &out, false, func() error {
			builds.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(src, []byte("Paper 50"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "compiled "+src)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchReportsErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "live.dbn", "Paper 0")

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, src, &out, false, func() error {
			return diag.NewInput(diag.Location{Line: 1, Source: "Paper"}, "Unexpected program end.")
		})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Error:    Unexpected program end.")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
