package display

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestNew_BlankCommandIsNoop(t *testing.T) {
	v, err := New("  ", discardLogger())
	require.NoError(t, err)
	assert.IsType(t, NoopViewer{}, v)
	assert.NoError(t, v.Show(context.Background(), "anything.png"))
}

func TestCommandViewer_PassesPathLast(t *testing.T) {
	requireBinary(t, "cp")
	dir := t.TempDir()
	src := filepath.Join(dir, "figure.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o600))
	dst := filepath.Join(dir, "copy.png")

	// "cp <src>" + path copies the figure to path, standing in for a viewer.
	v, err := New("cp "+src, discardLogger())
	require.NoError(t, err)
	require.NoError(t, v.Show(context.Background(), dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))
}

func TestCommandViewer_ReportsFailure(t *testing.T) {
	requireBinary(t, "false")
	v, err := NewCommandViewer("false", discardLogger())
	require.NoError(t, err)

	err = v.Show(context.Background(), "figure.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "figure.png")
}

func TestCommandViewer_MissingProgram(t *testing.T) {
	v, err := NewCommandViewer("no-such-viewer-binary", discardLogger())
	require.NoError(t, err)
	require.ErrorIs(t, v.Show(context.Background(), "figure.png"), exec.ErrNotFound)
}

func TestCommandViewer_CancelledContext(t *testing.T) {
	requireBinary(t, "sleep")
	v, err := NewCommandViewer("sleep 5", discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, v.Show(ctx, "1"))
}

func TestNewCommandViewer_Empty(t *testing.T) {
	_, err := NewCommandViewer("", discardLogger())
	require.Error(t, err)
}
