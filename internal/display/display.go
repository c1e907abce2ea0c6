// Package display shows a saved figure to the user. Rendering never depends
// on it; headless runs use NoopViewer.
package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Viewer presents an image file.
type Viewer interface {
	Show(ctx context.Context, path string) error
}

// NoopViewer skips display.
type NoopViewer struct{}

func (NoopViewer) Show(context.Context, string) error { return nil }

// CommandViewer opens images with an external program such as xdg-open,
// passing the image path as the last argument. Show returns when the
// program exits or ctx is done.
type CommandViewer struct {
	name   string
	args   []string
	logger *slog.Logger
}

// NewCommandViewer splits command on whitespace into a program and its
// leading arguments.
func NewCommandViewer(command string, logger *slog.Logger) (*CommandViewer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("display command is empty")
	}
	return &CommandViewer{name: fields[0], args: fields[1:], logger: logger}, nil
}

// New returns a CommandViewer for command, or a NoopViewer when command is
// blank.
func New(command string, logger *slog.Logger) (Viewer, error) {
	if strings.TrimSpace(command) == "" {
		return NoopViewer{}, nil
	}
	return NewCommandViewer(command, logger)
}

func (v *CommandViewer) Show(ctx context.Context, path string) error {
	args := append(append([]string(nil), v.args...), path)
	cmd := exec.CommandContext(ctx, v.name, args...)

	v.logger.Debug("opening figure", "command", v.name, "path", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("display %s with %s: %w: %s", path, v.name, err, msg)
		}
		return fmt.Errorf("display %s with %s: %w", path, v.name, err)
	}
	return nil
}
