// Package editor opens note files in the user's text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/starford/note/internal/checksum"
)

// ErrNoEditor is returned when no editor command can be determined.
var ErrNoEditor = errors.New("editor: no editor configured (set editor.command, $VISUAL or $EDITOR)")

// Command picks the editor command: configured, then $VISUAL, then $EDITOR,
// then vi.
func Command(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return "vi"
}

// Editor runs an external command on a file.
type Editor struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New returns an Editor attached to the process terminal.
func New(command string) *Editor {
	return &Editor{
		command: command,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Edit runs the editor on path and reports whether the file content changed.
// The command string may carry arguments; path is appended last.
func (e *Editor) Edit(ctx context.Context, path string) (bool, error) {
	fields := strings.Fields(e.command)
	if len(fields) == 0 {
		return false, ErrNoEditor
	}
	before, err := checksum.File(path)
	if err != nil {
		return false, err
	}

	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...) //nolint:gosec // command comes from user config
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("editor: %s: %w", fields[0], err)
	}

	after, err := checksum.File(path)
	if err != nil {
		return false, err
	}
	return before != after, nil
}
