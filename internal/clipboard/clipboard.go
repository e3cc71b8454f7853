// Package clipboard copies text out of the UI, preferring the system
// clipboard and falling back to a tmux buffer.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("nothing to copy")

// ErrUnavailable is returned when neither the system clipboard nor tmux can
// take the text.
var ErrUnavailable = errors.New("no clipboard available")

// Writer stores text somewhere the user can paste it from.
type Writer interface {
	Copy(text string) (Target, error)
}

// Target names where copied text ended up.
type Target string

const (
	TargetSystem Target = "system clipboard"
	TargetTmux   Target = "tmux buffer"
)

// System is the default Writer.
type System struct {
	// Socket selects a tmux server; empty uses the one named by $TMUX.
	Socket string
	// Getenv and LookPath are swapped out in tests.
	Getenv   func(string) string
	LookPath func(string) (string, error)
	write    func(string) error
	tmux     func(string) error
}

// NewSystem returns a Writer using the real clipboard and tmux.
func NewSystem() *System {
	s := &System{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		write:    clipboard.WriteAll,
	}
	s.tmux = func(text string) error {
		return setTmuxBuffer(s.Socket, text)
	}
	return s
}

// Copy writes text to the system clipboard, or to a tmux buffer when running
// inside tmux and the system clipboard is unsupported or fails.
func (s *System) Copy(text string) (Target, error) {
	if text == "" {
		return "", ErrEmpty
	}
	var sysErr error
	if clipboard.Unsupported {
		sysErr = errors.New("system clipboard unsupported")
	} else if sysErr = s.write(text); sysErr == nil {
		return TargetSystem, nil
	}
	if !s.insideTmux() {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, sysErr)
	}
	if err := s.tmux(text); err != nil {
		return "", fmt.Errorf("%w: %v; tmux: %v", ErrUnavailable, sysErr, err)
	}
	return TargetTmux, nil
}

func (s *System) insideTmux() bool {
	if s.Socket == "" && strings.TrimSpace(s.Getenv("TMUX")) == "" {
		return false
	}
	_, err := s.LookPath("tmux")
	return err == nil
}

// setTmuxBuffer loads text into a paste buffer. -w also forwards it to the
// outer terminal clipboard; tmux before 3.2 lacks the flag, so a failure is
// retried without it.
func setTmuxBuffer(socket, text string) error {
	err := loadBuffer(socket, text, true)
	if err == nil {
		return nil
	}
	if plain := loadBuffer(socket, text, false); plain == nil {
		return nil
	}
	return err
}

func loadBuffer(socket, text string, forward bool) error {
	var args []string
	if socket != "" {
		args = append(args, "-S", socket)
	}
	args = append(args, "load-buffer")
	if forward {
		args = append(args, "-w")
	}
	args = append(args, "-")
	cmd := exec.Command("tmux", args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tmux load-buffer: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
