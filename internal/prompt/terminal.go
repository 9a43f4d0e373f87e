package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal (use --yes to skip)")

// Terminal asks on the controlling terminal with a y/N prompt
type Terminal struct {
	in          io.ReadCloser
	out         io.WriteCloser
	interactive func() bool
}

// NewTerminal creates a Terminal reading answers from in and writing the
// prompt to out. Only a terminal file counts as interactive.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:          io.NopCloser(in),
		out:         nopWriteCloser{out},
		interactive: func() bool { return false },
	}
	if rc, ok := in.(io.ReadCloser); ok {
		t.in = rc
	}
	if f, ok := in.(*os.File); ok {
		t.interactive = func() bool {
			fd := f.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		}
	}
	return t
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Confirm shows the deletion prompt. With nothing to delete it only informs
// the user and answers false.
func (t *Terminal) Confirm(ctx context.Context, count int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if count == 0 {
		fmt.Fprintln(t.out, Message(0))
		return false, nil
	}

	if !t.interactive() {
		return false, ErrNotInteractive
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("Delete %d unused data folder(s)", count),
		IsConfirm: true,
		Stdin:     t.in,
		Stdout:    t.out,
	}

	done := make(chan answer, 1)
	go func() {
		_, err := p.Run()
		switch {
		case err == nil:
			done <- answer{ok: true}
		case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			done <- answer{ok: false}
		default:
			done <- answer{err: fmt.Errorf("read confirmation: %w", err)}
		}
	}()

	select {
	case a := <-done:
		return a.ok, a.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
