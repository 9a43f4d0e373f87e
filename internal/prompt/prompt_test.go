package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestMessage(t *testing.T) {
	if got := Message(0); got != "No data folder to remove. All data folders are in use." {
		t.Errorf("Message(0) = %q", got)
	}
	if got := Message(3); got != "Do you want to delete 3 unused data folder(s)?" {
		t.Errorf("Message(3) = %q", got)
	}
}

func TestAlways(t *testing.T) {
	for _, want := range []bool{true, false} {
		ok, err := Always(want).Confirm(context.Background(), 5)
		if err != nil || ok != want {
			t.Errorf("Always(%v) = %v, %v", want, ok, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Always(true).Confirm(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConfirmFunc(t *testing.T) {
	var seen int
	f := ConfirmFunc(func(_ context.Context, count int) (bool, error) {
		seen = count
		return true, nil
	})
	ok, err := f.Confirm(context.Background(), 7)
	if !ok || err != nil || seen != 7 {
		t.Errorf("ConfirmFunc = %v, %v (seen %d)", ok, err, seen)
	}
}

func TestChannelResolves(t *testing.T) {
	ch := NewChannel()

	go func() {
		req := <-ch.Requests()
		if req.Count != 2 {
			t.Errorf("request count = %d", req.Count)
		}
		if !strings.Contains(req.Message(), "2 unused") {
			t.Errorf("request message = %q", req.Message())
		}
		req.Resolve(true)
		req.Resolve(false) // ignored
	}()

	ok, err := ch.Confirm(context.Background(), 2)
	if err != nil || !ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestChannelRejectReturnsCause(t *testing.T) {
	ch := NewChannel()

	go func() {
		req := <-ch.Requests()
		req.Reject(ErrNotInteractive)
		req.Resolve(true) // ignored
	}()

	ok, err := ch.Confirm(context.Background(), 3)
	if ok || !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestChannelCancelWhileWaiting(t *testing.T) {
	ch := NewChannel()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-ch.Requests()
		// Never resolved: the caller gives up instead
		cancel()
	}()

	ok, err := ch.Confirm(ctx, 1)
	if ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestChannelCancelBeforeHandler(t *testing.T) {
	ch := NewChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ok, err := ch.Confirm(ctx, 1)
	if ok || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestTerminalNothingToDelete(t *testing.T) {
	var out bytes.Buffer
	term := &Terminal{
		in:          io.NopCloser(strings.NewReader("")),
		out:         nopWriteCloser{&out},
		interactive: func() bool { return false },
	}

	ok, err := term.Confirm(context.Background(), 0)
	if ok || err != nil {
		t.Fatalf("Confirm(0) = %v, %v", ok, err)
	}
	if !strings.Contains(out.String(), "All data folders are in use") {
		t.Errorf("missing informational message: %q", out.String())
	}
}

func TestTerminalRequiresTTY(t *testing.T) {
	var out bytes.Buffer
	term := &Terminal{
		in:          io.NopCloser(strings.NewReader("y\n")),
		out:         nopWriteCloser{&out},
		interactive: func() bool { return false },
	}

	ok, err := term.Confirm(context.Background(), 2)
	if ok || !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
}

func TestNewTerminalNonFileIsNotInteractive(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\n"), &out)

	ok, err := term.Confirm(context.Background(), 1)
	if ok || !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}

	if _, err := term.Confirm(context.Background(), 0); err != nil {
		t.Fatalf("Confirm(0): %v", err)
	}
	if !strings.Contains(out.String(), "All data folders are in use") {
		t.Errorf("message not written to the given writer: %q", out.String())
	}
}
