// drv_term.go uses the Termbox library to handle console-based input.
//
// A goroutine is launched which collects any keyboard input and
// saves that to a buffer where it can be peeled off on-demand.
//
// This is the default driver.

package consolein

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

// TermboxInput is our input-driver, using termbox
type TermboxInput struct {

	// oldState contains the state of the terminal, before switching to RAW mode
	oldState *term.State

	// cancel stops our polling goroutine
	cancel context.CancelFunc

	// mu guards keyBuffer, which the polling goroutine appends to.
	mu sync.Mutex

	// keyBuffer builds up keys read "in the background", via termbox
	keyBuffer []byte
}

// withRestore runs restore after a failed setup, adding any error it
// returns to cause.
func withRestore(cause error, restore func() error) error {
	if err := restore(); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to restore terminal: %w", err))
	}
	return cause
}

// Setup switches the terminal into RAW mode, initializes termbox and
// starts polling the keyboard.
func (ti *TermboxInput) Setup() error {

	var err error

	// switch STDIN into 'raw' mode - we must do this before
	// we setup termbox.
	ti.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to switch terminal to raw mode: %w", err)
	}

	err = termbox.Init()
	if err != nil {
		state := ti.oldState
		ti.oldState = nil
		return withRestore(fmt.Errorf("failed to initialize termbox: %w", err), func() error {
			return term.Restore(int(os.Stdin.Fd()), state)
		})
	}

	// This is "Show Cursor" which termbox hides by default.
	fmt.Printf("\x1b[?25h")

	ctx, cancel := context.WithCancel(context.Background())
	ti.cancel = cancel

	go ti.pollKeyboard(ctx)
	return nil
}

// pollKeyboard runs in a goroutine and collects keyboard input
// into a buffer where it will be read from in the future.
func (ti *TermboxInput) pollKeyboard(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}

		c := byte(ev.Ch)
		if ev.Ch == 0 {
			c = byte(ev.Key)
		}

		ti.mu.Lock()
		ti.keyBuffer = append(ti.keyBuffer, c)
		ti.mu.Unlock()
	}
}

// TearDown stops the background polling and restores the terminal.
func (ti *TermboxInput) TearDown() error {
	if ti.cancel != nil {
		ti.cancel()
		termbox.Interrupt()
		termbox.Close()
	}

	if ti.oldState != nil {
		return term.Restore(int(os.Stdin.Fd()), ti.oldState)
	}
	return nil
}

// PendingInput returns true if a key has been read.
func (ti *TermboxInput) PendingInput() bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	return len(ti.keyBuffer) > 0
}

// BlockForCharacterNoEcho waits for, and returns, the next key.
func (ti *TermboxInput) BlockForCharacterNoEcho() (byte, error) {
	for {
		ti.mu.Lock()
		if len(ti.keyBuffer) > 0 {
			c := ti.keyBuffer[0]
			ti.keyBuffer = ti.keyBuffer[1:]
			ti.mu.Unlock()
			return c, nil
		}
		ti.mu.Unlock()

		time.Sleep(1 * time.Millisecond)
	}
}

// GetName is part of the module API, and returns the name of this driver.
func (ti *TermboxInput) GetName() string {
	return "term"
}

// init registers our driver, by name.
func init() {
	Register("term", func() ConsoleInput {
		return new(TermboxInput)
	})
}
