//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// drv_raw creates a console input-driver which puts the terminal into
// raw mode for the lifetime of the emulator, and polls STDIN with
// select(2).
//
// Unlike the termbox driver no goroutine is used, and if STDIN is not
// a terminal it is read as-is, which makes piping input possible.

package consolein

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// RawInput is an input-driver which reads STDIN directly.
type RawInput struct {

	// oldState contains the state of the terminal, before switching to RAW mode
	oldState *term.State
}

// Setup switches STDIN into raw mode, if it is a terminal.
func (ri *RawInput) Setup() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to switch terminal to raw mode: %w", err)
	}
	ri.oldState = state
	return nil
}

// TearDown restores the terminal.
func (ri *RawInput) TearDown() error {
	if ri.oldState == nil {
		return nil
	}
	err := term.Restore(int(os.Stdin.Fd()), ri.oldState)
	ri.oldState = nil
	return err
}

// PendingInput returns true if there is pending input from STDIN.
func (ri *RawInput) PendingInput() bool {
	return canSelect(int(os.Stdin.Fd()))
}

// BlockForCharacterNoEcho reads a single byte from STDIN.
func (ri *RawInput) BlockForCharacterNoEcho() (byte, error) {
	b := make([]byte, 1)
	_, err := os.Stdin.Read(b)
	if err != nil {
		return 0x00, err
	}
	return b[0], nil
}

// GetName is part of the module API, and returns the name of this driver.
func (ri *RawInput) GetName() string {
	return "raw"
}

// init registers our driver, by name.
func init() {
	Register("raw", func() ConsoleInput {
		return new(RawInput)
	})
}
