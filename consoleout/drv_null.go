package consoleout

import (
	"io"
	"os"
)

// NullOutputDriver discards everything.
type NullOutputDriver struct {

	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) GetName() string {
	return "null"
}

// PutCharacter discards the character.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) PutCharacter(c uint8) {
}

// SetWriter will update the writer.
func (no *NullOutputDriver) SetWriter(w io.Writer) {
	no.writer = w
}

// init registers our driver, by name.
func init() {
	Register("null", func() ConsoleOutput {
		return &NullOutputDriver{
			writer: os.Stdout,
		}
	})
}
