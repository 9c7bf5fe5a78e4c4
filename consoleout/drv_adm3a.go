package consoleout

import (
	"fmt"
	"io"
	"os"
)

// adm3aState is the position within a multi-byte sequence.
type adm3aState int

const (
	admNormal adm3aState = iota
	admEscape
	admRow
	admColumn
	admAttrOn
	admAttrOff
	admSkip
)

// Single-byte controls, and what they become on an ANSI terminal.
var admControls = map[uint8]string{
	0x02: "\033[L",           // insert line
	0x03: "\033[M",           // delete line
	0x05: "\033[K",           // clear to end of line
	0x07: "\033[?5h\033[?5l", // bell: flash the screen
	0x0C: "\033[H\033[2J",    // vt52 clear screen
	0x12: "",
	0x13: "",
	0x18: "\033[K",        // clear to end of line
	0x1A: "\033[H\033[2J", // clear screen
	0x1E: "\033[H",        // cursor home
	0x7F: "\b \b",         // DEL: erase the previous character
}

// ESC B n / ESC C n turn attribute n on and off.
var (
	admAttrsOn = map[uint8]string{
		'0': "\033[7m",   // reverse video
		'1': "\033[1m",   // half intensity
		'2': "\033[5m",   // blinking
		'3': "\033[4m",   // underline
		'4': "\033[?25h", // cursor on
		'5': "",
		'6': "\033[s", // save cursor position
		'7': "",
	}
	admAttrsOff = map[uint8]string{
		'0': "\033[27m",
		'1': "\033[m",
		'2': "\033[25m",
		'3': "\033[24m",
		'4': "\033[?25l", // cursor off
		'5': "",
		'6': "\033[u", // restore cursor position
		'7': "",
	}
)

// Adm3AOutputDriver translates the escape sequences of a Lear Siegler
// ADM-3A terminal into their ANSI equivalents.
type Adm3AOutputDriver struct {

	// status is our position in the state-machine
	status adm3aState

	// skip counts the remaining bytes of an ignored sequence
	skip int

	// y stores the cursor row, while waiting for the column
	y uint8

	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (a3a *Adm3AOutputDriver) GetName() string {
	return "adm-3a"
}

// PutCharacter writes the character to the console.
//
// This is part of the OutputDriver interface.
func (a3a *Adm3AOutputDriver) PutCharacter(c uint8) {

	switch a3a.status {
	case admNormal:
		if out, ok := admControls[c]; ok {
			io.WriteString(a3a.writer, out)
			return
		}
		switch c {
		case 0x1B:
			a3a.status = admEscape
		case 0x01:
			a3a.status = admRow
		default:
			a3a.writer.Write([]byte{c})
		}

	case admEscape:
		a3a.status = admNormal
		switch c {
		case 0x1B:
			a3a.writer.Write([]byte{c})
		case '=', 'Y':
			a3a.status = admRow
		case 'E':
			io.WriteString(a3a.writer, "\033[L")
		case 'R':
			io.WriteString(a3a.writer, "\033[M")
		case 'B':
			a3a.status = admAttrOn
		case 'C':
			a3a.status = admAttrOff
		case 'L', 'D': // set or clear a line
			a3a.status = admSkip
			a3a.skip = 4
		case '*', ' ': // set or clear a pixel
			a3a.status = admSkip
			a3a.skip = 2
		default:
			// Perhaps a real ANSI sequence.
			a3a.writer.Write([]byte{0x1B, c})
		}

	case admRow:
		a3a.y = c - ' ' + 1
		a3a.status = admColumn

	case admColumn:
		a3a.status = admNormal
		fmt.Fprintf(a3a.writer, "\033[%d;%dH", a3a.y, c-' '+1)

	case admAttrOn, admAttrOff:
		table, prefix := admAttrsOn, byte('B')
		if a3a.status == admAttrOff {
			table, prefix = admAttrsOff, 'C'
		}
		a3a.status = admNormal

		if out, ok := table[c]; ok {
			io.WriteString(a3a.writer, out)
		} else {
			a3a.writer.Write([]byte{0x1B, prefix, c})
		}

	case admSkip:
		a3a.skip--
		if a3a.skip <= 0 {
			a3a.status = admNormal
		}
	}
}

// SetWriter will update the writer.
func (a3a *Adm3AOutputDriver) SetWriter(w io.Writer) {
	a3a.writer = w
}

// init registers our driver, by name.
func init() {
	Register("adm-3a", func() ConsoleOutput {
		return &Adm3AOutputDriver{
			writer: os.Stdout,
		}
	})
}
