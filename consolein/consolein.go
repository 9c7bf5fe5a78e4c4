// Package consolein handles the reading of console input for the
// emulator.
//
// Input is read through a driver, chosen by name at runtime.  The
// drivers only need to report whether input is pending and return
// single characters; line-editing and "stuffed" input are handled by
// the ConsoleIn wrapper for all of them.
package consolein

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInterrupted is returned by ReadLine when Ctrl-C is pressed at the
// start of a line.
var ErrInterrupted = errors.New("INTERRUPTED")

// ConsoleInput is the interface that must be implemented by anything
// that wishes to be used as an input driver.
type ConsoleInput interface {

	// Setup performs any specific setup which is required, such as
	// switching the terminal into raw mode.
	Setup() error

	// TearDown undoes whatever Setup did.
	TearDown() error

	// PendingInput returns true if a character is available to read.
	PendingInput() bool

	// BlockForCharacterNoEcho returns the next character, blocking
	// until one is available.  It must not echo what is read.
	BlockForCharacterNoEcho() (byte, error)

	// GetName returns the name of the driver.
	GetName() string
}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleInput

// This is a map of known-drivers
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Register makes a console driver available, by name.
func Register(name string, obj Constructor) {
	handlers.m[strings.ToLower(name)] = obj
}

// ConsoleIn holds our state: the driver, and any input which has been
// queued ahead of it.
type ConsoleIn struct {

	// driver is the thing that actually reads our input.
	driver ConsoleInput

	// stuffed holds fake input, which is returned before anything
	// the driver provides.
	stuffed string
}

// New creates an input device which uses the specified driver.
func New(name string) (*ConsoleIn, error) {
	name = strings.ToLower(name)

	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	return &ConsoleIn{
		driver: ctor(),
	}, nil
}

// GetDriver returns the driver in use.
func (ci *ConsoleIn) GetDriver() ConsoleInput {
	return ci.driver
}

// GetName returns the name of our selected driver.
func (ci *ConsoleIn) GetName() string {
	return ci.driver.GetName()
}

// GetDrivers returns all available driver-names, sorted.
//
// We hide the internal "error" driver.
func (ci *ConsoleIn) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != ErrorInputName {
			valid = append(valid, x)
		}
	}
	sort.Strings(valid)
	return valid
}

// Setup proxies to the driver.
func (ci *ConsoleIn) Setup() error {
	return ci.driver.Setup()
}

// TearDown proxies to the driver.
func (ci *ConsoleIn) TearDown() error {
	return ci.driver.TearDown()
}

// StuffInput queues text which will be returned ahead of any real
// input.
func (ci *ConsoleIn) StuffInput(input string) {
	ci.stuffed += input
}

// PendingInput returns true if stuffed input remains, or the driver has
// input ready.
func (ci *ConsoleIn) PendingInput() bool {
	if len(ci.stuffed) > 0 {
		return true
	}
	return ci.driver.PendingInput()
}

// BlockForCharacterNoEcho returns the next character, without echoing
// it.
func (ci *ConsoleIn) BlockForCharacterNoEcho() (byte, error) {
	if len(ci.stuffed) > 0 {
		c := ci.stuffed[0]
		ci.stuffed = ci.stuffed[1:]
		return c, nil
	}
	return ci.driver.BlockForCharacterNoEcho()
}

// ReadLine reads a line of input, terminated by either CR or LF,
// truncating it to limit characters.  (The user can enter more than is
// allowed but no buffer-overruns will occur!)
//
// Every accepted character is passed to echo, along with the sequences
// needed to erase characters when backspace or ESC are used.
func (ci *ConsoleIn) ReadLine(limit uint8, echo func(c uint8)) (string, error) {
	text := []byte{}

	erase := func(n int) {
		for i := 0; i < n; i++ {
			echo('\b')
			echo(' ')
			echo('\b')
		}
	}

	for {
		c, err := ci.BlockForCharacterNoEcho()
		if err != nil {
			return "", err
		}

		switch c {
		case '\r', '\n':
			return string(text), nil
		case 0x03:
			// Ctrl-C at the start of a line; ignored elsewhere.
			if len(text) == 0 {
				return "", ErrInterrupted
			}
		case 0x08, 0x7F:
			if len(text) > 0 {
				text = text[:len(text)-1]
				erase(1)
			}
		case 0x1B:
			erase(len(text))
			text = text[:0]
		default:
			if len(text) < int(limit) {
				text = append(text, c)
				echo(c)
			}
		}
	}
}
