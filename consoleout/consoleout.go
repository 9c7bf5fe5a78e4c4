// Package consoleout is an abstraction over console output.
//
// Guest programs write bytes one at a time; a driver decides how they
// reach the host.  Drivers register themselves by name, and may be
// swapped at runtime.
package consoleout

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ConsoleOutput is the interface that must be implemented by anything
// that wishes to be used as a console driver.
//
// Providing this interface is implemented an object may register itself,
// by name, via the Register method.
type ConsoleOutput interface {

	// PutCharacter will output the specified character to the defined writer.
	//
	// The writer will default to STDOUT, but can be changed, via SetWriter.
	PutCharacter(c uint8)

	// GetName will return the name of the driver.
	GetName() string

	// SetWriter will update the writer.
	SetWriter(io.Writer)
}

// ConsoleRecorder is an interface that allows returning the contents that
// have been previously sent to the console.
//
// This is used solely for integration tests.
type ConsoleRecorder interface {

	// GetOutput returns the contents which have been displayed.
	GetOutput() string

	// Reset removes any stored state.
	Reset()
}

// This is a map of known-drivers
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleOutput

// Register makes a console driver available, by name.
func Register(name string, obj Constructor) {
	handlers.m[strings.ToLower(name)] = obj
}

// ConsoleOut holds our state, which is basically just a
// pointer to the object handling our output.
type ConsoleOut struct {

	// driver is the thing that actually writes our output.
	driver ConsoleOutput
}

// New creates an output device which uses the specified driver.
func New(name string) (*ConsoleOut, error) {
	co := &ConsoleOut{}
	if err := co.ChangeDriver(name); err != nil {
		return nil, err
	}
	return co, nil
}

// GetDriver allows getting our driver at runtime.
func (co *ConsoleOut) GetDriver() ConsoleOutput {
	return co.driver
}

// ChangeDriver allows changing our driver at runtime.
func (co *ConsoleOut) ChangeDriver(name string) error {
	ctor, ok := handlers.m[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	co.driver = ctor()
	return nil
}

// GetName returns the name of our selected driver.
func (co *ConsoleOut) GetName() string {
	return co.driver.GetName()
}

// GetDrivers returns all available driver-names, sorted.
//
// We hide the internal "null", and "logger" drivers.
func (co *ConsoleOut) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != "null" && x != "logger" {
			valid = append(valid, x)
		}
	}
	sort.Strings(valid)
	return valid
}

// SetWriter redirects the output of the current driver.
func (co *ConsoleOut) SetWriter(w io.Writer) {
	co.driver.SetWriter(w)
}

// PutCharacter outputs a character, using our selected driver.
func (co *ConsoleOut) PutCharacter(c uint8) {
	co.driver.PutCharacter(c)
}

// WriteString outputs each byte of the string.
func (co *ConsoleOut) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		co.driver.PutCharacter(s[i])
	}
}
