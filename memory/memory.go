// Package memory provides the 64K of RAM within which guest programs
// execute, with an optional guard which notices when a program runs
// code that it has itself written.
package memory

import (
	"fmt"
	"os"
)

// Memory provides a 64K byte array, and optionally tags every byte with
// the instructions which last fetched or stored it.
type Memory struct {
	buf [65536]uint8

	// guard is nil unless the self-modification guard is enabled.
	guard *Guard
}

// Set sets a byte at addr of memory.
//
// Writes made via Set are not seen by the guard, so this is what the
// loader and the operating system layer use.
func (m *Memory) Set(addr uint16, value uint8) {
	m.buf[addr] = value
}

// Get returns a byte at addr of memory.
func (m *Memory) Get(addr uint16) uint8 {
	return m.buf[addr]
}

// GetU16 returns a little-endian word from the given address, wrapping
// at the top of memory.
func (m *Memory) GetU16(addr uint16) uint16 {
	l := m.Get(addr)
	h := m.Get(addr + 1)
	return (uint16(h) << 8) | uint16(l)
}

// SetU16 stores a little-endian word at the given address, wrapping at
// the top of memory.
func (m *Memory) SetU16(addr uint16, value uint16) {
	m.Set(addr, uint8(value))
	m.Set(addr+1, uint8(value>>8))
}

// SetRange copies bytes from the given data to the specified
// starting address in RAM, wrapping at the top of memory.
func (m *Memory) SetRange(addr uint16, data ...uint8) {
	for _, d := range data {
		m.buf[addr] = d
		addr++
	}
}

// FillRange fills an area of memory with the given byte
func (m *Memory) FillRange(addr uint16, size int, char uint8) {
	for size > 0 {
		m.buf[addr] = char
		addr++
		size--
	}
}

// GetRange returns the contents of a given range
func (m *Memory) GetRange(addr uint16, size int) []uint8 {
	ret := make([]uint8, 0, size)
	for size > 0 {
		ret = append(ret, m.buf[addr])
		addr++
		size--
	}
	return ret
}

// Fetch returns the byte at addr as part of the instruction at pc.
//
// When the guard is enabled an error is returned if the byte was
// written by a guest store, though the byte itself is still returned.
func (m *Memory) Fetch(addr uint16, pc uint16) (uint8, error) {
	if m.guard != nil {
		if err := m.guard.fetched(addr, pc); err != nil {
			return m.buf[addr], err
		}
	}
	return m.buf[addr], nil
}

// Store writes a byte on behalf of the instruction at pc.
func (m *Memory) Store(addr uint16, value uint8, pc uint16) {
	m.buf[addr] = value
	if m.guard != nil {
		m.guard.stored(addr, pc)
	}
}

// EnableGuard turns the self-modification guard on or off.  Enabling
// it always starts with a clean set of tags.
func (m *Memory) EnableGuard(enabled bool) {
	if enabled {
		m.guard = newGuard()
	} else {
		m.guard = nil
	}
}

// GuardEnabled reports whether the guard is active.
func (m *Memory) GuardEnabled() bool {
	return m.guard != nil
}

// Tag returns the guard's record of the given address.  The zero Tag is
// returned when the guard is disabled.
func (m *Memory) Tag(addr uint16) Tag {
	if m.guard == nil {
		return Tag{}
	}
	return m.guard.tags[addr]
}

// LoadFile loads the contents of the named file at the given address,
// after clearing memory.
func (m *Memory) LoadFile(addr uint16, name string) error {

	// Load the binary
	prog, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	return m.LoadBytes(addr, prog)
}

// LoadBytes clears memory and copies the program to the given address.
func (m *Memory) LoadBytes(addr uint16, prog []uint8) error {
	if len(prog) > len(m.buf)-int(addr) {
		return fmt.Errorf("program of %d bytes does not fit at 0x%04X", len(prog), addr)
	}

	// Fill the 64k with NOP instructions
	for i := range m.buf {
		m.buf[i] = 0x00
	}
	if m.guard != nil {
		m.guard = newGuard()
	}

	m.SetRange(addr, prog...)
	return nil
}
