package memory

import "fmt"

// Tag records how the guest has used a single byte of memory.
type Tag struct {
	Fetched bool
	Written bool

	// FetchPC and WritePC hold the address of the instruction which
	// most recently fetched, or stored, the byte.
	FetchPC uint16
	WritePC uint16
}

// Guard holds one Tag per address.
type Guard struct {
	tags []Tag
}

func newGuard() *Guard {
	return &Guard{tags: make([]Tag, 65536)}
}

// ModifiedError is returned by Fetch when an instruction byte was
// previously written by the guest.
type ModifiedError struct {
	// Addr is the address of the modified byte.
	Addr uint16

	// WriterPC is the instruction which stored it.
	WriterPC uint16

	// FetchPC is the instruction which tried to execute it.
	FetchPC uint16
}

// Error implements the error interface.
func (e *ModifiedError) Error() string {
	return fmt.Sprintf("byte at 0x%04X was written by the instruction at 0x%04X and fetched by the instruction at 0x%04X",
		e.Addr, e.WriterPC, e.FetchPC)
}

func (g *Guard) fetched(addr uint16, pc uint16) error {
	t := &g.tags[addr]
	t.Fetched = true
	t.FetchPC = pc
	if t.Written {
		return &ModifiedError{Addr: addr, WriterPC: t.WritePC, FetchPC: pc}
	}
	return nil
}

func (g *Guard) stored(addr uint16, pc uint16) {
	t := &g.tags[addr]
	t.Written = true
	t.WritePC = pc
}
