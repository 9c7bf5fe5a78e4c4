package z80

import (
	"fmt"
	"strings"
)

// Kind describes why execution could not continue.
type Kind int

// The fault kinds, each of which maps to a process exit status.
const (
	UnknownOpcode Kind = iota + 1
	UnknownPrefixedOpcode
	UnsupportedOSFunction
	SelfModificationGuardTripped
	HostIOFailure
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case UnknownOpcode:
		return "unknown opcode"
	case UnknownPrefixedOpcode:
		return "unknown prefixed opcode"
	case UnsupportedOSFunction:
		return "unsupported OS function"
	case SelfModificationGuardTripped:
		return "self-modification guard tripped"
	case HostIOFailure:
		return "host I/O failure"
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case UnknownOpcode, UnknownPrefixedOpcode:
		return 1
	case UnsupportedOSFunction:
		return 2
	case SelfModificationGuardTripped:
		return 44
	case HostIOFailure:
		return 3
	}
	return 1
}

// Fault is a fatal error, carrying enough state to diagnose it.
type Fault struct {
	Kind Kind

	// PC is the address of the offending instruction.
	PC uint16

	// Opcode holds the bytes fetched for the instruction, prefixes included.
	Opcode []uint8

	// History holds the addresses of the instructions executed
	// immediately before this one, oldest first.
	History []uint16

	// Registers is a snapshot taken when the fault was raised.
	Registers Registers

	// Detail is a free-form description.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	switch f.Kind {
	case UnknownOpcode, UnknownPrefixedOpcode:
		return fmt.Sprintf("%s %s at 0x%04X", f.Kind, hexBytes(f.Opcode), f.PC)
	case SelfModificationGuardTripped:
		return fmt.Sprintf("%s at 0x%04X: %v", f.Kind, f.PC, f.Err)
	}

	msg := f.Kind.String()
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Dump returns a multi-line report suitable for showing to a user.
func (f *Fault) Dump() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", f.Error())
	fmt.Fprintf(&sb, "  registers: %s\n", f.Registers)
	if len(f.History) > 0 {
		trail := make([]string, len(f.History))
		for i, pc := range f.History {
			trail[i] = fmt.Sprintf("%04X", pc)
		}
		fmt.Fprintf(&sb, "  previous:  %s\n", strings.Join(trail, " "))
	}
	return sb.String()
}

func hexBytes(b []uint8) string {
	out := make([]string, len(b))
	for i, v := range b {
		out[i] = fmt.Sprintf("0x%02X", v)
	}
	return strings.Join(out, " ")
}
