// Package z80 contains a Z80 processor core which executes one
// instruction at a time against a 64K memory image.
//
// The core knows nothing about CP/M; callers nominate a "trap region"
// and are told whenever a RET instruction located inside it has been
// executed, which is how the operating system layer is implemented.
package z80

import "fmt"

// Flag bits within the F register.
const (
	FlagC  uint8 = 0x01 // carry
	FlagN  uint8 = 0x02 // add/subtract
	FlagPV uint8 = 0x04 // parity/overflow
	FlagH  uint8 = 0x10 // half-carry
	FlagZ  uint8 = 0x40 // zero
	FlagS  uint8 = 0x80 // sign

	// flagXY are the undocumented copies of bits 3 and 5 of a result.
	flagXY uint8 = 0x28
)

// Register is a register pair, which may be used as two 8-bit halves
// or as a single 16-bit value.
type Register struct {
	Hi uint8
	Lo uint8
}

// U16 returns the pair as a 16-bit value.
func (r *Register) U16() uint16 {
	return uint16(r.Hi)<<8 | uint16(r.Lo)
}

// SetU16 stores a 16-bit value into the pair.
func (r *Register) SetU16(v uint16) {
	r.Hi = uint8(v >> 8)
	r.Lo = uint8(v)
}

// Registers is the programmer-visible state of the processor.
//
// AF holds the accumulator in Hi and the flags in Lo.
type Registers struct {
	AF Register
	BC Register
	DE Register
	HL Register

	// The shadow bank, swapped by EX AF,AF' and EXX.
	AltAF Register
	AltBC Register
	AltDE Register
	AltHL Register

	IX uint16
	IY uint16
	SP uint16
	PC uint16

	// I is the interrupt vector, R the memory refresh counter.
	I uint8
	R uint8

	IFF1 bool
	IFF2 bool
	IM   uint8
}

// Flag reports whether the given flag bit is set.
func (r *Registers) Flag(mask uint8) bool {
	return r.AF.Lo&mask != 0
}

// SetFlag sets or clears the given flag bit.
func (r *Registers) SetFlag(mask uint8, on bool) {
	if on {
		r.AF.Lo |= mask
	} else {
		r.AF.Lo &^= mask
	}
}

// carry returns the carry flag as 0 or 1.
func (r *Registers) carry() uint8 {
	return r.AF.Lo & FlagC
}

// ExAF swaps AF with its shadow.
func (r *Registers) ExAF() {
	r.AF, r.AltAF = r.AltAF, r.AF
}

// Exx swaps BC, DE and HL with their shadows.
func (r *Registers) Exx() {
	r.BC, r.AltBC = r.AltBC, r.BC
	r.DE, r.AltDE = r.AltDE, r.DE
	r.HL, r.AltHL = r.AltHL, r.HL
}

// String returns a one-line summary, used in diagnostics.
func (r Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X",
		r.AF.U16(), r.BC.U16(), r.DE.U16(), r.HL.U16(), r.IX, r.IY, r.SP, r.PC)
}
