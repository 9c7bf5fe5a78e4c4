package z80

import (
	"errors"
	"fmt"
)

// Memory is the view of RAM which the processor requires.
//
// Fetch is used for every byte read as part of an instruction and may
// refuse to return it; Get and Store are used for data.
type Memory interface {
	Get(addr uint16) uint8
	Fetch(addr uint16, pc uint16) (uint8, error)
	Store(addr uint16, value uint8, pc uint16)
}

// StatusKind says what happened during a single step.
type StatusKind int

// The possible results of a step.
const (
	// Continue means the instruction executed normally.
	Continue StatusKind = iota

	// Trap means a RET inside the trap region was executed.
	Trap

	// Fatal means execution cannot continue, see Status.Fault.
	Fatal
)

// Status is the result of Step.
type Status struct {
	Kind StatusKind

	// Trap holds the address of the RET which caused a Trap.
	Trap uint16

	// Fault is set when Kind is Fatal.
	Fault *Fault
}

// historySize is the number of previous instruction addresses retained
// for diagnostics.
const historySize = 8

// op is the handler for a single opcode.
type op func(c *CPU)

// CPU is a Z80 processor bound to a memory image.
type CPU struct {
	Registers

	mem Memory

	// trap region, inclusive.
	trapLo   uint16
	trapHi   uint16
	trapping bool

	// start is the address of the instruction being executed.
	start uint16

	// bytes holds what has been fetched for the current instruction.
	bytes  [4]uint8
	nbytes int

	// err records the first failed fetch of the current instruction.
	err error

	// unknown is set by a prefix handler which found no entry.
	unknown bool

	// trapped is set by RET within the trap region.
	trapped bool

	history [historySize]uint16
	hpos    int
	hlen    int
}

// New returns a processor attached to the given memory, with all
// registers zeroed.
func New(mem Memory) *CPU {
	return &CPU{mem: mem}
}

// SetTrapRegion nominates the inclusive address range within which a
// RET instruction produces a Trap status.
func (c *CPU) SetTrapRegion(lo, hi uint16) {
	c.trapLo = lo
	c.trapHi = hi
	c.trapping = true
}

// Reset clears the registers and the instruction history.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.hpos = 0
	c.hlen = 0
}

// History returns the addresses of the most recently completed
// instructions, oldest first.
func (c *CPU) History() []uint16 {
	out := make([]uint16, 0, c.hlen)
	for i := c.hlen; i > 0; i-- {
		out = append(out, c.history[(c.hpos-i+historySize)%historySize])
	}
	return out
}

// Step executes exactly one instruction.
func (c *CPU) Step() Status {
	c.start = c.PC
	c.nbytes = 0
	c.err = nil
	c.unknown = false
	c.trapped = false

	opcode := c.fetchOpcode()
	if c.err != nil {
		return c.fatal(SelfModificationGuardTripped, "")
	}

	handler := baseOps[opcode]
	if handler == nil {
		return c.fatal(UnknownOpcode, "")
	}
	handler(c)

	if c.unknown {
		return c.fatal(UnknownPrefixedOpcode, "")
	}
	if c.err != nil {
		return c.fatal(SelfModificationGuardTripped, "")
	}

	c.history[c.hpos] = c.start
	c.hpos = (c.hpos + 1) % historySize
	if c.hlen < historySize {
		c.hlen++
	}

	if c.trapped {
		return Status{Kind: Trap, Trap: c.start}
	}
	return Status{Kind: Continue}
}

// Run steps until something other than Continue happens.
func (c *CPU) Run() Status {
	for {
		st := c.Step()
		if st.Kind != Continue {
			return st
		}
	}
}

// fatal builds the Fatal status for the current instruction.  The
// program counter is left pointing at the failing instruction.
func (c *CPU) fatal(kind Kind, detail string) Status {
	c.PC = c.start

	f := &Fault{
		Kind:      kind,
		PC:        c.start,
		Opcode:    append([]uint8(nil), c.bytes[:c.nbytes]...),
		History:   c.History(),
		Registers: c.Registers,
		Detail:    detail,
		Err:       c.err,
	}
	if kind == SelfModificationGuardTripped && f.Err == nil {
		f.Err = errors.New("guard tripped")
	}
	return Status{Kind: Fatal, Fault: f}
}

// fetchByte reads the byte at PC as part of the current instruction.
func (c *CPU) fetchByte() uint8 {
	v, err := c.mem.Fetch(c.PC, c.start)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("fetch of 0x%04X: %w", c.PC, err)
	}
	if c.nbytes < len(c.bytes) {
		c.bytes[c.nbytes] = v
		c.nbytes++
	}
	c.PC++
	return v
}

// fetchOpcode is fetchByte for an opcode or prefix, which advances
// the refresh counter.
func (c *CPU) fetchOpcode() uint8 {
	c.R = c.R&0x80 | (c.R+1)&0x7F
	return c.fetchByte()
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read(addr uint16) uint8 {
	return c.mem.Get(addr)
}

func (c *CPU) write(addr uint16, v uint8) {
	c.mem.Store(addr, v, c.start)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read(addr+1))<<8 | uint16(c.read(addr))
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write(addr, uint8(v))
	c.write(addr+1, uint8(v>>8))
}

func (c *CPU) push(v uint16) {
	c.SP--
	c.write(c.SP, uint8(v>>8))
	c.SP--
	c.write(c.SP, uint8(v))
}

func (c *CPU) pop() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// ret pops the return address, noting when the RET lives in the trap
// region.
func (c *CPU) ret() {
	c.PC = c.pop()
	if c.trapping && c.start >= c.trapLo && c.start <= c.trapHi {
		c.trapped = true
	}
}

func (c *CPU) call(addr uint16) {
	c.push(c.PC)
	c.PC = addr
}

// jr reads a displacement and branches relative to the following
// instruction when take is true.
func (c *CPU) jr(take bool) {
	d := int8(c.fetchByte())
	if take {
		c.PC += uint16(d)
	}
}

// condition evaluates the 3-bit condition code NZ,Z,NC,C,PO,PE,P,M.
func (c *CPU) condition(cc uint8) bool {
	var set bool
	switch cc >> 1 {
	case 0:
		set = c.Flag(FlagZ)
	case 1:
		set = c.Flag(FlagC)
	case 2:
		set = c.Flag(FlagPV)
	default:
		set = c.Flag(FlagS)
	}
	if cc&1 == 0 {
		return !set
	}
	return set
}

// reg8 returns the register selected by the 3-bit encoding
// B,C,D,E,H,L,(HL),A.
func (c *CPU) reg8(code uint8) uint8 {
	switch code {
	case 0:
		return c.BC.Hi
	case 1:
		return c.BC.Lo
	case 2:
		return c.DE.Hi
	case 3:
		return c.DE.Lo
	case 4:
		return c.HL.Hi
	case 5:
		return c.HL.Lo
	case 6:
		return c.read(c.HL.U16())
	}
	return c.AF.Hi
}

func (c *CPU) setReg8(code, v uint8) {
	switch code {
	case 0:
		c.BC.Hi = v
	case 1:
		c.BC.Lo = v
	case 2:
		c.DE.Hi = v
	case 3:
		c.DE.Lo = v
	case 4:
		c.HL.Hi = v
	case 5:
		c.HL.Lo = v
	case 6:
		c.write(c.HL.U16(), v)
	default:
		c.AF.Hi = v
	}
}

// pair returns the register pair selected by the 2-bit encoding
// BC,DE,HL,SP.
func (c *CPU) pair(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC.U16()
	case 1:
		return c.DE.U16()
	case 2:
		return c.HL.U16()
	}
	return c.SP
}

func (c *CPU) setPair(p uint8, v uint16) {
	switch p {
	case 0:
		c.BC.SetU16(v)
	case 1:
		c.DE.SetU16(v)
	case 2:
		c.HL.SetU16(v)
	default:
		c.SP = v
	}
}

// stackPair is pair with AF in place of SP, as used by PUSH and POP.
func (c *CPU) stackPair(p uint8) uint16 {
	if p == 3 {
		return c.AF.U16()
	}
	return c.pair(p)
}

func (c *CPU) setStackPair(p uint8, v uint16) {
	if p == 3 {
		c.AF.SetU16(v)
		return
	}
	c.setPair(p, v)
}

// alu applies the accumulator operation ADD,ADC,SUB,SBC,AND,XOR,OR,CP
// selected by the 3-bit encoding.
func (c *CPU) alu(operation, v uint8) {
	a := c.AF.Hi
	switch operation {
	case 0:
		c.AF.Hi = c.add8(a, v, 0)
	case 1:
		c.AF.Hi = c.add8(a, v, c.carry())
	case 2:
		c.AF.Hi = c.sub8(a, v, 0)
	case 3:
		c.AF.Hi = c.sub8(a, v, c.carry())
	case 4:
		c.AF.Hi = c.and8(a, v)
	case 5:
		c.AF.Hi = c.xor8(a, v)
	case 6:
		c.AF.Hi = c.or8(a, v)
	default:
		c.cmp8(a, v)
	}
}
