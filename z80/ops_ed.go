package z80

// edOps holds the extended opcodes.  Port I/O is not supported.
var edOps [256]op

func init() {
	for p := uint8(0); p < 4; p++ {
		edOps[0x42|p<<4] = func(c *CPU) { c.HL.SetU16(c.sbc16(c.HL.U16(), c.pair(p))) }
		edOps[0x4A|p<<4] = func(c *CPU) { c.HL.SetU16(c.adc16(c.HL.U16(), c.pair(p))) }
		edOps[0x43|p<<4] = func(c *CPU) { c.write16(c.fetchWord(), c.pair(p)) }
		edOps[0x4B|p<<4] = func(c *CPU) { c.setPair(p, c.read16(c.fetchWord())) }
	}

	// NEG, RETN and IM each have undocumented mirrors.
	for y := uint8(0); y < 8; y++ {
		edOps[0x44|y<<3] = func(c *CPU) { c.AF.Hi = c.neg8(c.AF.Hi) }
		edOps[0x45|y<<3] = func(c *CPU) {
			c.IFF1 = c.IFF2
			c.ret()
		}

		mode := [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}[y]
		edOps[0x46|y<<3] = func(c *CPU) { c.IM = mode }
	}
	edOps[0x4D] = func(c *CPU) { c.ret() }

	edOps[0x47] = func(c *CPU) { c.I = c.AF.Hi }
	edOps[0x4F] = func(c *CPU) { c.R = c.AF.Hi }
	edOps[0x57] = func(c *CPU) { c.loadSpecial(c.I) }
	edOps[0x5F] = func(c *CPU) { c.loadSpecial(c.R) }

	edOps[0x67] = func(c *CPU) { c.write(c.HL.U16(), c.rrd(c.read(c.HL.U16()))) }
	edOps[0x6F] = func(c *CPU) { c.write(c.HL.U16(), c.rld(c.read(c.HL.U16()))) }

	edOps[0xA0] = func(c *CPU) { c.ldi(1) }
	edOps[0xA8] = func(c *CPU) { c.ldi(0xFFFF) }
	edOps[0xB0] = func(c *CPU) { c.repeat(c.ldi(1)) }
	edOps[0xB8] = func(c *CPU) { c.repeat(c.ldi(0xFFFF)) }

	edOps[0xA1] = func(c *CPU) { c.cpi(1) }
	edOps[0xA9] = func(c *CPU) { c.cpi(0xFFFF) }
	edOps[0xB1] = func(c *CPU) { c.repeat(c.cpi(1) && !c.Flag(FlagZ)) }
	edOps[0xB9] = func(c *CPU) { c.repeat(c.cpi(0xFFFF) && !c.Flag(FlagZ)) }
}

// loadSpecial is LD A,I and LD A,R, where P/V reports IFF2.
func (c *CPU) loadSpecial(v uint8) {
	c.AF.Hi = v
	f := szFlags(v) | c.carry()
	if c.IFF2 {
		f |= FlagPV
	}
	c.AF.Lo = f
}

// repeat re-runs the current instruction on the next step.
func (c *CPU) repeat(again bool) {
	if again {
		c.PC = c.start
	}
}

// ldi copies one byte from (HL) to (DE), stepping both pointers by
// step and decrementing BC.  It returns true while BC is non-zero.
func (c *CPU) ldi(step uint16) bool {
	v := c.read(c.HL.U16())
	c.write(c.DE.U16(), v)
	c.HL.SetU16(c.HL.U16() + step)
	c.DE.SetU16(c.DE.U16() + step)

	bc := c.BC.U16() - 1
	c.BC.SetU16(bc)

	f := c.AF.Lo & (FlagS | FlagZ | FlagC)
	if bc != 0 {
		f |= FlagPV
	}
	n := v + c.AF.Hi
	f |= n & 0x08
	if n&0x02 != 0 {
		f |= 0x20
	}
	c.AF.Lo = f
	return bc != 0
}

// cpi compares A with (HL), stepping HL and decrementing BC.  It
// returns true while BC is non-zero.
func (c *CPU) cpi(step uint16) bool {
	v := c.read(c.HL.U16())
	c.HL.SetU16(c.HL.U16() + step)

	bc := c.BC.U16() - 1
	c.BC.SetU16(bc)

	carry := c.carry()
	c.cmp8(c.AF.Hi, v)
	f := c.AF.Lo&^(FlagPV|FlagC) | carry
	if bc != 0 {
		f |= FlagPV
	}
	c.AF.Lo = f
	return bc != 0
}
