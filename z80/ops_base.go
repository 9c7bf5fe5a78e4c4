package z80

// baseOps holds the unprefixed opcodes.  Entries left nil are not
// implemented and stop execution.
var baseOps [256]op

func init() {
	baseOps[0x00] = func(c *CPU) {}

	// 16-bit loads and arithmetic on BC, DE, HL, SP.
	for p := uint8(0); p < 4; p++ {
		baseOps[0x01|p<<4] = func(c *CPU) { c.setPair(p, c.fetchWord()) }
		baseOps[0x03|p<<4] = func(c *CPU) { c.setPair(p, c.pair(p)+1) }
		baseOps[0x09|p<<4] = func(c *CPU) { c.HL.SetU16(c.add16(c.HL.U16(), c.pair(p))) }
		baseOps[0x0B|p<<4] = func(c *CPU) { c.setPair(p, c.pair(p)-1) }

		baseOps[0xC1|p<<4] = func(c *CPU) { c.setStackPair(p, c.pop()) }
		baseOps[0xC5|p<<4] = func(c *CPU) { c.push(c.stackPair(p)) }
	}

	// 8-bit increment, decrement and immediate load.
	for r := uint8(0); r < 8; r++ {
		baseOps[0x04|r<<3] = func(c *CPU) { c.setReg8(r, c.inc8(c.reg8(r))) }
		baseOps[0x05|r<<3] = func(c *CPU) { c.setReg8(r, c.dec8(c.reg8(r))) }
		baseOps[0x06|r<<3] = func(c *CPU) { c.setReg8(r, c.fetchByte()) }
	}

	baseOps[0x02] = func(c *CPU) { c.write(c.BC.U16(), c.AF.Hi) }
	baseOps[0x0A] = func(c *CPU) { c.AF.Hi = c.read(c.BC.U16()) }
	baseOps[0x12] = func(c *CPU) { c.write(c.DE.U16(), c.AF.Hi) }
	baseOps[0x1A] = func(c *CPU) { c.AF.Hi = c.read(c.DE.U16()) }
	baseOps[0x22] = func(c *CPU) { c.write16(c.fetchWord(), c.HL.U16()) }
	baseOps[0x2A] = func(c *CPU) { c.HL.SetU16(c.read16(c.fetchWord())) }
	baseOps[0x32] = func(c *CPU) { c.write(c.fetchWord(), c.AF.Hi) }
	baseOps[0x3A] = func(c *CPU) { c.AF.Hi = c.read(c.fetchWord()) }

	baseOps[0x07] = func(c *CPU) { c.rlca() }
	baseOps[0x0F] = func(c *CPU) { c.rrca() }
	baseOps[0x17] = func(c *CPU) { c.rla() }
	baseOps[0x1F] = func(c *CPU) { c.rra() }
	baseOps[0x27] = func(c *CPU) { c.daa() }
	baseOps[0x2F] = func(c *CPU) { c.cpl() }
	baseOps[0x37] = func(c *CPU) { c.scf() }
	baseOps[0x3F] = func(c *CPU) { c.ccf() }

	baseOps[0x08] = func(c *CPU) { c.ExAF() }
	baseOps[0xD9] = func(c *CPU) { c.Exx() }
	baseOps[0xEB] = func(c *CPU) { c.DE, c.HL = c.HL, c.DE }
	baseOps[0xE3] = func(c *CPU) {
		v := c.read16(c.SP)
		c.write16(c.SP, c.HL.U16())
		c.HL.SetU16(v)
	}

	// Relative jumps.
	baseOps[0x10] = func(c *CPU) {
		c.BC.Hi--
		c.jr(c.BC.Hi != 0)
	}
	baseOps[0x18] = func(c *CPU) { c.jr(true) }
	for cc := uint8(0); cc < 4; cc++ {
		baseOps[0x20|cc<<3] = func(c *CPU) { c.jr(c.condition(cc)) }
	}

	// LD r,r' - 0x76 would be LD (HL),(HL) which is HALT.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 && src == 6 {
				continue
			}
			baseOps[0x40|dst<<3|src] = func(c *CPU) { c.setReg8(dst, c.reg8(src)) }
		}
	}

	// Accumulator arithmetic, register and immediate forms.
	for operation := uint8(0); operation < 8; operation++ {
		for src := uint8(0); src < 8; src++ {
			baseOps[0x80|operation<<3|src] = func(c *CPU) { c.alu(operation, c.reg8(src)) }
		}
		baseOps[0xC6|operation<<3] = func(c *CPU) { c.alu(operation, c.fetchByte()) }
	}

	// Conditional flow and restarts.
	for cc := uint8(0); cc < 8; cc++ {
		baseOps[0xC0|cc<<3] = func(c *CPU) {
			if c.condition(cc) {
				c.ret()
			}
		}
		baseOps[0xC2|cc<<3] = func(c *CPU) {
			addr := c.fetchWord()
			if c.condition(cc) {
				c.PC = addr
			}
		}
		baseOps[0xC4|cc<<3] = func(c *CPU) {
			addr := c.fetchWord()
			if c.condition(cc) {
				c.call(addr)
			}
		}
		baseOps[0xC7|cc<<3] = func(c *CPU) { c.call(uint16(cc) << 3) }
	}

	baseOps[0xC3] = func(c *CPU) { c.PC = c.fetchWord() }
	baseOps[0xC9] = func(c *CPU) { c.ret() }
	baseOps[0xCD] = func(c *CPU) { c.call(c.fetchWord()) }
	baseOps[0xE9] = func(c *CPU) { c.PC = c.HL.U16() }
	baseOps[0xF9] = func(c *CPU) { c.SP = c.HL.U16() }

	// There are no interrupts, so these only record state.
	baseOps[0xF3] = func(c *CPU) {
		c.IFF1 = false
		c.IFF2 = false
	}
	baseOps[0xFB] = func(c *CPU) {
		c.IFF1 = true
		c.IFF2 = true
	}

	baseOps[0xCB] = func(c *CPU) { c.prefixed(&cbOps) }
	baseOps[0xED] = func(c *CPU) { c.prefixed(&edOps) }
	baseOps[0xDD] = func(c *CPU) { c.prefixed(&ddOps) }
	baseOps[0xFD] = func(c *CPU) { c.prefixed(&fdOps) }
}

// prefixed fetches the opcode following a prefix byte and dispatches
// it through the given table.
func (c *CPU) prefixed(table *[256]op) {
	opcode := c.fetchOpcode()
	handler := table[opcode]
	if handler == nil {
		c.unknown = true
		return
	}
	handler(c)
}
