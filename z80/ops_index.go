package z80

// ddOps and fdOps hold the opcodes which use IX and IY in place of HL.
var (
	ddOps [256]op
	fdOps [256]op

	ddcbOps [256]indexedOp
	fdcbOps [256]indexedOp
)

// indexedOp is a DDCB/FDCB handler, given the effective address.
type indexedOp func(c *CPU, addr uint16)

func init() {
	buildIndexTable(&ddOps, &ddcbOps, func(c *CPU) *uint16 { return &c.IX })
	buildIndexTable(&fdOps, &fdcbOps, func(c *CPU) *uint16 { return &c.IY })
}

// indexReg8 is reg8 with H and L replaced by the halves of the index
// register.  Code 6 must not be used.
func (c *CPU) indexReg8(ix *uint16, code uint8) uint8 {
	switch code {
	case 4:
		return uint8(*ix >> 8)
	case 5:
		return uint8(*ix)
	}
	return c.reg8(code)
}

func (c *CPU) setIndexReg8(ix *uint16, code, v uint8) {
	switch code {
	case 4:
		*ix = *ix&0x00FF | uint16(v)<<8
	case 5:
		*ix = *ix&0xFF00 | uint16(v)
	default:
		c.setReg8(code, v)
	}
}

// indexAddr reads a displacement and returns the address it selects.
func (c *CPU) indexAddr(ix *uint16) uint16 {
	d := int8(c.fetchByte())
	return *ix + uint16(d)
}

func buildIndexTable(table *[256]op, bits *[256]indexedOp, sel func(c *CPU) *uint16) {

	for p := uint8(0); p < 4; p++ {
		table[0x09|p<<4] = func(c *CPU) {
			ix := sel(c)
			v := c.pair(p)
			if p == 2 {
				v = *ix
			}
			*ix = c.add16(*ix, v)
		}
	}

	table[0x21] = func(c *CPU) { *sel(c) = c.fetchWord() }
	table[0x22] = func(c *CPU) { c.write16(c.fetchWord(), *sel(c)) }
	table[0x2A] = func(c *CPU) { *sel(c) = c.read16(c.fetchWord()) }
	table[0x23] = func(c *CPU) { *sel(c)++ }
	table[0x2B] = func(c *CPU) { *sel(c)-- }

	// INC/DEC/LD n on the halves.
	for r := uint8(4); r <= 5; r++ {
		table[0x04|r<<3] = func(c *CPU) {
			ix := sel(c)
			c.setIndexReg8(ix, r, c.inc8(c.indexReg8(ix, r)))
		}
		table[0x05|r<<3] = func(c *CPU) {
			ix := sel(c)
			c.setIndexReg8(ix, r, c.dec8(c.indexReg8(ix, r)))
		}
		table[0x06|r<<3] = func(c *CPU) { c.setIndexReg8(sel(c), r, c.fetchByte()) }
	}

	table[0x34] = func(c *CPU) {
		addr := c.indexAddr(sel(c))
		c.write(addr, c.inc8(c.read(addr)))
	}
	table[0x35] = func(c *CPU) {
		addr := c.indexAddr(sel(c))
		c.write(addr, c.dec8(c.read(addr)))
	}
	table[0x36] = func(c *CPU) {
		addr := c.indexAddr(sel(c))
		c.write(addr, c.fetchByte())
	}

	// LD r,r'.  With a memory operand the other side is the real H or
	// L, otherwise H and L name the index halves.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 | dst<<3 | src
			switch {
			case dst == 6 && src == 6:
				continue
			case src == 6:
				table[opcode] = func(c *CPU) { c.setReg8(dst, c.read(c.indexAddr(sel(c)))) }
			case dst == 6:
				table[opcode] = func(c *CPU) { c.write(c.indexAddr(sel(c)), c.reg8(src)) }
			case dst == 4 || dst == 5 || src == 4 || src == 5:
				table[opcode] = func(c *CPU) {
					ix := sel(c)
					c.setIndexReg8(ix, dst, c.indexReg8(ix, src))
				}
			}
		}
	}

	for operation := uint8(0); operation < 8; operation++ {
		table[0x80|operation<<3|4] = func(c *CPU) { c.alu(operation, c.indexReg8(sel(c), 4)) }
		table[0x80|operation<<3|5] = func(c *CPU) { c.alu(operation, c.indexReg8(sel(c), 5)) }
		table[0x80|operation<<3|6] = func(c *CPU) { c.alu(operation, c.read(c.indexAddr(sel(c)))) }
	}

	table[0xE1] = func(c *CPU) { *sel(c) = c.pop() }
	table[0xE5] = func(c *CPU) { c.push(*sel(c)) }
	table[0xE3] = func(c *CPU) {
		ix := sel(c)
		v := c.read16(c.SP)
		c.write16(c.SP, *ix)
		*ix = v
	}
	table[0xE9] = func(c *CPU) { c.PC = *sel(c) }
	table[0xF9] = func(c *CPU) { c.SP = *sel(c) }

	// DDCB d op: the displacement comes before the opcode.  Forms
	// naming a register other than (HL) also copy the result there.
	table[0xCB] = func(c *CPU) {
		addr := c.indexAddr(sel(c))
		opcode := c.fetchByte()
		bits[opcode](c, addr)
	}

	for opcode := 0; opcode < 256; opcode++ {
		y := uint8(opcode>>3) & 7
		z := uint8(opcode) & 7

		store := func(c *CPU, addr uint16, v uint8) {
			c.write(addr, v)
			if z != 6 {
				c.setReg8(z, v)
			}
		}

		switch opcode >> 6 {
		case 0:
			bits[opcode] = func(c *CPU, addr uint16) { store(c, addr, c.rotate(y, c.read(addr))) }
		case 1:
			bits[opcode] = func(c *CPU, addr uint16) { c.bit(y, c.read(addr)) }
		case 2:
			bits[opcode] = func(c *CPU, addr uint16) { store(c, addr, resBit(y, c.read(addr))) }
		case 3:
			bits[opcode] = func(c *CPU, addr uint16) { store(c, addr, setBit(y, c.read(addr))) }
		}
	}
}
