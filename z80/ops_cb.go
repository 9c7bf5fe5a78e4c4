package z80

// cbOps holds the bit manipulation opcodes, every one of which is
// implemented.
var cbOps [256]op

func init() {
	for opcode := 0; opcode < 256; opcode++ {
		y := uint8(opcode>>3) & 7
		z := uint8(opcode) & 7

		switch opcode >> 6 {
		case 0:
			cbOps[opcode] = func(c *CPU) { c.setReg8(z, c.rotate(y, c.reg8(z))) }
		case 1:
			cbOps[opcode] = func(c *CPU) { c.bit(y, c.reg8(z)) }
		case 2:
			cbOps[opcode] = func(c *CPU) { c.setReg8(z, resBit(y, c.reg8(z))) }
		case 3:
			cbOps[opcode] = func(c *CPU) { c.setReg8(z, setBit(y, c.reg8(z))) }
		}
	}
}
