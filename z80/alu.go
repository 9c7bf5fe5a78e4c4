package z80

// szFlags returns S and Z for the given result, along with the
// undocumented copies of bits 3 and 5.
func szFlags(v uint8) uint8 {
	f := v & (FlagS | flagXY)
	if v == 0 {
		f |= FlagZ
	}
	return f
}

// parity returns true if the value has an even number of set bits.
func parity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// szpFlags is szFlags with P/V holding the parity of the result.
func szpFlags(v uint8) uint8 {
	f := szFlags(v)
	if parity(v) {
		f |= FlagPV
	}
	return f
}

// add8 returns x+y+carry, setting every flag.
func (r *Registers) add8(x, y, carry uint8) uint8 {
	sum := uint16(x) + uint16(y) + uint16(carry)
	res := uint8(sum)

	f := szFlags(res)
	if (x&0x0F)+(y&0x0F)+carry > 0x0F {
		f |= FlagH
	}
	if (x^y)&0x80 == 0 && (x^res)&0x80 != 0 {
		f |= FlagPV
	}
	if sum > 0xFF {
		f |= FlagC
	}
	r.AF.Lo = f
	return res
}

// sub8 returns x-y-carry, setting every flag.
func (r *Registers) sub8(x, y, carry uint8) uint8 {
	diff := int(x) - int(y) - int(carry)
	res := uint8(diff)

	f := szFlags(res) | FlagN
	if int(x&0x0F)-int(y&0x0F)-int(carry) < 0 {
		f |= FlagH
	}
	if (x^y)&0x80 != 0 && (x^res)&0x80 != 0 {
		f |= FlagPV
	}
	if diff < 0 {
		f |= FlagC
	}
	r.AF.Lo = f
	return res
}

// cmp8 sets the flags as sub8 would, discarding the result.  The
// undocumented bits come from the operand rather than the result.
func (r *Registers) cmp8(x, y uint8) {
	r.sub8(x, y, 0)
	r.AF.Lo = r.AF.Lo&^flagXY | y&flagXY
}

func (r *Registers) neg8(x uint8) uint8 {
	return r.sub8(0, x, 0)
}

// inc8 is add8(v, 1) which leaves the carry alone.
func (r *Registers) inc8(v uint8) uint8 {
	c := r.carry()
	res := r.add8(v, 1, 0)
	r.AF.Lo = r.AF.Lo&^FlagC | c
	return res
}

// dec8 is sub8(v, 1) which leaves the carry alone.
func (r *Registers) dec8(v uint8) uint8 {
	c := r.carry()
	res := r.sub8(v, 1, 0)
	r.AF.Lo = r.AF.Lo&^FlagC | c
	return res
}

// add16 is ADD HL,rr: only H, N and C change.
func (r *Registers) add16(x, y uint16) uint16 {
	sum := uint32(x) + uint32(y)
	res := uint16(sum)

	f := r.AF.Lo & (FlagS | FlagZ | FlagPV)
	if (x&0x0FFF)+(y&0x0FFF) > 0x0FFF {
		f |= FlagH
	}
	if sum > 0xFFFF {
		f |= FlagC
	}
	f |= uint8(res>>8) & flagXY
	r.AF.Lo = f
	return res
}

// adc16 is ADC HL,rr.
func (r *Registers) adc16(x, y uint16) uint16 {
	c := uint32(r.carry())
	sum := uint32(x) + uint32(y) + c
	res := uint16(sum)

	f := uint8(res>>8) & (FlagS | flagXY)
	if res == 0 {
		f |= FlagZ
	}
	if uint32(x&0x0FFF)+uint32(y&0x0FFF)+c > 0x0FFF {
		f |= FlagH
	}
	if (x^y)&0x8000 == 0 && (x^res)&0x8000 != 0 {
		f |= FlagPV
	}
	if sum > 0xFFFF {
		f |= FlagC
	}
	r.AF.Lo = f
	return res
}

// sbc16 is SBC HL,rr.
func (r *Registers) sbc16(x, y uint16) uint16 {
	c := int32(r.carry())
	diff := int32(x) - int32(y) - c
	res := uint16(diff)

	f := uint8(res>>8)&(FlagS|flagXY) | FlagN
	if res == 0 {
		f |= FlagZ
	}
	if int32(x&0x0FFF)-int32(y&0x0FFF)-c < 0 {
		f |= FlagH
	}
	if (x^y)&0x8000 != 0 && (x^res)&0x8000 != 0 {
		f |= FlagPV
	}
	if diff < 0 {
		f |= FlagC
	}
	r.AF.Lo = f
	return res
}

func (r *Registers) and8(x, y uint8) uint8 {
	res := x & y
	r.AF.Lo = szpFlags(res) | FlagH
	return res
}

func (r *Registers) or8(x, y uint8) uint8 {
	res := x | y
	r.AF.Lo = szpFlags(res)
	return res
}

func (r *Registers) xor8(x, y uint8) uint8 {
	res := x ^ y
	r.AF.Lo = szpFlags(res)
	return res
}

// shifted stores the flags for the CB-prefixed rotates and shifts.
func (r *Registers) shifted(res, carry uint8) uint8 {
	r.AF.Lo = szpFlags(res) | carry
	return res
}

func (r *Registers) rlc(v uint8) uint8 {
	c := v >> 7
	return r.shifted(v<<1|c, c)
}

func (r *Registers) rrc(v uint8) uint8 {
	c := v & 1
	return r.shifted(v>>1|c<<7, c)
}

func (r *Registers) rl(v uint8) uint8 {
	return r.shifted(v<<1|r.carry(), v>>7)
}

func (r *Registers) rr(v uint8) uint8 {
	return r.shifted(v>>1|r.carry()<<7, v&1)
}

func (r *Registers) sla(v uint8) uint8 {
	return r.shifted(v<<1, v>>7)
}

func (r *Registers) sra(v uint8) uint8 {
	return r.shifted(v>>1|v&0x80, v&1)
}

// sll is the undocumented shift which feeds a 1 into bit 0.
func (r *Registers) sll(v uint8) uint8 {
	return r.shifted(v<<1|1, v>>7)
}

func (r *Registers) srl(v uint8) uint8 {
	return r.shifted(v>>1, v&1)
}

// rotate applies the CB-table operation selected by bits 3-5 of the
// opcode.
func (r *Registers) rotate(op, v uint8) uint8 {
	switch op {
	case 0:
		return r.rlc(v)
	case 1:
		return r.rrc(v)
	case 2:
		return r.rl(v)
	case 3:
		return r.rr(v)
	case 4:
		return r.sla(v)
	case 5:
		return r.sra(v)
	case 6:
		return r.sll(v)
	}
	return r.srl(v)
}

// bit tests bit n of v.  Only Z, H and N are touched.
func (r *Registers) bit(n, v uint8) {
	f := r.AF.Lo&^(FlagZ|FlagN) | FlagH
	if v&(1<<n) == 0 {
		f |= FlagZ
	}
	r.AF.Lo = f
}

func setBit(n, v uint8) uint8 {
	return v | 1<<n
}

func resBit(n, v uint8) uint8 {
	return v &^ (1 << n)
}

// rotated stores the flags for the accumulator-only rotates, which
// preserve S, Z and P/V.
func (r *Registers) rotated(carry uint8) {
	r.AF.Lo = r.AF.Lo&(FlagS|FlagZ|FlagPV) | r.AF.Hi&flagXY | carry
}

func (r *Registers) rlca() {
	c := r.AF.Hi >> 7
	r.AF.Hi = r.AF.Hi<<1 | c
	r.rotated(c)
}

func (r *Registers) rrca() {
	c := r.AF.Hi & 1
	r.AF.Hi = r.AF.Hi>>1 | c<<7
	r.rotated(c)
}

func (r *Registers) rla() {
	c := r.AF.Hi >> 7
	r.AF.Hi = r.AF.Hi<<1 | r.carry()
	r.rotated(c)
}

func (r *Registers) rra() {
	c := r.AF.Hi & 1
	r.AF.Hi = r.AF.Hi>>1 | r.carry()<<7
	r.rotated(c)
}

// daa adjusts the accumulator after a BCD addition or subtraction.
func (r *Registers) daa() {
	a := r.AF.Hi
	f := r.AF.Lo

	adjust := uint8(0)
	carry := f & FlagC
	if f&FlagH != 0 || a&0x0F > 9 {
		adjust |= 0x06
	}
	if carry != 0 || a > 0x99 {
		adjust |= 0x60
		carry = FlagC
	}

	var res uint8
	var half bool
	if f&FlagN != 0 {
		res = a - adjust
		half = f&FlagH != 0 && a&0x0F < 6
	} else {
		res = a + adjust
		half = a&0x0F > 9
	}

	nf := szpFlags(res) | f&FlagN | carry
	if half {
		nf |= FlagH
	}
	r.AF.Hi = res
	r.AF.Lo = nf
}

func (r *Registers) cpl() {
	r.AF.Hi = ^r.AF.Hi
	r.AF.Lo = r.AF.Lo&(FlagS|FlagZ|FlagPV|FlagC) | FlagH | FlagN | r.AF.Hi&flagXY
}

func (r *Registers) scf() {
	r.AF.Lo = r.AF.Lo&(FlagS|FlagZ|FlagPV) | FlagC | r.AF.Hi&flagXY
}

func (r *Registers) ccf() {
	f := r.AF.Lo&(FlagS|FlagZ|FlagPV) | r.AF.Hi&flagXY
	if r.AF.Lo&FlagC != 0 {
		f |= FlagH
	} else {
		f |= FlagC
	}
	r.AF.Lo = f
}

// rld rotates the low nibble of A and the byte m leftwards as a
// 12-bit quantity, returning the new value of m.
func (r *Registers) rld(m uint8) uint8 {
	a := r.AF.Hi
	out := m<<4 | a&0x0F
	r.AF.Hi = a&0xF0 | m>>4
	r.AF.Lo = szpFlags(r.AF.Hi) | r.carry()
	return out
}

// rrd is the rightwards counterpart of rld.
func (r *Registers) rrd(m uint8) uint8 {
	a := r.AF.Hi
	out := a<<4 | m>>4
	r.AF.Hi = a&0xF0 | m&0x0F
	r.AF.Lo = szpFlags(r.AF.Hi) | r.carry()
	return out
}
