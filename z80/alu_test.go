package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// expectFlag fails the test when the flag does not have the expected
// state.
func expectFlag(t *testing.T, f, mask uint8, want bool, what string, x, y, c int) {
	t.Helper()
	if (f&mask != 0) != want {
		t.Fatalf("%s(0x%02X, 0x%02X, %d): flag 0x%02X was %v, expected %v", what, x, y, c, mask, !want, want)
	}
}

// TestAddTruthTable checks every combination of operands and carry
// against plain integer arithmetic.
func TestAddTruthTable(t *testing.T) {
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			for c := 0; c < 2; c++ {
				var r Registers
				got := r.add8(uint8(x), uint8(y), uint8(c))

				sum := x + y + c
				if got != uint8(sum) {
					t.Fatalf("add8(0x%02X, 0x%02X, %d) = 0x%02X", x, y, c, got)
				}

				signed := int(int8(uint8(x))) + int(int8(uint8(y))) + c
				f := r.AF.Lo
				expectFlag(t, f, FlagC, sum > 0xFF, "add8", x, y, c)
				expectFlag(t, f, FlagH, x&0x0F+y&0x0F+c > 0x0F, "add8", x, y, c)
				expectFlag(t, f, FlagPV, signed < -128 || signed > 127, "add8", x, y, c)
				expectFlag(t, f, FlagZ, uint8(sum) == 0, "add8", x, y, c)
				expectFlag(t, f, FlagS, sum&0x80 != 0, "add8", x, y, c)
				expectFlag(t, f, FlagN, false, "add8", x, y, c)
			}
		}
	}
}

// TestSubTruthTable is TestAddTruthTable for subtraction.
func TestSubTruthTable(t *testing.T) {
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			for c := 0; c < 2; c++ {
				var r Registers
				got := r.sub8(uint8(x), uint8(y), uint8(c))

				diff := x - y - c
				if got != uint8(diff) {
					t.Fatalf("sub8(0x%02X, 0x%02X, %d) = 0x%02X", x, y, c, got)
				}

				signed := int(int8(uint8(x))) - int(int8(uint8(y))) - c
				f := r.AF.Lo
				expectFlag(t, f, FlagC, diff < 0, "sub8", x, y, c)
				expectFlag(t, f, FlagH, x&0x0F-y&0x0F-c < 0, "sub8", x, y, c)
				expectFlag(t, f, FlagPV, signed < -128 || signed > 127, "sub8", x, y, c)
				expectFlag(t, f, FlagZ, uint8(diff) == 0, "sub8", x, y, c)
				expectFlag(t, f, FlagS, uint8(diff)&0x80 != 0, "sub8", x, y, c)
				expectFlag(t, f, FlagN, true, "sub8", x, y, c)
			}
		}
	}
}

func TestIncDecPreserveCarry(t *testing.T) {
	for _, carry := range []bool{false, true} {
		for v := 0; v < 256; v++ {
			var r Registers
			r.SetFlag(FlagC, carry)

			got := r.inc8(uint8(v))
			assert.Equal(t, uint8(v+1), got)
			assert.Equal(t, carry, r.Flag(FlagC))
			assert.Equal(t, v == 0x7F, r.Flag(FlagPV), "inc8(0x%02X) overflow", v)
			assert.Equal(t, v&0x0F == 0x0F, r.Flag(FlagH), "inc8(0x%02X) half-carry", v)

			r.SetFlag(FlagC, carry)
			got = r.dec8(uint8(v))
			assert.Equal(t, uint8(v-1), got)
			assert.Equal(t, carry, r.Flag(FlagC))
			assert.Equal(t, v == 0x80, r.Flag(FlagPV), "dec8(0x%02X) overflow", v)
			assert.Equal(t, v&0x0F == 0x00, r.Flag(FlagH), "dec8(0x%02X) half-carry", v)
			assert.True(t, r.Flag(FlagN))
		}
	}
}

func TestCompare(t *testing.T) {
	var r Registers

	r.cmp8(0x10, 0x10)
	assert.True(t, r.Flag(FlagZ))
	assert.False(t, r.Flag(FlagC))

	r.cmp8(0x10, 0x20)
	assert.False(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagN))
}

func TestNeg(t *testing.T) {
	var r Registers

	assert.Equal(t, uint8(0xFF), r.neg8(0x01))
	assert.True(t, r.Flag(FlagC))

	assert.Equal(t, uint8(0x00), r.neg8(0x00))
	assert.False(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagZ))

	assert.Equal(t, uint8(0x80), r.neg8(0x80))
	assert.True(t, r.Flag(FlagPV))
}

func TestLogic(t *testing.T) {
	var r Registers

	r.AF.Lo = FlagC | FlagN
	assert.Equal(t, uint8(0x00), r.and8(0xF0, 0x0F))
	assert.True(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagH))
	assert.True(t, r.Flag(FlagPV))
	assert.False(t, r.Flag(FlagC))
	assert.False(t, r.Flag(FlagN))

	assert.Equal(t, uint8(0x81), r.or8(0x80, 0x01))
	assert.True(t, r.Flag(FlagS))
	assert.True(t, r.Flag(FlagPV))
	assert.False(t, r.Flag(FlagH))

	assert.Equal(t, uint8(0x01), r.xor8(0xFF, 0xFE))
	assert.False(t, r.Flag(FlagPV))
}

func TestAdd16(t *testing.T) {
	var r Registers

	r.AF.Lo = FlagZ | FlagS | FlagPV
	assert.Equal(t, uint16(0x1000), r.add16(0x0FFF, 0x0001))
	assert.True(t, r.Flag(FlagH))
	assert.False(t, r.Flag(FlagC))

	// S, Z and P/V are untouched.
	assert.True(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagS))
	assert.True(t, r.Flag(FlagPV))

	assert.Equal(t, uint16(0x0000), r.add16(0xFFFF, 0x0001))
	assert.True(t, r.Flag(FlagC))
}

func TestAdcSbc16(t *testing.T) {
	var r Registers

	r.SetFlag(FlagC, true)
	assert.Equal(t, uint16(0x0000), r.adc16(0xFFFE, 0x0001))
	assert.True(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagC))

	r.SetFlag(FlagC, false)
	assert.Equal(t, uint16(0x8000), r.adc16(0x7FFF, 0x0001))
	assert.True(t, r.Flag(FlagPV))
	assert.True(t, r.Flag(FlagS))

	r.SetFlag(FlagC, true)
	assert.Equal(t, uint16(0x0000), r.sbc16(0x0002, 0x0001))
	assert.True(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagN))
	assert.False(t, r.Flag(FlagC))

	r.SetFlag(FlagC, false)
	assert.Equal(t, uint16(0xFFFF), r.sbc16(0x0000, 0x0001))
	assert.True(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagH))
	assert.False(t, r.Flag(FlagPV))

	r.SetFlag(FlagC, false)
	assert.Equal(t, uint16(0x7FFF), r.sbc16(0x8000, 0x0001))
	assert.True(t, r.Flag(FlagPV))
}

func TestShifts(t *testing.T) {
	var r Registers

	assert.Equal(t, uint8(0x03), r.rlc(0x81))
	assert.True(t, r.Flag(FlagC))

	assert.Equal(t, uint8(0xC0), r.rrc(0x81))
	assert.True(t, r.Flag(FlagC))

	r.SetFlag(FlagC, true)
	assert.Equal(t, uint8(0x01), r.rl(0x00))
	assert.False(t, r.Flag(FlagC))

	r.SetFlag(FlagC, true)
	assert.Equal(t, uint8(0x80), r.rr(0x00))
	assert.False(t, r.Flag(FlagC))

	assert.Equal(t, uint8(0x00), r.sla(0x80))
	assert.True(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagZ))

	assert.Equal(t, uint8(0xC0), r.sra(0x81))
	assert.True(t, r.Flag(FlagC))

	assert.Equal(t, uint8(0x03), r.sll(0x81))
	assert.True(t, r.Flag(FlagC))

	assert.Equal(t, uint8(0x40), r.srl(0x81))
	assert.True(t, r.Flag(FlagC))
	assert.False(t, r.Flag(FlagS))
}

func TestAccumulatorRotates(t *testing.T) {
	var r Registers

	r.AF.Hi = 0x80
	r.AF.Lo = FlagZ | FlagS
	r.rlca()
	assert.Equal(t, uint8(0x01), r.AF.Hi)
	assert.True(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagZ), "Z survives RLCA")
	assert.True(t, r.Flag(FlagS), "S survives RLCA")

	r.rrca()
	assert.Equal(t, uint8(0x80), r.AF.Hi)
	assert.True(t, r.Flag(FlagC))

	r.AF.Hi = 0x80
	r.SetFlag(FlagC, false)
	r.rla()
	assert.Equal(t, uint8(0x00), r.AF.Hi)
	assert.True(t, r.Flag(FlagC))

	r.rra()
	assert.Equal(t, uint8(0x80), r.AF.Hi)
	assert.False(t, r.Flag(FlagC))
}

// TestBitSetRes ensures BIT never alters its operand, and SET/RES
// never alter the flags.
func TestBitSetRes(t *testing.T) {
	for v := 0; v < 256; v++ {
		for n := uint8(0); n < 8; n++ {
			var r Registers
			r.AF.Lo = FlagC | FlagS | FlagPV | FlagN

			r.bit(n, uint8(v))
			assert.Equal(t, v&(1<<n) == 0, r.Flag(FlagZ))
			assert.True(t, r.Flag(FlagH))
			assert.False(t, r.Flag(FlagN))
			assert.True(t, r.Flag(FlagC), "carry preserved")
			assert.True(t, r.Flag(FlagS), "sign untouched")
			assert.True(t, r.Flag(FlagPV), "parity untouched")

			assert.Equal(t, uint8(v)|1<<n, setBit(n, uint8(v)))
			assert.Equal(t, uint8(v)&^(1<<n), resBit(n, uint8(v)))
		}
	}
}

func TestDAA(t *testing.T) {
	tests := []struct {
		a, b   uint8
		sub    bool
		result uint8
		carry  bool
	}{
		{0x15, 0x27, false, 0x42, false},
		{0x99, 0x01, false, 0x00, true},
		{0x50, 0x50, false, 0x00, true},
		{0x42, 0x15, true, 0x27, false},
		{0x10, 0x20, true, 0x90, true},
	}

	for _, tst := range tests {
		var r Registers
		if tst.sub {
			r.AF.Hi = r.sub8(tst.a, tst.b, 0)
		} else {
			r.AF.Hi = r.add8(tst.a, tst.b, 0)
		}
		r.daa()

		assert.Equal(t, tst.result, r.AF.Hi, "%02X %v %02X", tst.a, tst.sub, tst.b)
		assert.Equal(t, tst.carry, r.Flag(FlagC), "%02X %v %02X carry", tst.a, tst.sub, tst.b)
	}
}

func TestMiscAccumulator(t *testing.T) {
	var r Registers

	r.AF.Hi = 0x0F
	r.cpl()
	assert.Equal(t, uint8(0xF0), r.AF.Hi)
	assert.True(t, r.Flag(FlagH))
	assert.True(t, r.Flag(FlagN))

	r.scf()
	assert.True(t, r.Flag(FlagC))
	assert.False(t, r.Flag(FlagN))

	r.ccf()
	assert.False(t, r.Flag(FlagC))
	assert.True(t, r.Flag(FlagH), "H holds the old carry")

	r.ccf()
	assert.True(t, r.Flag(FlagC))
	assert.False(t, r.Flag(FlagH))
}

func TestDigitRotates(t *testing.T) {
	var r Registers

	r.AF.Hi = 0x12
	m := r.rld(0x34)
	assert.Equal(t, uint8(0x13), r.AF.Hi)
	assert.Equal(t, uint8(0x42), m)

	r.AF.Hi = 0x12
	m = r.rrd(0x34)
	assert.Equal(t, uint8(0x14), r.AF.Hi)
	assert.Equal(t, uint8(0x23), m)
}
