package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPair(t *testing.T) {
	var r Register

	r.SetU16(0x1234)
	assert.Equal(t, uint8(0x12), r.Hi)
	assert.Equal(t, uint8(0x34), r.Lo)
	assert.Equal(t, uint16(0x1234), r.U16())

	r.Lo = 0xFF
	assert.Equal(t, uint16(0x12FF), r.U16())
}

func TestFlags(t *testing.T) {
	var r Registers

	r.SetFlag(FlagZ, true)
	r.SetFlag(FlagC, true)
	assert.Equal(t, FlagZ|FlagC, r.AF.Lo)
	assert.True(t, r.Flag(FlagZ))
	assert.False(t, r.Flag(FlagS))

	r.SetFlag(FlagZ, false)
	assert.Equal(t, FlagC, r.AF.Lo)
	assert.Equal(t, uint8(1), r.carry())
}

func TestShadowBank(t *testing.T) {
	var r Registers

	r.AF.SetU16(0x1111)
	r.BC.SetU16(0x2222)
	r.DE.SetU16(0x3333)
	r.HL.SetU16(0x4444)
	r.AltAF.SetU16(0xAAAA)
	r.AltHL.SetU16(0xBBBB)

	r.ExAF()
	assert.Equal(t, uint16(0xAAAA), r.AF.U16())
	assert.Equal(t, uint16(0x1111), r.AltAF.U16())

	r.Exx()
	assert.Equal(t, uint16(0xBBBB), r.HL.U16())
	assert.Equal(t, uint16(0x0000), r.BC.U16())
	assert.Equal(t, uint16(0x2222), r.AltBC.U16())
	assert.Equal(t, uint16(0x3333), r.AltDE.U16())
	assert.Equal(t, uint16(0x4444), r.AltHL.U16())

	// Swapping twice restores everything.
	r.Exx()
	r.ExAF()
	assert.Equal(t, uint16(0x1111), r.AF.U16())
	assert.Equal(t, uint16(0x4444), r.HL.U16())
}

func TestRegistersString(t *testing.T) {
	r := Registers{PC: 0x0100, SP: 0xFFFE}
	r.HL.SetU16(0xBEEF)

	assert.Contains(t, r.String(), "HL=BEEF")
	assert.Contains(t, r.String(), "PC=0100")
	assert.Contains(t, r.String(), "SP=FFFE")
}
