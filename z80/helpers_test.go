package z80

import (
	"testing"

	"github.com/skx/cpmz80/memory"
	"github.com/stretchr/testify/require"
)

// newRig returns a processor with the program loaded at 0x0100.
func newRig(t *testing.T, program ...uint8) (*CPU, *memory.Memory) {
	t.Helper()

	mem := new(memory.Memory)
	require.NoError(t, mem.LoadBytes(0x0100, program))

	cpu := New(mem)
	cpu.PC = 0x0100
	cpu.SP = 0xF000
	return cpu, mem
}

// steps executes n instructions, each of which must continue.
func steps(t *testing.T, cpu *CPU, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		pc := cpu.PC
		st := cpu.Step()
		require.Equal(t, Continue, st.Kind, "step %d at 0x%04X: %v", i, pc, st.Fault)
	}
}
