// This file implements the BIOS function-calls.
//
// These are documented online:
//
// * https://www.seasip.info/Cpm/bios.html

package cpm

// biosNames are the names of the entries in the BIOS jump table, used
// when reporting a call we don't implement.
var biosNames = [BIOSEntries]string{
	"BOOT", "WBOOT", "CONST", "CONIN", "CONOUT", "LIST", "PUNCH", "READER",
	"HOME", "SELDSK", "SETTRK", "SETSEC", "SETDMA", "READ", "WRITE", "LISTST",
	"SECTRAN", "CONOST", "AUXIST", "AUXOST", "DEVTBL", "DEVINI", "DRVTBL",
	"MULTIO", "FLUSH", "MOVE", "TIME", "SELMEM", "SETBNK", "XMOVE", "USERF",
	"RESERV1", "RESERV2",
}

// biosSyscalls returns the table of BIOS functions we implement, keyed
// by their slot in the jump table.
func biosSyscalls() map[uint8]Handler {
	return map[uint8]Handler{
		4: {Desc: "CONOUT", Handler: BiosSysCallConsoleOutput},
	}
}

// BiosSysCallConsoleOutput writes the character in C to the console.
func BiosSysCallConsoleOutput(cpm *CPM) error {
	cpm.output.PutCharacter(cpm.CPU.BC.Lo)
	return nil
}
