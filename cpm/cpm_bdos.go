// This file implements the BDOS function-calls.
//
// These are documented online:
//
// * https://www.seasip.info/Cpm/bdos.html

package cpm

import (
	"errors"
	"fmt"
	"time"

	"github.com/skx/cpmz80/consolein"
)

// bdosSyscalls returns the table of BDOS functions we implement.
func bdosSyscalls() map[uint8]Handler {
	return map[uint8]Handler{
		0:   {Desc: "P_TERMCPM", Handler: BdosSysCallExit},
		1:   {Desc: "C_READ", Handler: BdosSysCallReadChar},
		2:   {Desc: "C_WRITE", Handler: BdosSysCallWriteChar},
		6:   {Desc: "C_RAWIO", Handler: BdosSysCallRawIO},
		7:   {Desc: "GET_IOBYTE", Handler: BdosSysCallGetIOByte},
		8:   {Desc: "SET_IOBYTE", Handler: BdosSysCallSetIOByte},
		9:   {Desc: "C_WRITESTRING", Handler: BdosSysCallWriteString},
		10:  {Desc: "C_READSTRING", Handler: BdosSysCallReadString},
		11:  {Desc: "C_STAT", Handler: BdosSysCallConsoleStatus},
		12:  {Desc: "S_BDOSVER", Handler: BdosSysCallBDOSVersion},
		13:  {Desc: "DRV_ALLRESET", Handler: BdosSysCallDriveAllReset},
		14:  {Desc: "DRV_SET", Handler: BdosSysCallDriveSet},
		15:  {Desc: "F_OPEN", Handler: BdosSysCallNotFound},
		17:  {Desc: "F_SFIRST", Handler: BdosSysCallNotFound},
		18:  {Desc: "F_SNEXT", Handler: BdosSysCallNotFound},
		25:  {Desc: "DRV_GET", Handler: BdosSysCallDriveGet},
		26:  {Desc: "F_DMAOFF", Handler: BdosSysCallSetDMA},
		32:  {Desc: "F_USERNUM", Handler: BdosSysCallUserNumber},
		105: {Desc: "T_GET", Handler: BdosSysCallTime},
	}
}

// swapNewline exchanges LF and CR, leaving other bytes alone.
//
// Hosts terminate lines with LF, while CP/M programs expect CR.
func swapNewline(c uint8) uint8 {
	switch c {
	case '\n':
		return '\r'
	case '\r':
		return '\n'
	}
	return c
}

// BdosSysCallExit implements the Exit syscall
func BdosSysCallExit(cpm *CPM) error {
	return ErrExit
}

// BdosSysCallReadChar reads a single character from the console, and
// echoes it.
func BdosSysCallReadChar(cpm *CPM) error {

	c, err := cpm.input.BlockForCharacterNoEcho()
	if err != nil {
		return fmt.Errorf("error in call to BlockForCharacterNoEcho: %w", err)
	}
	if c == '\n' {
		c = '\r'
	}

	cpm.output.PutCharacter(c)
	cpm.setResult(uint16(c))
	return nil
}

// BdosSysCallWriteChar writes the single character in the E register to STDOUT.
func BdosSysCallWriteChar(cpm *CPM) error {
	cpm.output.PutCharacter(cpm.CPU.DE.Lo)
	return nil
}

// BdosSysCallRawIO handles direct console I/O, selected by the value in E.
func BdosSysCallRawIO(cpm *CPM) error {

	switch cpm.CPU.DE.Lo {
	case 0xFF:
		// Return a character if one is waiting, zero if not.
		cpm.setResult(0)
		if cpm.input.PendingInput() {
			out, err := cpm.input.BlockForCharacterNoEcho()
			if err != nil {
				return err
			}
			cpm.setResult(uint16(swapNewline(out)))
		}
	case 0xFE:
		// Console status.
		cpm.setResult(0)
		if cpm.input.PendingInput() {
			cpm.setResult(0xFF)
		}
	case 0xFD:
		// Wait until a character is ready, return it without echoing.
		out, err := cpm.input.BlockForCharacterNoEcho()
		if err != nil {
			return err
		}
		cpm.setResult(uint16(swapNewline(out)))
	default:
		cpm.output.PutCharacter(swapNewline(cpm.CPU.DE.Lo))
		cpm.setResult(0)
	}
	return nil
}

// BdosSysCallGetIOByte returns the IOBYTE, which lives at 0x0003.
func BdosSysCallGetIOByte(cpm *CPM) error {
	cpm.setResult(uint16(cpm.Memory.Get(0x0003)))
	return nil
}

// BdosSysCallSetIOByte updates the IOBYTE with the value in E.
func BdosSysCallSetIOByte(cpm *CPM) error {
	cpm.Memory.Set(0x0003, cpm.CPU.DE.Lo)
	return nil
}

// BdosSysCallWriteString writes the $-terminated string pointed to by DE.
func BdosSysCallWriteString(cpm *CPM) error {
	addr := cpm.CPU.DE.U16()

	// A missing terminator stops after one pass over memory.
	for i := 0; i < 0x10000; i++ {
		c := cpm.Memory.Get(addr)
		if c == '$' {
			break
		}
		cpm.output.PutCharacter(c)
		addr++
	}
	return nil
}

// BdosSysCallReadString reads a line of input into the buffer at DE.
//
// The first byte of the buffer is its size, the second receives the
// number of characters read, which follow.
func BdosSysCallReadString(cpm *CPM) error {

	addr := cpm.CPU.DE.U16()

	// If DE is 0x0000 then the DMA area is used instead.
	if addr == 0 {
		addr = cpm.dma
	}

	size := cpm.Memory.Get(addr)

	text, err := cpm.input.ReadLine(size, cpm.output.PutCharacter)
	if err != nil {
		if errors.Is(err, consolein.ErrInterrupted) {
			return ErrExit
		}
		return err
	}

	cpm.Memory.Set(addr+1, uint8(len(text)))
	cpm.Memory.SetRange(addr+2, []uint8(text)...)

	cpm.output.PutCharacter('\r')
	cpm.setResult(0)
	return nil
}

// BdosSysCallConsoleStatus tests if we have pending console (character) input.
func BdosSysCallConsoleStatus(cpm *CPM) error {
	cpm.setResult(0)
	if cpm.input.PendingInput() {
		cpm.setResult(0xFF)
	}
	return nil
}

// BdosSysCallBDOSVersion returns version details.
//
// We claim to be CP/M 2.2.
func BdosSysCallBDOSVersion(cpm *CPM) error {
	cpm.setResult(0x0022)
	return nil
}

// BdosSysCallDriveAllReset resets the drives, selecting A: and the
// default DMA area.
func BdosSysCallDriveAllReset(cpm *CPM) error {
	cpm.currentDrive = 0
	cpm.dma = DefaultDMAAddress
	cpm.Memory.Set(0x0004, cpm.userNumber<<4|cpm.currentDrive)

	cpm.setResult(0)
	return nil
}

// BdosSysCallDriveSet selects the drive in E, 0 for A:.
func BdosSysCallDriveSet(cpm *CPM) error {
	cpm.currentDrive = cpm.CPU.DE.Lo & 0x0F
	cpm.Memory.Set(0x0004, cpm.userNumber<<4|cpm.currentDrive)

	cpm.setResult(0)
	return nil
}

// BdosSysCallNotFound is used for the file functions.  There is no
// filesystem, so nothing is ever found.
func BdosSysCallNotFound(cpm *CPM) error {
	cpm.setResult(0x00FF)
	return nil
}

// BdosSysCallDriveGet returns the number of the active drive.
func BdosSysCallDriveGet(cpm *CPM) error {
	cpm.setResult(uint16(cpm.currentDrive))
	return nil
}

// BdosSysCallSetDMA updates the address of the DMA area, which is used
// for block I/O.
func BdosSysCallSetDMA(cpm *CPM) error {
	cpm.dma = cpm.CPU.DE.U16()
	cpm.setResult(0)
	return nil
}

// BdosSysCallUserNumber gets, or sets, the user number.
//
// E=0xFF queries, anything else sets.
func BdosSysCallUserNumber(cpm *CPM) error {
	if cpm.CPU.DE.Lo == 0xFF {
		cpm.setResult(uint16(cpm.userNumber))
		return nil
	}

	cpm.userNumber = cpm.CPU.DE.Lo & 0x0F
	cpm.Memory.Set(0x0004, cpm.userNumber<<4|cpm.currentDrive)
	cpm.setResult(0)
	return nil
}

// epoch is day one of the CP/M calendar.
var epoch = time.Date(1978, time.January, 1, 0, 0, 0, 0, time.UTC)

// bcd encodes a value below 100 as two decimal digits.
func bcd(v int) uint8 {
	return uint8(v/10<<4 | v%10)
}

// BdosSysCallTime writes the date and time to the four bytes at DE,
// returning the seconds.
//
// The date is a little-endian count of days, 1978-01-01 being day 1,
// followed by the hour and minute in BCD.
func BdosSysCallTime(cpm *CPM) error {
	now := cpm.clock.Now()

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := uint16(day.Sub(epoch).Hours()/24) + 1

	addr := cpm.CPU.DE.U16()
	cpm.Memory.SetU16(addr, days)
	cpm.Memory.Set(addr+2, bcd(now.Hour()))
	cpm.Memory.Set(addr+3, bcd(now.Minute()))

	cpm.setResult(uint16(bcd(now.Second())))
	return nil
}
