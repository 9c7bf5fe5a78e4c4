// Package fcb contains helpers for working with the CP/M file control
// block structure.
//
// The emulator does not implement file I/O, but programs still expect
// the default FCBs at 0x005C and 0x006C to describe their first two
// command-line arguments, which is what this package is used for.
package fcb

import (
	"strings"
)

// Size is the length of a complete FCB, random-record bytes included.
const Size = 36

// DefaultSize is the number of bytes the CCP fills in for each of the
// two default FCBs.
const DefaultSize = 16

// FCB is the CP/M file control block.
type FCB struct {
	// Drive holds the drive, 0 for the default drive, 1 for A:, etc.
	Drive uint8

	// Name holds the name of the file.
	Name [8]uint8

	// Type holds the suffix.
	Type [3]uint8

	Ex uint8
	S1 uint8
	S2 uint8
	RC uint8
	Al [16]uint8
	Cr uint8 // current record
	R0 uint8 // random record
	R1 uint8
	R2 uint8
}

// GetName returns the name component of an FCB entry.
func (f *FCB) GetName() string {
	return trimField(f.Name[:])
}

// GetType returns the type/extension component of an FCB entry.
func (f *FCB) GetType() string {
	return trimField(f.Type[:])
}

func trimField(field []uint8) string {
	var sb strings.Builder
	for _, c := range field {
		if c != 0x00 {
			sb.WriteByte(c)
		}
	}
	return strings.TrimSpace(sb.String())
}

// AsBytes returns the entry of the FCB in a format suitable
// for copying to RAM.
func (f *FCB) AsBytes() []uint8 {

	r := make([]uint8, 0, Size)

	r = append(r, f.Drive)
	r = append(r, f.Name[:]...)
	r = append(r, f.Type[:]...)
	r = append(r, f.Ex, f.S1, f.S2, f.RC)
	r = append(r, f.Al[:]...)
	r = append(r, f.Cr, f.R0, f.R1, f.R2)

	return r
}

// fill pads the value with spaces into the field, expanding a "*" into
// "?" for the rest of the field and truncating anything too long.
func fill(field []uint8, value string) {
	for i := range field {
		field[i] = ' '
	}
	for i := 0; i < len(field) && i < len(value); i++ {
		if value[i] == '*' {
			for j := i; j < len(field); j++ {
				field[j] = '?'
			}
			return
		}
		field[i] = value[i]
	}
}

// FromString returns an FCB entry from the given string, which may have
// a drive prefix ("B:FOO.TXT").
//
// This is used for processing command-line arguments.
func FromString(str string) FCB {

	tmp := FCB{}

	// Filenames are always upper-case
	str = strings.ToUpper(str)

	if len(str) >= 2 && str[1] == ':' && str[0] >= 'A' && str[0] <= 'P' {
		tmp.Drive = str[0] - 'A' + 1
		str = str[2:]
	}

	name, ext, _ := strings.Cut(str, ".")
	fill(tmp.Name[:], name)
	fill(tmp.Type[:], ext)

	return tmp
}

// FromBytes returns an FCB entry from the given bytes, which must be
// at least Size long.
func FromBytes(bytes []uint8) FCB {
	tmp := FCB{}

	tmp.Drive = bytes[0]
	copy(tmp.Name[:], bytes[1:])
	copy(tmp.Type[:], bytes[9:])
	tmp.Ex = bytes[12]
	tmp.S1 = bytes[13]
	tmp.S2 = bytes[14]
	tmp.RC = bytes[15]
	copy(tmp.Al[:], bytes[16:])
	tmp.Cr = bytes[32]
	tmp.R0 = bytes[33]
	tmp.R1 = bytes[34]
	tmp.R2 = bytes[35]

	return tmp
}
