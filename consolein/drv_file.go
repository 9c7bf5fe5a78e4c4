// drv_file creates a console input-driver which returns the contents
// of a file as console input.
//
// The intent is that this driver will be useful for scripted
// automation, and for tests.

package consolein

import (
	"io"
	"os"
)

// FileInput is an input-driver that returns fake "console input"
// by reading the content of the file named by $INPUT_FILE, or
// "input.txt" when that is unset.
type FileInput struct {

	// offset shows the offset into the buffer we're at
	offset int

	// content contains the content of the input file
	content []byte
}

// Setup reads the contents of the input file, and saves it away as
// a source of fake console input.
func (fi *FileInput) Setup() error {

	fileName := os.Getenv("INPUT_FILE")
	if fileName == "" {
		fileName = "input.txt"
	}

	dat, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	fi.offset = 0
	fi.content = dat
	return nil
}

// TearDown is a NOP.
func (fi *FileInput) TearDown() error {
	return nil
}

// PendingInput returns true unless we've exhausted the contents of
// our input-file.
func (fi *FileInput) PendingInput() bool {
	return fi.offset < len(fi.content)
}

// BlockForCharacterNoEcho returns the next character from the file,
// or io.EOF once the file is exhausted.
func (fi *FileInput) BlockForCharacterNoEcho() (byte, error) {
	if fi.offset < len(fi.content) {
		x := fi.content[fi.offset]
		fi.offset++
		return x, nil
	}

	// Input is over.
	return 0x00, io.EOF
}

// GetName is part of the module API, and returns the name of this driver.
func (fi *FileInput) GetName() string {
	return "file"
}

// init registers our driver, by name.
func init() {
	Register("file", func() ConsoleInput {
		return new(FileInput)
	})
}
