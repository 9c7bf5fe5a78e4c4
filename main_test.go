// Integration tests :)

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates a file in a temporary directory, returning its path.
func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %s", path, err)
	}
	return path
}

// runProgram runs the given program with scripted input, returning the
// exit code and everything written to STDOUT and STDERR.
func runProgram(t *testing.T, program []byte, input string, flags ...string) (int, string, string) {
	t.Helper()

	t.Setenv("INPUT_FILE", writeFile(t, "input.txt", []byte(input)))
	t.Setenv("DEBUG", "")

	args := append([]string{"-input", "file", "-output", "ansi"}, flags...)
	args = append(args, writeFile(t, "TEST.COM", program))

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// exit is "LD C,0 ; CALL 5".
var exit = []byte{0x0E, 0x00, 0xCD, 0x05, 0x00}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "cpmz80") {
		t.Fatalf("unexpected banner %q", stdout.String())
	}
}

func TestListDrivers(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-list-drivers"}, &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	for _, name := range []string{"ansi", "adm-3a", "file", "term"} {
		if !strings.Contains(stdout.String(), name) {
			t.Fatalf("driver %s isn't listed: %q", name, stdout.String())
		}
	}
	if strings.Contains(stdout.String(), "error") {
		t.Fatalf("the error driver should be hidden")
	}
}

func TestUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run(nil, &stdout, &stderr); code != 64 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Fatalf("usage wasn't shown")
	}

	if code := run([]string{"-not-a-flag"}, &stdout, &stderr); code != 64 {
		t.Fatalf("unexpected exit code %d for a bogus flag", code)
	}

	if code := run([]string{"-output", "steve", "foo.com"}, &stdout, &stderr); code != 64 {
		t.Fatalf("unexpected exit code %d for a bogus driver", code)
	}
}

func TestMissingBinary(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-input", "file", "/this/does/not/exist.com"}, &stdout, &stderr)
	if code != 3 {
		t.Fatalf("unexpected exit code %d", code)
	}
}

func TestDriverSetupFailure(t *testing.T) {
	t.Setenv("INPUT_FILE", filepath.Join(t.TempDir(), "missing.txt"))

	program := writeFile(t, "TEST.COM", exit)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-input", "file", program}, &stdout, &stderr); code != 4 {
		t.Fatalf("unexpected exit code %d", code)
	}
}

func TestHello(t *testing.T) {
	// LD C,9 ; LD DE,0x010C ; CALL 5 ; exit ; "Hello$"
	program := append([]byte{0x0E, 0x09, 0x11, 0x0D, 0x01, 0xCD, 0x05, 0x00}, exit...)
	program = append(program, []byte("Hello$")...)

	code, stdout, stderr := runProgram(t, program, "")
	if code != 0 {
		t.Fatalf("unexpected exit code %d: %s", code, stderr)
	}
	if stdout != "Hello" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestEcho(t *testing.T) {
	// LD C,1 ; CALL 5 ; exit
	program := append([]byte{0x0E, 0x01, 0xCD, 0x05, 0x00}, exit...)

	code, stdout, stderr := runProgram(t, program, "z")
	if code != 0 {
		t.Fatalf("unexpected exit code %d: %s", code, stderr)
	}
	if stdout != "z" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestInputExhausted(t *testing.T) {
	// LD C,1 ; CALL 5
	code, _, _ := runProgram(t, []byte{0x0E, 0x01, 0xCD, 0x05, 0x00}, "")
	if code != 3 {
		t.Fatalf("unexpected exit code %d", code)
	}
}

// TestUnknownOpcode runs into HALT, which isn't implemented.
func TestUnknownOpcode(t *testing.T) {
	code, _, stderr := runProgram(t, []byte{0x76}, "")
	if code != 1 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stderr, "0x76") || !strings.Contains(stderr, "0x0100") {
		t.Fatalf("diagnostic doesn't name the opcode and address: %s", stderr)
	}
}

func TestUnknownPrefixedOpcode(t *testing.T) {
	// ED 00 isn't an instruction.
	code, _, stderr := runProgram(t, []byte{0xED, 0x00}, "")
	if code != 1 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stderr, "0xED 0x00") {
		t.Fatalf("diagnostic doesn't name the opcode: %s", stderr)
	}
}

func TestUnsupportedFunction(t *testing.T) {
	// LD C,0x63 ; CALL 5
	code, _, stderr := runProgram(t, []byte{0x0E, 0x63, 0xCD, 0x05, 0x00}, "")
	if code != 2 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if !strings.Contains(stderr, "BDOS function 99") {
		t.Fatalf("diagnostic doesn't name the function: %s", stderr)
	}
}

func TestGuard(t *testing.T) {
	// Overwrite the NOP at 0x0107, then run it.
	program := append([]byte{0x3E, 0x00, 0x32, 0x07, 0x01, 0x00, 0x00, 0x00}, exit...)

	code, _, stderr := runProgram(t, program, "")
	if code != 0 {
		t.Fatalf("unexpected exit code %d without the guard: %s", code, stderr)
	}

	code, _, _ = runProgram(t, program, "", "-guard")
	if code != 44 {
		t.Fatalf("unexpected exit code %d with the guard", code)
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	program := append([]byte{0x0E, 0x02, 0x1E, 0x41, 0xCD, 0x05, 0x00}, exit...)

	code, stdout, _ := runProgram(t, program, "", "-log", path)
	if code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	if stdout != "A" {
		t.Fatalf("unexpected output %q", stdout)
	}

	log, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %s", err)
	}
	if !strings.Contains(string(log), "C_WRITE") || !strings.Contains(string(log), "P_TERMCPM") {
		t.Fatalf("syscalls weren't logged: %s", log)
	}
}
