// Package cpm is the main package for our emulator, it wires a Z80
// processor to 64K of memory and emulates the CP/M BDOS and BIOS.
//
// Calls into the operating system are caught by planting RET
// instructions at the BDOS entry-point and behind each slot of a fake
// BIOS jump table, and asking the processor to report whenever one of
// them is executed.  The handler for the call then runs, and execution
// resumes at the caller's return address.
package cpm

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skx/cpmz80/consolein"
	"github.com/skx/cpmz80/consoleout"
	"github.com/skx/cpmz80/fcb"
	"github.com/skx/cpmz80/memory"
	"github.com/skx/cpmz80/z80"
)

var (
	// ErrExit will be used to handle a CP/M binary calling Exit.
	//
	// It should be handled and expected by callers.
	ErrExit = errors.New("EXIT")

	// ErrUnimplemented is wrapped by the fault raised when a binary
	// calls a BDOS or BIOS function we don't provide.
	ErrUnimplemented = errors.New("UNIMPLEMENTED")
)

const (
	// DefaultDMAAddress is the default address of the DMA area.
	DefaultDMAAddress = 0x0080

	// TPAStart is where binaries are loaded, and launched from.
	TPAStart uint16 = 0x0100

	// BDOSAddress holds the RET which catches BDOS calls.
	BDOSAddress uint16 = 0xFD00

	// BIOSAddress is the start of the BIOS jump table.
	BIOSAddress uint16 = 0xFE00

	// BIOSEntries is the number of slots in the BIOS jump table.
	BIOSEntries = 33

	// biosStubs is where the RET behind each BIOS slot lives, one
	// byte per slot.
	biosStubs = BIOSAddress + BIOSEntries*3

	// fcb1Address and fcb2Address are the default FCBs.
	fcb1Address uint16 = 0x005C
	fcb2Address uint16 = 0x006C

	// tailAddress holds the command-line tail.
	tailAddress uint16 = 0x0080

	// maxTail is the room for text between 0x0082 and the TPA.
	maxTail = int(TPAStart-tailAddress) - 2
)

// HandlerType contains the signature of a function which implements
// a BDOS or BIOS call.
type HandlerType func(cpm *CPM) error

// Handler contains details of a specific call we implement.
//
// While we mostly need a "number to handler", mapping having a name
// is useful for the logs we produce.
type Handler struct {
	// Desc contain the human-readable description of the given CP/M syscall.
	Desc string

	// Handler contains the function which should be involved for this syscall.
	Handler HandlerType
}

// Clock is the source of the time reported to guests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the host time.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// CPM is the object that holds our emulator state
type CPM struct {

	// Memory contains the memory the system runs with.
	Memory *memory.Memory

	// CPU is the processor which executes the guest.
	CPU *z80.CPU

	// BDOSSyscalls contains the BDOS functions we emulate, indexed
	// by their number.
	BDOSSyscalls map[uint8]Handler

	// BIOSSyscalls contains the BIOS functions we emulate, indexed
	// by their slot in the jump table.
	BIOSSyscalls map[uint8]Handler

	// Logger is where we send diagnostics.
	Logger *slog.Logger

	// input is our console input driver.
	input *consolein.ConsoleIn

	// output is our console output driver.
	output *consoleout.ConsoleOut

	// clock provides the time of day.
	clock Clock

	// guard enables the self-modification guard on load.
	guard bool

	// dma contains the offset of the DMA area.
	dma uint16

	// currentDrive contains the currently selected drive, 0 for A:.
	currentDrive uint8

	// userNumber contains the current user number, 0-15.
	userNumber uint8
}

// Option is used to configure a CPM object.
type Option func(c *CPM) error

// WithInputDriver selects the console input driver, by name.
func WithInputDriver(name string) Option {
	return func(c *CPM) error {
		driver, err := consolein.New(name)
		if err != nil {
			return err
		}
		c.input = driver
		return nil
	}
}

// WithOutputDriver selects the console output driver, by name.
func WithOutputDriver(name string) Option {
	return func(c *CPM) error {
		driver, err := consoleout.New(name)
		if err != nil {
			return err
		}
		c.output = driver
		return nil
	}
}

// WithClock replaces the source of the time of day.
func WithClock(clock Clock) Option {
	return func(c *CPM) error {
		c.clock = clock
		return nil
	}
}

// WithGuard enables, or disables, the self-modification guard.
func WithGuard(enabled bool) Option {
	return func(c *CPM) error {
		c.guard = enabled
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CPM) error {
		c.Logger = logger
		return nil
	}
}

// New returns a new emulation object, configured by the given options.
func New(options ...Option) (*CPM, error) {

	mem := new(memory.Memory)

	tmp := &CPM{
		Memory:       mem,
		CPU:          z80.New(mem),
		BDOSSyscalls: bdosSyscalls(),
		BIOSSyscalls: biosSyscalls(),
		Logger:       slog.Default(),
		clock:        SystemClock{},
		dma:          DefaultDMAAddress,
	}

	for _, opt := range options {
		if err := opt(tmp); err != nil {
			return nil, err
		}
	}

	var err error
	if tmp.input == nil {
		tmp.input, err = consolein.New("term")
		if err != nil {
			return nil, err
		}
	}
	if tmp.output == nil {
		tmp.output, err = consoleout.New("ansi")
		if err != nil {
			return nil, err
		}
	}

	tmp.CPU.SetTrapRegion(BDOSAddress, biosStubs+BIOSEntries-1)
	return tmp, nil
}

// GetInputDriver returns the console input wrapper.
func (cpm *CPM) GetInputDriver() *consolein.ConsoleIn {
	return cpm.input
}

// GetOutputDriver returns the console output driver.
func (cpm *CPM) GetOutputDriver() consoleout.ConsoleOutput {
	return cpm.output.GetDriver()
}

// IOSetup prepares the console input driver.
func (cpm *CPM) IOSetup() error {
	return cpm.input.Setup()
}

// IOTearDown restores the console.
func (cpm *CPM) IOTearDown() error {
	return cpm.input.TearDown()
}

// StuffText queues text to be returned as console input.
func (cpm *CPM) StuffText(text string) {
	cpm.input.StuffInput(text)
}

// LoadBinary loads the given CP/M binary at the default address of 0x0100,
// where it can then be launched by Execute.
func (cpm *CPM) LoadBinary(filename string) error {
	if err := cpm.Memory.LoadFile(TPAStart, filename); err != nil {
		return err
	}
	cpm.fixupRAM()
	return nil
}

// LoadBytes is LoadBinary for a program already in memory.
func (cpm *CPM) LoadBytes(program []uint8) error {
	if err := cpm.Memory.LoadBytes(TPAStart, program); err != nil {
		return err
	}
	cpm.fixupRAM()
	return nil
}

// fixupRAM writes the page-zero vectors, the BDOS stub and the BIOS
// jump table.  Set is used throughout, so none of this is seen by the
// guard.
func (cpm *CPM) fixupRAM() {
	mem := cpm.Memory

	mem.EnableGuard(cpm.guard)

	// JP WBOOT
	mem.Set(0x0000, 0xC3)
	mem.SetU16(0x0001, BIOSAddress+3)

	mem.Set(0x0003, 0x00) // IOBYTE
	mem.Set(0x0004, cpm.userNumber<<4|cpm.currentDrive)

	// JP BDOS
	mem.Set(0x0005, 0xC3)
	mem.SetU16(0x0006, BDOSAddress)
	mem.Set(BDOSAddress, 0xC9)

	for i := uint16(0); i < BIOSEntries; i++ {
		entry := BIOSAddress + i*3
		stub := biosStubs + i

		mem.Set(entry, 0xC3)
		mem.SetU16(entry+1, stub)
		mem.Set(stub, 0xC9)
	}
}

// SetArguments populates the default FCBs and the command tail from
// the given arguments.
func (cpm *CPM) SetArguments(args []string) {
	mem := cpm.Memory

	for _, addr := range []uint16{fcb1Address, fcb2Address} {
		mem.Set(addr, 0x00)
		mem.FillRange(addr+1, 11, ' ')
		mem.FillRange(addr+12, fcb.DefaultSize-12, 0x00)
	}
	if len(args) > 0 {
		x := fcb.FromString(args[0])
		mem.SetRange(fcb1Address, x.AsBytes()[:fcb.DefaultSize]...)
	}
	if len(args) > 1 {
		x := fcb.FromString(args[1])
		mem.SetRange(fcb2Address, x.AsBytes()[:fcb.DefaultSize]...)
	}

	// The tail is the length of the text, a space, then the text as
	// given, which must end before the program at 0x0100.
	mem.FillRange(tailAddress, 128, 0x00)

	cli := strings.Join(args, " ")
	if cli == "" {
		return
	}
	if len(cli) > maxTail {
		cli = cli[:maxTail]
	}
	mem.Set(tailAddress, uint8(len(cli)))
	mem.Set(tailAddress+1, ' ')
	mem.SetRange(tailAddress+2, []uint8(cli)...)
}

// Execute runs the loaded binary, with the given arguments, until it
// terminates.
//
// A nil return means the program exited cleanly; anything else is
// fatal, and will usually be a *z80.Fault.
func (cpm *CPM) Execute(args []string) error {

	cpm.SetArguments(args)

	cpm.CPU.Reset()
	cpm.CPU.PC = TPAStart

	// The stack sits below the BDOS, holding a return address of zero
	// so a final RET reaches the warm boot vector.
	cpm.CPU.SP = BDOSAddress - 2
	cpm.Memory.SetU16(cpm.CPU.SP, 0x0000)

	cpm.Logger.Debug("executing",
		slog.String("args", strings.Join(args, " ")),
		slog.Bool("guard", cpm.Memory.GuardEnabled()))

	for {
		st := cpm.CPU.Step()

		switch st.Kind {
		case z80.Continue:
			continue

		case z80.Fatal:
			cpm.Logger.Error("fatal error",
				slog.String("kind", st.Fault.Kind.String()),
				slog.String("pc", fmt.Sprintf("0x%04X", st.Fault.PC)),
				slog.String("error", st.Fault.Error()))
			return st.Fault

		case z80.Trap:
			err := cpm.trap(st.Trap)
			if errors.Is(err, ErrExit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// trap dispatches a call to the BDOS or BIOS, given the address of the
// RET which caught it.
func (cpm *CPM) trap(addr uint16) error {
	if addr == BDOSAddress {
		return cpm.bdos()
	}
	if addr >= biosStubs && addr < biosStubs+BIOSEntries {
		return cpm.bios(uint8(addr - biosStubs))
	}
	return cpm.fault(z80.UnsupportedOSFunction, fmt.Sprintf("return through 0x%04X", addr), ErrUnimplemented)
}

// bdos invokes the handler for the function in C.
func (cpm *CPM) bdos() error {
	syscall := cpm.CPU.BC.Lo

	handler, exists := cpm.BDOSSyscalls[syscall]
	if !exists {
		cpm.Logger.Error("Unimplemented BDOS Syscall",
			slog.Int("syscall", int(syscall)),
			slog.String("syscallHex", fmt.Sprintf("0x%02X", syscall)),
			slog.String("de", fmt.Sprintf("0x%04X", cpm.CPU.DE.U16())))

		return cpm.fault(z80.UnsupportedOSFunction,
			fmt.Sprintf("BDOS function %d (0x%02X), DE=0x%04X", syscall, syscall, cpm.CPU.DE.U16()),
			ErrUnimplemented)
	}

	cpm.Logger.Debug("BDOS",
		slog.String("name", handler.Desc),
		slog.Int("syscall", int(syscall)),
		slog.String("syscallHex", fmt.Sprintf("0x%02X", syscall)))

	return cpm.invoke(handler)
}

// bios invokes the handler for the given jump table slot.
func (cpm *CPM) bios(slot uint8) error {

	handler, exists := cpm.BIOSSyscalls[slot]
	if !exists {
		cpm.Logger.Error("Unimplemented BIOS Syscall",
			slog.Int("syscall", int(slot)),
			slog.String("name", biosNames[slot]))

		return cpm.fault(z80.UnsupportedOSFunction,
			fmt.Sprintf("BIOS function %d (%s)", slot, biosNames[slot]),
			ErrUnimplemented)
	}

	cpm.Logger.Debug("BIOS",
		slog.String("name", handler.Desc),
		slog.Int("syscall", int(slot)))

	return cpm.invoke(handler)
}

// invoke runs a handler, converting console failures into faults.
func (cpm *CPM) invoke(handler Handler) error {
	err := handler.Handler(cpm)
	if err == nil || errors.Is(err, ErrExit) {
		return err
	}

	var fault *z80.Fault
	if errors.As(err, &fault) {
		return err
	}
	return cpm.fault(z80.HostIOFailure, handler.Desc, err)
}

// fault builds a fault describing the current processor state.
func (cpm *CPM) fault(kind z80.Kind, detail string, err error) *z80.Fault {
	return &z80.Fault{
		Kind:      kind,
		PC:        cpm.CPU.PC,
		History:   cpm.CPU.History(),
		Registers: cpm.CPU.Registers,
		Detail:    detail,
		Err:       err,
	}
}

// setResult stores a function's return value in HL, mirroring it into
// A and B.
func (cpm *CPM) setResult(v uint16) {
	cpm.CPU.HL.SetU16(v)
	cpm.CPU.AF.Hi = uint8(v)
	cpm.CPU.BC.Hi = uint8(v >> 8)
}
