// entry point

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/skx/cpmz80/consolein"
	"github.com/skx/cpmz80/consoleout"
	"github.com/skx/cpmz80/cpm"
	"github.com/skx/cpmz80/version"
	"github.com/skx/cpmz80/z80"
)

// Exit codes for failures which happen outside the guest.
const (
	exitDriverSetup = 4
	exitUsage       = 64
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole program, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {

	defInput := "term"
	if env := os.Getenv("INPUT_DRIVER"); env != "" {
		defInput = env
	}

	fs := flag.NewFlagSet("cpmz80", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cpmz80 [flags] path/to/file.com [args]\n\n")
		fs.PrintDefaults()
	}

	input := fs.String("input", defInput, "The name of the console input driver to use.")
	output := fs.String("output", "ansi", "The name of the console output driver to use.")
	guard := fs.Bool("guard", false, "Abort if the program executes code it has modified.")
	logPath := fs.String("log", "", "Write the debug log to the given file, rather than STDERR.")
	showVersion := fs.Bool("version", false, "Report our version, and exit.")
	listDrivers := fs.Bool("list-drivers", false, "List the available console drivers, and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprint(stdout, version.GetVersionBanner())
		return 0
	}

	if *listDrivers {
		in, _ := consolein.New("file")
		out, _ := consoleout.New("null")

		fmt.Fprintf(stdout, "Input drivers:\n")
		for _, name := range in.GetDrivers() {
			fmt.Fprintf(stdout, "\t%s\n", name)
		}
		fmt.Fprintf(stdout, "Output drivers:\n")
		for _, name := range out.GetDrivers() {
			fmt.Fprintf(stdout, "\t%s\n", name)
		}
		return 0
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}

	// Setup our logging level - default to warnings or higher
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)

	// But show "everything" if $DEBUG is non-empty
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}

	logWriter := stderr
	if *logPath != "" {
		file, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "failed to open log file %s: %s\n", *logPath, err)
			return exitUsage
		}
		defer file.Close()

		logWriter = file
		lvl.Set(slog.LevelDebug)
	}

	log := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: lvl,
	}))

	obj, err := cpm.New(
		cpm.WithInputDriver(*input),
		cpm.WithOutputDriver(*output),
		cpm.WithGuard(*guard),
		cpm.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "error creating emulator: %s\n", err)
		return exitUsage
	}
	obj.GetOutputDriver().SetWriter(stdout)

	program := fs.Arg(0)
	if err = obj.LoadBinary(program); err != nil {
		fmt.Fprintf(stderr, "error loading %s: %s\n", program, err)
		return z80.HostIOFailure.ExitCode()
	}

	if err = obj.IOSetup(); err != nil {
		fmt.Fprintf(stderr, "error setting up the console driver %s: %s\n", *input, err)
		return exitDriverSetup
	}

	err = obj.Execute(fs.Args()[1:])

	// Restore the terminal before reporting anything.
	if terr := obj.IOTearDown(); terr != nil {
		log.Warn("failed to restore the console", slog.String("error", terr.Error()))
	}

	if err == nil {
		return 0
	}

	var fault *z80.Fault
	if errors.As(err, &fault) {
		fmt.Fprintf(stderr, "Error running %s:\n%s", program, indent(fault.Dump()))
		return fault.Kind.ExitCode()
	}

	fmt.Fprintf(stderr, "Error running %s: %s\n", program, err)
	return 1
}

// indent prefixes each line of a report, so it stands apart from any
// output the program produced.
func indent(report string) string {
	lines := strings.SplitAfter(report, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "")
}
