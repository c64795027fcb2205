package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pborges/logicsyn"
)

// errUsage marks a command line the user got wrong; it exits with 2.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	env := &env{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "truth":
		err = env.cmdTruth(args[1:])
	case "postfix":
		err = env.cmdPostfix(args[1:])
	case "kmap":
		err = env.cmdKMap(args[1:])
	case "synth":
		err = env.cmdSynth(args[1:])
	case "sat":
		err = env.cmdSat(args[1:])
	case "jed":
		err = env.cmdJED(args[1:])
	case "devices":
		fmt.Fprintln(stdout, "GAL16V8")
		fmt.Fprintln(stdout, "GAL22V10")
	case "version":
		fmt.Fprintln(stdout, logicsyn.Version())
	case "help", "-h", "--help":
		usage(stdout)
	default:
		fmt.Fprintln(stderr, "unknown command:", args[0])
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 2
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "logicsyn - boolean formula tools")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  logicsyn truth [-config f] [-max n] '<out> = <expr>'")
	fmt.Fprintln(w, "  logicsyn postfix '<out> = <expr>'")
	fmt.Fprintln(w, "  logicsyn kmap [-config f] [-and] '<out> = <expr>'")
	fmt.Fprintln(w, "  logicsyn synth [-config f] [-simplify] [-kmap] [-verify] [-v] <table file|->")
	fmt.Fprintln(w, "  logicsyn sat [-taut] '<out> = <expr>'")
	fmt.Fprintln(w, "  logicsyn jed [-config f] [-device g16v8] [-o out.jed] [-table file] [-sig s] [-secure] [-v] ['<out> = <expr>' ...]")
	fmt.Fprintln(w, "  logicsyn devices")
	fmt.Fprintln(w, "  logicsyn version")
}
