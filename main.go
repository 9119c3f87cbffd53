package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/aryanA101a/lulu/translate"
	"github.com/aryanA101a/lulu/vm"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 254
)

const usage = "lulu [image-file1] ..."

var f = translate.From

type cli struct {
	Images []string `arg:"" optional:"" name:"image-file" help:"Program images to load, in order."`
	Trace  string   `name:"trace" type:"path" placeholder:"FILE" help:"Write an instruction trace to FILE."`
	Raw    bool     `name:"raw" default:"true" negatable:"" help:"Put the terminal in raw input mode."`
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "lulu: ", 0)

	var opts cli
	parser, err := kong.New(&opts,
		kong.Name("lulu"),
		kong.Description("Runs LC-3 program images."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		logger.Println(err)
		return exitUsage
	}
	if _, err := parser.Parse(args); err != nil {
		logger.Println(err)
		logger.Println(usage)
		return exitUsage
	}
	if len(opts.Images) == 0 {
		logger.Println(usage)
		return exitUsage
	}

	defer log.SetOutput(log.Writer())
	trace := log.New(io.Discard, "", 0)
	if opts.Trace != "" {
		traceFile, err := os.Create(opts.Trace)
		if err != nil {
			logger.Println(err)
			return exitFailure
		}
		defer traceFile.Close()
		trace = log.New(traceFile, "", log.Lmicroseconds)
		log.SetOutput(traceFile)
	} else {
		log.SetOutput(io.Discard)
	}

	// raw mode has to be in place before the keyboard starts reading stdin
	restore := func() error { return nil }
	if file, ok := stdin.(*os.File); ok && opts.Raw {
		if r, err := vm.EnableRawMode(file); err != nil {
			logger.Println(f("raw mode: %v", err))
		} else {
			restore = r
		}
	}
	defer restore()

	machine := vm.NewVM(
		vm.WithInput(stdin),
		vm.WithOutput(stdout),
		vm.WithTrace(trace),
	)

	for _, path := range opts.Images {
		if err := machine.LoadImageFile(path); err != nil {
			logger.Println(err)
			return exitFailure
		}
	}

	err = machine.Run(ctx)
	if errors.Is(err, vm.ErrInterrupted) {
		restore()
		fmt.Fprintln(stdout)
		return exitInterrupted
	} else if err != nil {
		logger.Println(err)
		return exitFailure
	}

	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
