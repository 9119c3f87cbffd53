// Package vm emulates the LC-3, a 16-bit computer with eight general
// purpose registers, a 65536 word address space, a memory mapped keyboard
// and TRAP service routines for console I/O.
package vm

import (
	"context"
	goIO "io"
	"log"
	"os"
)

type VM struct {
	memory *memory
	cpu    cpu
	trace  *log.Logger
}

type Option func(*VM)

// WithInput sets the keyboard input source. Without it the keyboard never
// has a key and character reads see end of input.
func WithInput(r goIO.Reader) Option {
	return func(vm *VM) {
		vm.memory.keyboard = newKeyboard(r)
	}
}

// WithOutput sets the console. The default is os.Stdout.
func WithOutput(w goIO.Writer) Option {
	return func(vm *VM) {
		vm.cpu.io = newConsole(w)
	}
}

// WithTrace logs every executed instruction to logger.
func WithTrace(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.trace = logger
	}
}

func NewVM(opts ...Option) *VM {
	mem := &memory{}
	vm := &VM{
		memory: mem,
		cpu: cpu{
			memory: mem,
			io:     newConsole(os.Stdout),
		},
		trace: log.New(goIO.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.cpu.trace = vm.trace
	vm.Reset()
	return vm
}

// Reset zeroes memory and registers and points the PC at the start of user
// space. The keyboard and console are kept.
func (vm *VM) Reset() {
	vm.memory.reset()
	vm.cpu.registers.reset()
	vm.cpu.running = false
	vm.cpu.halted = false
}

// Run executes instructions until the program halts, returning nil, or
// until ctx is done, returning an error wrapping ErrInterrupted.
func (vm *VM) Run(ctx context.Context) error {
	return vm.cpu.start(ctx)
}

// Halted reports whether the program reached the HALT trap.
func (vm *VM) Halted() bool {
	return vm.cpu.halted
}
