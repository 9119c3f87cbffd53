package vm

import (
	"context"
	"errors"
	goIO "io"
)

const (
	TRAP_GETC  word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   word = 0x21 /* output a character */
	TRAP_PUTS  word = 0x22 /* output a word string */
	TRAP_IN    word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP word = 0x24 /* output a byte string */
	TRAP_HALT  word = 0x25 /* halt the program */
)

// eofChar is what a character read yields once the input is exhausted.
const eofChar word = 0xFFFF

// trap saves the return address in R7 and runs the service routine
// selected by the vector. Unknown vectors do nothing else.
func (cpu *cpu) trap(ctx context.Context, instruction word) error {
	vector := instruction & 0xFF
	cpu.trace.Printf("0x%04x TRAP: 0x%02x", cpu.pc, vector)

	cpu.general[R7] = cpu.pc

	switch vector {
	case TRAP_GETC:
		return cpu.trapGetc(ctx)
	case TRAP_OUT:
		return cpu.trapOut()
	case TRAP_PUTS:
		return cpu.trapPuts()
	case TRAP_IN:
		return cpu.trapIn(ctx)
	case TRAP_PUTSP:
		return cpu.trapPutsp()
	case TRAP_HALT:
		return cpu.trapHalt()
	}
	return nil
}

// readChar blocks for one key and stores it in R0.
func (cpu *cpu) readChar(ctx context.Context) (ok bool, err error) {
	c, err := cpu.memory.keyboard.getc(ctx)
	if errors.Is(err, goIO.EOF) {
		cpu.general[R0] = eofChar
		cpu.updateFlags(R0)
		return false, nil
	} else if err != nil {
		return false, err
	}

	cpu.general[R0] = word(c)
	cpu.updateFlags(R0)
	return true, nil
}

func (cpu *cpu) trapGetc(ctx context.Context) error {
	_, err := cpu.readChar(ctx)
	return err
}

func (cpu *cpu) trapOut() error {
	if err := cpu.io.putc(byte(cpu.general[R0])); err != nil {
		return err
	}
	return cpu.io.flush()
}

// trapPuts writes one character per word, starting at R0, up to a zero word.
func (cpu *cpu) trapPuts() error {
	addr := cpu.general[R0]
	for n := 0; n < MemorySize; n++ {
		c := cpu.memory.ram[addr]
		if c == 0 {
			break
		}
		if err := cpu.io.putc(byte(c)); err != nil {
			return err
		}
		addr++
	}
	return cpu.io.flush()
}

func (cpu *cpu) trapIn(ctx context.Context) error {
	if err := cpu.io.puts("Enter a character: "); err != nil {
		return err
	}
	if err := cpu.io.flush(); err != nil {
		return err
	}

	ok, err := cpu.readChar(ctx)
	if err != nil {
		return err
	}
	if ok {
		if err := cpu.io.putc(byte(cpu.general[R0])); err != nil {
			return err
		}
	}
	return cpu.io.flush()
}

// trapPutsp writes two characters per word, low byte first, starting at R0,
// up to a zero word. A zero high byte ends that word.
func (cpu *cpu) trapPutsp() error {
	addr := cpu.general[R0]
	for n := 0; n < MemorySize; n++ {
		w := cpu.memory.ram[addr]
		if w == 0 {
			break
		}
		if err := cpu.io.putc(byte(w)); err != nil {
			return err
		}
		if w>>8 != 0 {
			if err := cpu.io.putc(byte(w >> 8)); err != nil {
				return err
			}
		}
		addr++
	}
	return cpu.io.flush()
}

func (cpu *cpu) trapHalt() error {
	cpu.stop()
	if err := cpu.io.puts("HALT\n"); err != nil {
		return err
	}
	return cpu.io.flush()
}
