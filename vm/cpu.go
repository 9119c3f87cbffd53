package vm

import (
	"context"
	"fmt"
	"log"
)

// opcodes
const (
	OP_BR word = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES
	OP_LEA
	OP_TRAP
)

type cpu struct {
	running bool
	halted  bool
	memory  *memory
	registers
	io    console
	trace *log.Logger
}

// start runs the fetch, execute loop until HALT or until ctx is done.
// Cancellation is checked between instructions and while a trap routine
// waits for input.
func (cpu *cpu) start(ctx context.Context) error {
	done := ctx.Done()
	cpu.running = true

	for cpu.running {
		select {
		case <-done:
			cpu.running = false
			return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
		default:
		}

		if err := cpu.step(ctx); err != nil {
			cpu.running = false
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
			}
			return err
		}
	}
	return nil
}

// step fetches the instruction at PC, advances PC past it and executes it.
func (cpu *cpu) step(ctx context.Context) error {
	instruction := cpu.memory.read(cpu.pc)
	cpu.pc++
	return cpu.decodeAndExecuteInstruction(ctx, instruction)
}

func (cpu *cpu) stop() {
	cpu.running = false
	cpu.halted = true
}

func (cpu *cpu) decodeAndExecuteInstruction(ctx context.Context, instruction word) error {
	switch instruction >> 12 {
	case OP_ADD:
		cpu.add(instruction)
	case OP_AND:
		cpu.and(instruction)
	case OP_NOT:
		cpu.not(instruction)
	case OP_BR:
		cpu.branch(instruction)
	case OP_JMP:
		cpu.jump(instruction)
	case OP_JSR:
		cpu.jumpSubroutine(instruction)
	case OP_LD:
		cpu.load(instruction)
	case OP_LDI:
		cpu.loadIndirect(instruction)
	case OP_LDR:
		cpu.loadRegister(instruction)
	case OP_LEA:
		cpu.loadEffectiveAddress(instruction)
	case OP_ST:
		cpu.store(instruction)
	case OP_STI:
		cpu.storeIndirect(instruction)
	case OP_STR:
		cpu.storeRegister(instruction)
	case OP_TRAP:
		return cpu.trap(ctx, instruction)
	case OP_RTI, OP_RES:
		cpu.trace.Printf("0x%04x RTI/RES: unused opcode 0x%04x", cpu.pc, instruction)
	}
	return nil
}

func (cpu *cpu) add(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr1 := (instruction >> 6) & 0b111

	if (instruction>>5)&0b1 == 1 {
		imm5 := instruction & 0x1F
		cpu.trace.Printf("0x%04x ADD: dr=%03b sr1=%03b imm5=0x%02x", cpu.pc, dr, sr1, imm5)
		cpu.general[dr] = cpu.general[sr1] + sext(imm5, 5)
	} else {
		sr2 := instruction & 0b111
		cpu.trace.Printf("0x%04x ADD: dr=%03b sr1=%03b sr2=%03b", cpu.pc, dr, sr1, sr2)
		cpu.general[dr] = cpu.general[sr1] + cpu.general[sr2]
	}

	cpu.updateFlags(dr)
}

func (cpu *cpu) and(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr1 := (instruction >> 6) & 0b111

	if (instruction>>5)&0b1 == 1 {
		imm5 := instruction & 0x1F
		cpu.trace.Printf("0x%04x AND: dr=%03b sr1=%03b imm5=0x%02x", cpu.pc, dr, sr1, imm5)
		cpu.general[dr] = cpu.general[sr1] & sext(imm5, 5)
	} else {
		sr2 := instruction & 0b111
		cpu.trace.Printf("0x%04x AND: dr=%03b sr1=%03b sr2=%03b", cpu.pc, dr, sr1, sr2)
		cpu.general[dr] = cpu.general[sr1] & cpu.general[sr2]
	}

	cpu.updateFlags(dr)
}

func (cpu *cpu) not(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr := (instruction >> 6) & 0b111

	cpu.trace.Printf("0x%04x NOT: dr=%03b sr=%03b", cpu.pc, dr, sr)

	cpu.general[dr] = ^cpu.general[sr]
	cpu.updateFlags(dr)
}

// branch never jumps when all three condition bits are clear.
func (cpu *cpu) branch(instruction word) {
	nzp := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x BR: nzp=%03b pcoffset9=0x%03x", cpu.pc, nzp, pcoffset9)

	if nzp&word(cpu.cond) != 0 {
		cpu.pc += sext(pcoffset9, 9)
	}
}

// jump also covers RET, which is JMP through R7.
func (cpu *cpu) jump(instruction word) {
	br := (instruction >> 6) & 0b111

	cpu.trace.Printf("0x%04x JMP: br=%03b", cpu.pc, br)

	cpu.pc = cpu.general[br]
}

// jumpSubroutine saves the return address before reading the base
// register, so JSRR R7 continues at the next instruction.
func (cpu *cpu) jumpSubroutine(instruction word) {
	cpu.general[R7] = cpu.pc

	if (instruction>>11)&0b1 == 1 {
		pcoffset11 := instruction & 0x7FF
		cpu.trace.Printf("0x%04x JSR: pcoffset11=0x%03x", cpu.pc, pcoffset11)
		cpu.pc += sext(pcoffset11, 11)
	} else {
		br := (instruction >> 6) & 0b111
		cpu.trace.Printf("0x%04x JSRR: br=%03b", cpu.pc, br)
		cpu.pc = cpu.general[br]
	}
}

func (cpu *cpu) load(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x LD: dr=%03b pcoffset9=0x%03x", cpu.pc, dr, pcoffset9)

	cpu.general[dr] = cpu.memory.read(cpu.pc + sext(pcoffset9, 9))
	cpu.updateFlags(dr)
}

func (cpu *cpu) loadIndirect(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x LDI: dr=%03b pcoffset9=0x%03x", cpu.pc, dr, pcoffset9)

	cpu.general[dr] = cpu.memory.read(cpu.memory.read(cpu.pc + sext(pcoffset9, 9)))
	cpu.updateFlags(dr)
}

func (cpu *cpu) loadRegister(instruction word) {
	dr := (instruction >> 9) & 0b111
	br := (instruction >> 6) & 0b111
	offset6 := instruction & 0x3F

	cpu.trace.Printf("0x%04x LDR: dr=%03b br=%03b offset6=0x%02x", cpu.pc, dr, br, offset6)

	cpu.general[dr] = cpu.memory.read(cpu.general[br] + sext(offset6, 6))
	cpu.updateFlags(dr)
}

func (cpu *cpu) loadEffectiveAddress(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x LEA: dr=%03b pcoffset9=0x%03x", cpu.pc, dr, pcoffset9)

	cpu.general[dr] = cpu.pc + sext(pcoffset9, 9)
	cpu.updateFlags(dr)
}

func (cpu *cpu) store(instruction word) {
	sr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x ST: sr=%03b pcoffset9=0x%03x", cpu.pc, sr, pcoffset9)

	cpu.memory.write(cpu.pc+sext(pcoffset9, 9), cpu.general[sr])
}

func (cpu *cpu) storeIndirect(instruction word) {
	sr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.trace.Printf("0x%04x STI: sr=%03b pcoffset9=0x%03x", cpu.pc, sr, pcoffset9)

	cpu.memory.write(cpu.memory.read(cpu.pc+sext(pcoffset9, 9)), cpu.general[sr])
}

func (cpu *cpu) storeRegister(instruction word) {
	sr := (instruction >> 9) & 0b111
	br := (instruction >> 6) & 0b111
	offset6 := instruction & 0x3F

	cpu.trace.Printf("0x%04x STR: sr=%03b br=%03b offset6=0x%02x", cpu.pc, sr, br, offset6)

	cpu.memory.write(cpu.general[br]+sext(offset6, 6), cpu.general[sr])
}
