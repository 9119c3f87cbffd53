package vm

const MemorySize = 1 << 16
const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

type memory struct {
	ram      [MemorySize]word
	keyboard *keyboard
}

// read returns the word at addr. Reading the keyboard status register
// refreshes both keyboard registers from the input source first.
func (mem *memory) read(addr word) word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

func (mem *memory) write(addr, value word) {
	mem.ram[addr] = value
}

func (mem *memory) pollKeyboard() {
	if c, ok := mem.keyboard.poll(); ok {
		mem.ram[KBSR] = 1 << 15
		mem.ram[KBDR] = word(c)
	} else {
		mem.ram[KBSR] = 0
	}
}

func (mem *memory) reset() {
	mem.ram = [MemorySize]word{}
}
