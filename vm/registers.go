package vm

type word uint16

type cpu_flag uint16

// general purpose registers
const (
	R0 = 0b000
	R1 = 0b001
	R2 = 0b010
	R3 = 0b011
	R4 = 0b100
	R5 = 0b101
	R6 = 0b110
	R7 = 0b111
)

// flags
const (
	FLAG_POS cpu_flag = 0b001
	FLAG_ZRO cpu_flag = 0b010
	FLAG_NEG cpu_flag = 0b100
)

func (flag cpu_flag) String() string {
	switch flag {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return "?"
}

type registers struct {
	general [8]word
	pc      word
	cond    cpu_flag
}

func (reg *registers) reset() {
	reg.general = [8]word{}
	reg.pc = UserSpaceStart
	reg.cond = FLAG_ZRO
}

// updateFlags sets the condition flag from the sign of register r.
func (reg *registers) updateFlags(r word) {
	if reg.general[r] == 0 {
		reg.cond = FLAG_ZRO
	} else if reg.general[r]>>15 != 0 {
		reg.cond = FLAG_NEG
	} else {
		reg.cond = FLAG_POS
	}
}

// sext sign extends the low bit_count bits of x to a full word.
func sext(x, bit_count word) word {
	if ((x >> (bit_count - 1)) & 0b1) != 0 {
		x |= (0xFFFF << bit_count)
	}
	return x
}
