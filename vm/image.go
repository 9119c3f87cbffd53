package vm

import (
	"encoding/binary"
	goIO "io"
	"os"
)

// LoadImageFile loads the program image at path. See LoadImage.
func (vm *VM) LoadImageFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return ErrImage{Path: path, Err: err}
	}

	if err := vm.readProgramFile(file); err != nil {
		return ErrImage{Path: path, Err: err}
	}
	return nil
}

// LoadImage reads a program image: a big-endian origin word followed by
// big-endian words placed contiguously from that origin. Words past the
// end of the address space and a trailing odd byte are ignored.
func (vm *VM) LoadImage(r goIO.Reader) error {
	file, err := goIO.ReadAll(r)
	if err != nil {
		return err
	}
	return vm.readProgramFile(file)
}

func (vm *VM) readProgramFile(file []byte) error {
	if len(file) < 2 {
		return ErrImageTooShort
	}

	origin := int(binary.BigEndian.Uint16(file))
	body := file[2:]

	maxRead := MemorySize - origin
	count := min(maxRead, len(body)/2)
	vm.trace.Printf("image: origin=0x%04x words=%d", origin, count)

	for i := 0; i < count; i++ {
		vm.memory.write(word(origin+i), word(binary.BigEndian.Uint16(body[2*i:])))
	}
	return nil
}
