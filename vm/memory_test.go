package vm

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	var mem memory

	mem.write(0x0000, 0x1234)
	mem.write(0xFFFF, 0xABCD)
	mem.write(KBDR, 0x0041)

	assert.Equal(t, word(0x1234), mem.read(0x0000))
	assert.Equal(t, word(0xABCD), mem.read(0xFFFF))
	assert.Equal(t, word(0x0041), mem.read(KBDR))
}

func TestKeyboardStatusWithoutInput(t *testing.T) {
	var mem memory
	mem.ram[KBSR] = 0x8000

	assert.Equal(t, word(0), mem.read(KBSR))

	// a source that never delivers must not block the poll
	pr, pw := io.Pipe()
	defer pw.Close()
	mem.keyboard = newKeyboard(pr)
	mem.ram[KBSR] = 0x8000

	assert.Equal(t, word(0), mem.read(KBSR))
}

func TestKeyboardStatusWithInput(t *testing.T) {
	var mem memory
	mem.keyboard = newKeyboard(strings.NewReader("a"))

	require.Eventually(t, func() bool {
		return mem.read(KBSR)&0x8000 != 0
	}, time.Second, time.Millisecond)

	assert.Equal(t, word('a'), mem.read(KBDR))
	// reading the data register does not consume anything
	assert.Equal(t, word('a'), mem.read(KBDR))
	assert.Equal(t, word(0), mem.read(KBSR))
	assert.Equal(t, word('a'), mem.read(KBDR))
}

func TestKeyboardGetc(t *testing.T) {
	kb := newKeyboard(strings.NewReader("xy"))
	ctx := context.Background()

	c, err := kb.getc(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), c)

	c, err = kb.getc(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('y'), c)

	_, err = kb.getc(ctx)
	assert.ErrorIs(t, err, io.EOF)

	var none *keyboard
	_, err = none.getc(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestKeyboardGetcCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	kb := newKeyboard(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kb.getc(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
