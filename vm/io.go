package vm

import (
	"bufio"
	"context"
	goIO "io"
)

// keyboard feeds bytes from an input source to the machine one at a time.
// A nil keyboard never has a key available.
type keyboard struct {
	keyBuffer chan byte
}

func newKeyboard(r goIO.Reader) *keyboard {
	kb := &keyboard{keyBuffer: make(chan byte, 1)}
	go kb.readInput(r)
	return kb
}

// readInput closes keyBuffer once r is exhausted, after every byte read
// from it has been handed over.
func (kb *keyboard) readInput(r goIO.Reader) {
	defer close(kb.keyBuffer)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			kb.keyBuffer <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

// poll takes a pending key without blocking.
func (kb *keyboard) poll() (byte, bool) {
	if kb == nil {
		return 0, false
	}
	select {
	case c, ok := <-kb.keyBuffer:
		return c, ok
	default:
		return 0, false
	}
}

// getc waits for the next key. It returns io.EOF when the input source is
// exhausted and the context's error if ctx is done first.
func (kb *keyboard) getc(ctx context.Context) (byte, error) {
	if kb == nil {
		return 0, goIO.EOF
	}
	select {
	case c, ok := <-kb.keyBuffer:
		if !ok {
			return 0, goIO.EOF
		}
		return c, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

type console struct {
	stdoutWriter *bufio.Writer
}

func newConsole(w goIO.Writer) console {
	return console{stdoutWriter: bufio.NewWriter(w)}
}

func (con console) putc(c byte) error {
	return con.stdoutWriter.WriteByte(c)
}

func (con console) puts(s string) error {
	_, err := con.stdoutWriter.WriteString(s)
	return err
}

func (con console) flush() error {
	return con.stdoutWriter.Flush()
}
