package vm

import (
	"log"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// EnableRawMode switches the terminal behind file to unbuffered, non-echoing
// input. The returned function restores the original settings and must be
// called on every exit path. If file is not a terminal nothing is changed.
func EnableRawMode(file *os.File) (restore func() error, err error) {
	fd := file.Fd()
	if !term.IsTerminal(int(fd)) {
		return func() error { return nil }, nil
	}

	var originalTerminalConfig unix.Termios
	if err := termios.Tcgetattr(fd, &originalTerminalConfig); err != nil {
		return nil, err
	}

	log.Printf("enabling raw mode...")
	newTermios := originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &newTermios); err != nil {
		return nil, err
	}

	return func() error {
		log.Printf("disabling raw mode...")
		return termios.Tcsetattr(fd, termios.TCSANOW, &originalTerminalConfig)
	}, nil
}
