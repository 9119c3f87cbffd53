package vm

import (
	"errors"

	"github.com/aryanA101a/lulu/translate"
)

var f = translate.From

var (
	ErrImageTooShort = errors.New(f("image too short"))
	ErrInterrupted   = errors.New(f("interrupted"))
)

// ErrImage reports a program image that could not be loaded.
type ErrImage struct {
	Path string
	Err  error
}

func (err ErrImage) Error() string {
	return f("failed to load image: %v: %v", err.Path, err.Err)
}

func (err ErrImage) Unwrap() error {
	return err.Err
}
