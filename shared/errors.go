package shared

import (
	"github.com/pkg/errors"
)

var (
	ErrEmptyObject      = errors.New("empty object")
	ErrNameAlreadyInUse = errors.New("name already in use")
	ErrBadFileType      = errors.New("bad file type")
	ErrCorruptFile      = errors.New("file is corrupted")
	ErrNotFound         = errors.New("not found")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrIO               = errors.New("i/o error")
)

// IOError marks a failed read, write, seek or unlink. It matches ErrIO and
// still unwraps to the OS error.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func WrapIO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(&IOError{Err: err}, format, args...)
}
