package ingredients

import (
	"io"
	"os"

	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
)

// Log is the append-only ingredient file. It holds no open handle between
// calls; every operation opens, uses and closes its own.
type Log struct {
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes record at the end of the log and returns the offset of the
// byte just past it.
func (l *Log) Append(record []byte) (int64, error) {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, shared.WrapIO(err, "log %q cannot open file", l.path)
	}
	defer file.Close()

	if _, err := file.Write(record); err != nil {
		return 0, shared.WrapIO(err, "log %q append", l.path)
	}

	stat, err := file.Stat()
	if err != nil {
		return 0, shared.WrapIO(err, "log %q stat", l.path)
	}

	if err := file.Sync(); err != nil {
		return 0, shared.WrapIO(err, "log %q sync", l.path)
	}
	return stat.Size(), nil
}

// ReadAt reads exactly length bytes starting at the absolute offset start.
func (l *Log) ReadAt(start, length int64) ([]byte, error) {
	if start < 0 || length <= 0 {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "invalid log span start=%d length=%d", start, length)
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, shared.WrapIO(err, "log %q cannot open file", l.path)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, shared.WrapIO(err, "log %q stat", l.path)
	}

	if start+length > stat.Size() {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "span %d+%d exceeds log size %d", start, length, stat.Size())
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		return nil, shared.WrapIO(err, "log %q seek to %d", l.path, start)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, shared.WrapIO(err, "log %q read %d bytes at %d", l.path, length, start)
	}
	return buf, nil
}

// Size reports the current length of the log; a missing log is empty.
func (l *Log) Size() (int64, error) {
	stat, err := os.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, shared.WrapIO(err, "log %q stat", l.path)
	}
	if !stat.Mode().IsRegular() {
		return 0, shared.WrapIO(errors.New("not a regular file"), "log %q", l.path)
	}
	return stat.Size(), nil
}
