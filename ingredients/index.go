package ingredients

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/AmrMurad1/recipe-store/codec"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
)

// IndexEntry locates one record in the log. Offset is the cumulative byte
// count after the record was appended, i.e. the end of the record; the
// record starts at Offset-Length.
type IndexEntry struct {
	Name   string
	Offset uint64
	Length uint64
}

func (e IndexEntry) Start() int64 {
	return int64(e.Offset - e.Length)
}

// Index maps ingredient names to log spans. Entries stay in append order so
// Offset is strictly increasing along the slice.
type Index struct {
	id      string
	entries []IndexEntry
	total   uint64
}

func NewIndex(id string) *Index {
	return &Index{id: id}
}

func (idx *Index) ID() string {
	return idx.id
}

// Total is the number of log bytes the index has accounted for.
func (idx *Index) Total() uint64 {
	return idx.total
}

func (idx *Index) Len() int {
	return len(idx.entries)
}

// Add records a log record that ends at end and is length bytes long. A name
// already present loses its old entry; the old log bytes become unreachable.
func (idx *Index) Add(name string, end, length uint64) error {
	if length == 0 || end < length || end < idx.total+length {
		return errors.Wrapf(shared.ErrInvalidRecord, "span end=%d length=%d behind index total %d", end, length, idx.total)
	}

	idx.Remove(name)
	idx.entries = append(idx.entries, IndexEntry{
		Name:   name,
		Offset: end,
		Length: length,
	})
	idx.total = end
	return nil
}

func (idx *Index) Search(name string) (IndexEntry, bool) {
	pos := idx.position(name)
	if pos < 0 {
		return IndexEntry{}, false
	}
	return idx.entries[pos], true
}

func (idx *Index) Remove(name string) bool {
	pos := idx.position(name)
	if pos < 0 {
		return false
	}
	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	return true
}

func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for _, entry := range idx.entries {
		names = append(names, entry.Name)
	}
	return names
}

func (idx *Index) Entries() []IndexEntry {
	return append([]IndexEntry(nil), idx.entries...)
}

func (idx *Index) clone() *Index {
	return &Index{
		id:      idx.id,
		entries: idx.Entries(),
		total:   idx.total,
	}
}

func (idx *Index) position(name string) int {
	for i, entry := range idx.entries {
		if entry.Name == name {
			return i
		}
	}
	return -1
}

// LoadIndex reads the snapshot at path. A missing snapshot gives an empty
// index named id.
func LoadIndex(path, id string) (*Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewIndex(id), nil
	}
	if err != nil {
		return nil, shared.WrapIO(err, "failed to read index snapshot %q", path)
	}

	body, err := codec.Unseal(shared.KindIndex, data)
	if err != nil {
		return nil, errors.Wrapf(err, "index snapshot %q", path)
	}

	idx, err := decodeIndex(body)
	if err != nil {
		return nil, errors.Wrapf(err, "index snapshot %q", path)
	}
	return idx, nil
}

// Save rewrites the whole snapshot. The new file is written next to the old
// one and renamed over it.
func (idx *Index) Save(path string) error {
	data := codec.Seal(shared.KindIndex, idx.encode())

	tmpPath := path + shared.TempExtension
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return shared.WrapIO(err, "failed to create index snapshot")
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return shared.WrapIO(err, "failed to write index snapshot")
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return shared.WrapIO(err, "failed to sync index snapshot")
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return shared.WrapIO(err, "failed to close index snapshot")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return shared.WrapIO(err, "failed to rename index snapshot into %s", filepath.Base(path))
	}
	return nil
}

func (idx *Index) encode() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(len(idx.id)))
	buf.WriteString(idx.id)
	binary.Write(buf, binary.LittleEndian, idx.total)
	binary.Write(buf, binary.LittleEndian, uint64(len(idx.entries)))

	for _, entry := range idx.entries {
		binary.Write(buf, binary.LittleEndian, uint32(len(entry.Name)))
		buf.WriteString(entry.Name)
		binary.Write(buf, binary.LittleEndian, entry.Offset)
		binary.Write(buf, binary.LittleEndian, entry.Length)
	}
	return buf.Bytes()
}

func decodeIndex(body []byte) (*Index, error) {
	reader := bytes.NewReader(body)

	id, err := readString(reader)
	if err != nil {
		return nil, err
	}

	idx := NewIndex(id)
	var count uint64
	if err := binary.Read(reader, binary.LittleEndian, &idx.total); err != nil {
		return nil, errors.Wrap(shared.ErrCorruptFile, "failed to read index total")
	}
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(shared.ErrCorruptFile, "failed to read entry count")
	}

	var previous uint64
	seen := make(map[string]struct{})
	for i := uint64(0); i < count; i++ {
		var entry IndexEntry
		if entry.Name, err = readString(reader); err != nil {
			return nil, err
		}
		if err := binary.Read(reader, binary.LittleEndian, &entry.Offset); err != nil {
			return nil, errors.Wrapf(shared.ErrCorruptFile, "failed to read offset of entry %d", i)
		}
		if err := binary.Read(reader, binary.LittleEndian, &entry.Length); err != nil {
			return nil, errors.Wrapf(shared.ErrCorruptFile, "failed to read length of entry %d", i)
		}

		if entry.Length == 0 || entry.Offset < entry.Length || entry.Offset <= previous || entry.Offset > idx.total {
			return nil, errors.Wrapf(shared.ErrCorruptFile, "entry %q has inconsistent span", entry.Name)
		}
		if _, ok := seen[entry.Name]; ok {
			return nil, errors.Wrapf(shared.ErrCorruptFile, "entry %q appears twice", entry.Name)
		}
		seen[entry.Name] = struct{}{}
		previous = entry.Offset
		idx.entries = append(idx.entries, entry)
	}

	if reader.Len() > 0 {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "%d trailing bytes", reader.Len())
	}
	return idx, nil
}

func readString(reader *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(reader, binary.LittleEndian, &n); err != nil {
		return "", errors.Wrap(shared.ErrCorruptFile, "failed to read string length")
	}
	if int64(n) > int64(reader.Len()) {
		return "", errors.Wrapf(shared.ErrCorruptFile, "string length %d exceeds remaining %d bytes", n, reader.Len())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return "", errors.Wrap(shared.ErrCorruptFile, "failed to read string")
	}
	return string(buf), nil
}
