package ingredients

import (
	"strings"

	"github.com/AmrMurad1/recipe-store/codec"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Catalog keeps the ingredient log and its index in agreement. The index is
// never rebuilt from the log; both are durable on their own and every
// mutation writes the log first and the snapshot second.
type Catalog struct {
	log       *Log
	index     *Index
	indexPath string
	logger    logrus.FieldLogger
}

func OpenCatalog(logPath, indexPath, indexID string, logger logrus.FieldLogger) (*Catalog, error) {
	index, err := LoadIndex(indexPath, indexID)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		log:       NewLog(logPath),
		index:     index,
		indexPath: indexPath,
		logger:    logger,
	}

	stale, err := c.Stale()
	if err != nil {
		return nil, err
	}
	if stale {
		logger.WithField("action", "open_ingredient_catalog").
			WithField("index_total", index.Total()).
			Warn("ingredient index accounts for more bytes than the log holds")
	}

	logger.WithField("action", "open_ingredient_catalog").
		WithField("entries", index.Len()).
		Debug("ingredient index loaded")
	return c, nil
}

// Append adds an ingredient to the log and points the index at it.
func (c *Catalog) Append(name, kind, unit string) error {
	record, err := codec.EncodeIngredient(name, kind, unit)
	if err != nil {
		return err
	}
	return c.appendRecord(name, record)
}

// AppendEncoded adds an already encoded log line, supplying the line
// terminator when it is missing.
func (c *Catalog) AppendEncoded(line string) error {
	if line == "" {
		return shared.ErrEmptyObject
	}
	if !strings.HasSuffix(line, string(shared.LineTerminator)) {
		line += string(shared.LineTerminator)
	}

	decoded, err := codec.DecodeIngredient([]byte(line))
	if err != nil {
		return err
	}
	if strings.Count(line, string(shared.LineTerminator)) != 1 {
		return errors.Wrap(shared.ErrInvalidRecord, "line terminator inside record")
	}
	return c.appendRecord(decoded.Name, []byte(line))
}

func (c *Catalog) appendRecord(name string, record []byte) error {
	end, err := c.log.Append(record)
	if err != nil {
		return err
	}

	previous := c.index.clone()
	length := uint64(len(record))
	if err := c.index.Add(name, uint64(end), length); err != nil {
		return errors.Wrapf(shared.ErrCorruptFile, "log end %d disagrees with index: %v", end, err)
	}

	if err := c.index.Save(c.indexPath); err != nil {
		c.index = previous
		return err
	}

	c.logger.WithField("action", "append_ingredient").
		WithField("name", name).
		WithField("offset", end).
		Debug("ingredient appended")
	return nil
}

// Read seeks to the absolute start of the record for name and decodes it.
func (c *Catalog) Read(name string) (shared.IngredientRecord, error) {
	entry, ok := c.index.Search(name)
	if !ok {
		return shared.IngredientRecord{}, errors.Wrapf(shared.ErrNotFound, "ingredient %q", name)
	}

	data, err := c.log.ReadAt(entry.Start(), int64(entry.Length))
	if err != nil {
		return shared.IngredientRecord{}, errors.Wrapf(err, "ingredient %q", name)
	}

	record, err := codec.DecodeIngredient(data)
	if err != nil {
		return shared.IngredientRecord{}, errors.Wrapf(shared.ErrCorruptFile, "ingredient %q: %v", name, err)
	}
	if record.Name != name {
		return shared.IngredientRecord{}, errors.Wrapf(shared.ErrCorruptFile,
			"index entry for %q points at record %q", name, record.Name)
	}
	return record, nil
}

// Remove drops name from the index. The log keeps its bytes.
func (c *Catalog) Remove(name string) (bool, error) {
	previous := c.index.clone()
	if !c.index.Remove(name) {
		return false, nil
	}
	if err := c.index.Save(c.indexPath); err != nil {
		c.index = previous
		return false, err
	}
	return true, nil
}

func (c *Catalog) Search(name string) (IndexEntry, bool) {
	return c.index.Search(name)
}

func (c *Catalog) Names() []string {
	return c.index.Names()
}

// Stale reports whether the index claims bytes the log does not have.
func (c *Catalog) Stale() (bool, error) {
	size, err := c.log.Size()
	if err != nil {
		return false, err
	}
	return c.index.Total() > uint64(size), nil
}
