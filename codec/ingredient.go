package codec

import (
	"strings"

	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
)

const (
	separator  = string(shared.FieldSeparator)
	terminator = string(shared.LineTerminator)
)

// EncodeIngredient builds the log line for one ingredient. The result is
// decoded again before it is returned, so a field holding the separator or
// an empty field never reaches the log.
func EncodeIngredient(name, kind, unit string) ([]byte, error) {
	for _, field := range []string{name, kind, unit} {
		if strings.Contains(field, terminator) {
			return nil, errors.Wrap(shared.ErrInvalidRecord, "field contains line terminator")
		}
	}

	line := name + separator + kind + separator + unit + terminator
	if _, err := DecodeIngredient([]byte(line)); err != nil {
		return nil, err
	}
	return []byte(line), nil
}

func DecodeIngredient(data []byte) (shared.IngredientRecord, error) {
	line := strings.TrimSuffix(string(data), terminator)

	parts := strings.Split(line, separator)
	if len(parts) != 3 {
		return shared.IngredientRecord{}, errors.Wrapf(shared.ErrInvalidRecord, "expected 3 fields, got %d", len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return shared.IngredientRecord{}, errors.Wrap(shared.ErrInvalidRecord, "empty field")
		}
		if strings.Contains(part, terminator) {
			return shared.IngredientRecord{}, errors.Wrap(shared.ErrInvalidRecord, "field contains line terminator")
		}
	}

	return shared.IngredientRecord{
		Name: parts[0],
		Type: parts[1],
		Unit: parts[2],
	}, nil
}
