package codec

import (
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// encMode uses Core Deterministic Encoding so the same recipe always
// produces the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeRecipe seals recipe into a recipe envelope. The body is decoded
// again before sealing, so a recipe the decoder would refuse, such as one
// holding invalid UTF-8, is rejected instead of written.
func EncodeRecipe(recipe *shared.Recipe) ([]byte, error) {
	if recipe == nil {
		return nil, shared.ErrEmptyObject
	}

	body, err := encMode.Marshal(recipe)
	if err != nil {
		return nil, errors.Wrapf(err, "encode recipe %q", recipe.Name)
	}

	var check shared.Recipe
	if err := decMode.Unmarshal(body, &check); err != nil {
		return nil, errors.Wrapf(shared.ErrInvalidRecord, "recipe %q: %v", recipe.Name, err)
	}
	return Seal(shared.KindRecipe, body), nil
}

func DecodeRecipe(data []byte) (*shared.Recipe, error) {
	body, err := Unseal(shared.KindRecipe, data)
	if err != nil {
		return nil, err
	}

	var recipe shared.Recipe
	if err := decMode.Unmarshal(body, &recipe); err != nil {
		return nil, errors.Wrap(shared.ErrCorruptFile, err.Error())
	}
	if recipe.Name == "" {
		return nil, errors.Wrap(shared.ErrCorruptFile, "recipe has no name")
	}
	return &recipe, nil
}
