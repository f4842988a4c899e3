package shared

const (
	MagicNumber uint32 = 0x52435031
	HeaderSize  int    = 16

	FormatVersion uint16 = 1
)

// Envelope kinds.
const (
	KindRecipe uint8 = 1
	KindIndex  uint8 = 2
)

// Envelope flags.
const (
	FlagCompressed uint8 = 1 << 0
)

const (
	FieldSeparator  = 'ƒ'
	LineTerminator  = '\n'
	RecipeExtension = ".dat"
	TempExtension   = ".tmp"

	IngredientLogName   = "ingredients.db"
	IngredientIndexName = "datamap.db"
	DefaultIndexID      = "datamap"
)

// Header precedes every envelope payload, little endian.
type Header struct {
	Magic      uint32
	Version    uint16
	Kind       uint8
	Flags      uint8
	PayloadLen uint32
	Checksum   uint32
}
