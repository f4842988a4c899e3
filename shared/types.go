package shared

type Key string

type Ingredient struct {
	Name     string `cbor:"name" yaml:"name"`
	Type     string `cbor:"type" yaml:"type"`
	Quantity int    `cbor:"quantity" yaml:"quantity"`
	Unit     string `cbor:"unit" yaml:"unit"`
}

// Recipe is stored once per file and never updated in place.
type Recipe struct {
	Name         string       `cbor:"name" yaml:"name"`
	Description  string       `cbor:"description" yaml:"description"`
	Ingredients  []Ingredient `cbor:"ingredients" yaml:"ingredients"`
	Instructions []string     `cbor:"instructions" yaml:"instructions"`
	PrepTime     int          `cbor:"prep_time" yaml:"prep_time"`
	CookTime     int          `cbor:"cook_time" yaml:"cook_time"`
}

func (r *Recipe) Key() Key {
	return Key(r.Name)
}

func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// IngredientRecord is the triple stored in the ingredient log.
type IngredientRecord struct {
	Name string
	Type string
	Unit string
}

func CompareKeys(k1, k2 Key) int {
	if k1 < k2 {
		return -1
	} else if k1 > k2 {
		return 1
	}
	return 0
}
