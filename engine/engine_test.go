package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AmrMurad1/recipe-store/config"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.RecordsDir = dir

	logger, _ := test.NewNullLogger()
	db, err := Open(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func recipe(name string) *shared.Recipe {
	return &shared.Recipe{
		Name:         name,
		Description:  "recipe " + name,
		Instructions: []string{"cook"},
		PrepTime:     1,
		CookTime:     2,
	}
}

func recipeNames(list []*shared.Recipe) []string {
	names := make([]string, 0, len(list))
	for _, r := range list {
		names = append(names, r.Name)
	}
	return names
}

func TestEngineRecipeLifecycle(t *testing.T) {
	db := openTestEngine(t, filepath.Join(t.TempDir(), "db"))
	assert.Empty(t, db.Recipes())

	require.NoError(t, db.CreateRecipe(recipe("A")))
	require.NoError(t, db.CreateRecipe(recipe("B")))

	list := db.Recipes()
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{"A", "B"}, recipeNames(list))

	removed, err := db.DeleteRecipe("A")
	require.NoError(t, err)
	assert.True(t, removed)

	list = db.Recipes()
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)

	assert.ErrorIs(t, db.CreateRecipe(recipe("B")), shared.ErrNameAlreadyInUse)

	removed, err = db.DeleteRecipe("A")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEngineRecipeLookups(t *testing.T) {
	dir := t.TempDir()
	db := openTestEngine(t, dir)
	require.NoError(t, db.CreateRecipe(recipe("soup")))

	path, ok := db.SearchRecipe("soup")
	require.True(t, ok)
	assert.Equal(t, []string{path}, db.RecipeFiles())

	got, err := db.ReadRecipe("soup")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalTime())

	_, err = db.ReadRecipe("stew")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, db.CreateRecipe(nil), shared.ErrEmptyObject)
}

func TestEngineIngredients(t *testing.T) {
	dir := t.TempDir()
	db := openTestEngine(t, dir)

	require.NoError(t, db.AddIngredient("salt", "mineral", "g"))
	require.NoError(t, db.AddIngredient("pepper", "spice", "g"))
	require.NoError(t, db.AddEncodedIngredient("sugarƒsweetenerƒg\n"))
	assert.Equal(t, []string{"salt", "pepper", "sugar"}, db.Ingredients())

	got, err := db.ReadIngredient("pepper")
	require.NoError(t, err)
	assert.Equal(t, shared.IngredientRecord{Name: "pepper", Type: "spice", Unit: "g"}, got)

	removed, err := db.DeleteIngredient("salt")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"pepper", "sugar"}, db.Ingredients())

	_, err = db.ReadIngredient("salt")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	removed, err = db.DeleteIngredient("salt")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.ErrorIs(t, db.AddIngredient("bad", "", "g"), shared.ErrInvalidRecord)
	assert.Equal(t, []string{"pepper", "sugar"}, db.Ingredients())
}

func TestEngineReopen(t *testing.T) {
	dir := t.TempDir()
	db := openTestEngine(t, dir)
	require.NoError(t, db.CreateRecipe(recipe("soup")))
	require.NoError(t, db.AddIngredient("salt", "mineral", "g"))
	require.NoError(t, db.AddIngredient("salt", "mineral", "kg"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.dat"), []byte("junk"), 0644))

	reopened := openTestEngine(t, dir)
	assert.Equal(t, []string{"soup"}, recipeNames(reopened.Recipes()))
	assert.Equal(t, []string{"salt"}, reopened.Ingredients())

	got, err := reopened.ReadIngredient("salt")
	require.NoError(t, err)
	assert.Equal(t, "kg", got.Unit)
}

func TestEngineIngredientListIsCopy(t *testing.T) {
	db := openTestEngine(t, t.TempDir())
	require.NoError(t, db.AddIngredient("salt", "mineral", "g"))

	names := db.Ingredients()
	names[0] = "changed"
	assert.Equal(t, []string{"salt"}, db.Ingredients())
}

func TestEngineRejectsNilConfig(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := Open(nil, logger)
	assert.ErrorIs(t, err, shared.ErrEmptyObject)
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RecordsDir = ""
	logger, _ := test.NewNullLogger()

	_, err := Open(cfg, logger)
	assert.Error(t, err)
}
