package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AmrMurad1/recipe-store/config"
	"github.com/AmrMurad1/recipe-store/engine"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeYAML = `
name: omelette
description: quick breakfast
ingredients:
  - name: egg
    type: protein
    quantity: 3
    unit: unit
instructions:
  - whisk
  - cook
prep_time: 2
cook_time: 4
`

func openTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.RecordsDir = t.TempDir()
	logger, _ := test.NewNullLogger()

	db, err := engine.Open(cfg, logger)
	require.NoError(t, err)
	return db
}

func TestLoadRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omelette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(recipeYAML), 0644))

	recipe, err := loadRecipe(path)
	require.NoError(t, err)
	assert.Equal(t, "omelette", recipe.Name)
	assert.Equal(t, []shared.Ingredient{{Name: "egg", Type: "protein", Quantity: 3, Unit: "unit"}}, recipe.Ingredients)
	assert.Equal(t, 6, recipe.TotalTime())
}

func TestRunCommands(t *testing.T) {
	db := openTestEngine(t)
	path := filepath.Join(t.TempDir(), "omelette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(recipeYAML), 0644))

	require.NoError(t, run(db, []string{"add-recipe", path}))
	require.NoError(t, run(db, []string{"recipe", "omelette"}))
	require.NoError(t, run(db, []string{"add-ingredient", "egg", "protein", "unit"}))
	require.NoError(t, run(db, []string{"ingredient", "egg"}))
	assert.Equal(t, []string{"egg"}, db.Ingredients())

	assert.ErrorIs(t, run(db, []string{"add-recipe", path}), shared.ErrNameAlreadyInUse)

	require.NoError(t, run(db, []string{"rm-recipe", "omelette"}))
	assert.ErrorIs(t, run(db, []string{"rm-recipe", "omelette"}), shared.ErrNotFound)

	require.NoError(t, run(db, []string{"rm-ingredient", "egg"}))
	assert.ErrorIs(t, run(db, []string{"ingredient", "egg"}), shared.ErrNotFound)
}

func TestRunRejectsBadInvocations(t *testing.T) {
	db := openTestEngine(t)

	assert.Error(t, run(db, nil))
	assert.Error(t, run(db, []string{"bake"}))
	assert.Error(t, run(db, []string{"add-ingredient", "egg"}))
}
