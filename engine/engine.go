// Package engine ties the recipe store and the ingredient catalog together
// behind the operations callers use.
package engine

import (
	"sync"

	"github.com/AmrMurad1/recipe-store/config"
	"github.com/AmrMurad1/recipe-store/ingredients"
	"github.com/AmrMurad1/recipe-store/recipes"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	recipes     *recipes.Store
	ingredients *ingredients.Catalog
	cfg         *config.Config
	lock        *sync.Mutex
	logger      logrus.FieldLogger

	// names is the ingredient name list handed to callers, in index order.
	names []string
}

// Open loads the ingredient index first and then scans the recipe
// directory.
func Open(cfg *config.Config, logger logrus.FieldLogger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.Wrap(shared.ErrEmptyObject, "no config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := &Engine{
		cfg:    cfg,
		lock:   &sync.Mutex{},
		logger: logger.WithField("records_dir", cfg.RecordsDir),
	}

	db.logger.Debug("setup data path")

	var err error
	db.ingredients, err = ingredients.OpenCatalog(cfg.IngredientLogPath(), cfg.IngredientIndexPath(), cfg.IndexID, db.logger)
	if err != nil {
		db.logger.WithError(err).Error("setup failed")
		return nil, err
	}
	db.names = db.ingredients.Names()

	db.recipes, err = recipes.Open(cfg.RecordsDir, cfg.RecipeExtension, db.logger)
	if err != nil {
		db.logger.WithError(err).Error("setup failed")
		return nil, err
	}

	db.logger.WithField("recipes", db.recipes.Len()).
		WithField("ingredients", len(db.names)).
		Info("setup done")
	return db, nil
}

// Close releases the engine. Files are opened per call, so nothing is held
// open between operations.
func (db *Engine) Close() error {
	return nil
}

func (db *Engine) CreateRecipe(recipe *shared.Recipe) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.Create(recipe)
}

func (db *Engine) ReadRecipe(name string) (*shared.Recipe, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.Read(shared.Key(name))
}

func (db *Engine) DeleteRecipe(name string) (bool, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.Delete(shared.Key(name))
}

// SearchRecipe returns the file backing name without touching the disk.
func (db *Engine) SearchRecipe(name string) (string, bool) {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.Search(shared.Key(name))
}

// Recipes must be fetched again after any create or delete.
func (db *Engine) Recipes() []*shared.Recipe {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.List()
}

func (db *Engine) RecipeFiles() []string {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.recipes.ListFiles()
}

func (db *Engine) Ingredients() []string {
	db.lock.Lock()
	defer db.lock.Unlock()

	return append([]string(nil), db.names...)
}

func (db *Engine) AddIngredient(name, kind, unit string) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if err := db.ingredients.Append(name, kind, unit); err != nil {
		return err
	}
	db.names = db.ingredients.Names()
	return nil
}

func (db *Engine) AddEncodedIngredient(line string) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if err := db.ingredients.AppendEncoded(line); err != nil {
		return err
	}
	db.names = db.ingredients.Names()
	return nil
}

func (db *Engine) ReadIngredient(name string) (shared.IngredientRecord, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.ingredients.Read(name)
}

func (db *Engine) DeleteIngredient(name string) (bool, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	removed, err := db.ingredients.Remove(name)
	if err != nil {
		return false, err
	}
	if removed {
		db.names = db.ingredients.Names()
	}
	return removed, nil
}
