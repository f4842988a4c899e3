// Package config loads the storage layout for the recipe store.
//
// Configuration comes from an optional YAML file. Fields left out of the
// file keep their defaults, and relative file names are resolved against
// RecordsDir.
package config

import (
	"os"
	"path/filepath"

	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// RecordsDir holds recipe files, the ingredient log and its index.
	RecordsDir string `yaml:"records_dir"`

	// RecipeExtension is the suffix of recipe files, including the dot.
	RecipeExtension string `yaml:"recipe_extension"`

	IngredientLog   string `yaml:"ingredient_log"`
	IngredientIndex string `yaml:"ingredient_index"`

	// IndexID names a freshly created ingredient index.
	IndexID string `yaml:"index_id"`
}

func Default() *Config {
	return &Config{
		RecordsDir:      "db",
		RecipeExtension: shared.RecipeExtension,
		IngredientLog:   shared.IngredientLogName,
		IngredientIndex: shared.IngredientIndexName,
		IndexID:         shared.DefaultIndexID,
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RecordsDir == "" {
		return errors.New("records_dir must not be empty")
	}
	if c.RecipeExtension == "" || c.RecipeExtension[0] != '.' || c.RecipeExtension == "." {
		return errors.Errorf("recipe_extension %q must start with a dot", c.RecipeExtension)
	}
	if c.RecipeExtension == shared.TempExtension {
		return errors.Errorf("recipe_extension %q is reserved", c.RecipeExtension)
	}
	if c.IngredientLog == "" || c.IngredientIndex == "" {
		return errors.New("ingredient_log and ingredient_index must not be empty")
	}
	if c.IngredientLog == c.IngredientIndex {
		return errors.New("ingredient_log and ingredient_index must differ")
	}
	if filepath.Ext(c.IngredientLog) == c.RecipeExtension || filepath.Ext(c.IngredientIndex) == c.RecipeExtension {
		return errors.Errorf("ingredient files must not use the recipe extension %q", c.RecipeExtension)
	}
	if c.IndexID == "" {
		return errors.New("index_id must not be empty")
	}
	return nil
}

func (c *Config) IngredientLogPath() string {
	return c.resolve(c.IngredientLog)
}

func (c *Config) IngredientIndexPath() string {
	return c.resolve(c.IngredientIndex)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.RecordsDir, name)
}
