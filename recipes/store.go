package recipes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AmrMurad1/recipe-store/codec"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store keeps one file per recipe under dir, named <key><ext>. Lists handed
// out by List and ListFiles are snapshots that go stale after the next
// Create or Delete.
type Store struct {
	dir       string
	ext       string
	logger    logrus.FieldLogger
	directory *Directory

	// files holds every <key><ext> regular file seen by the last scan,
	// including ones that failed to decode.
	files map[shared.Key][]string
}

func createPath(dataPath string) error {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return shared.WrapIO(err, "failed to create recipe directory")
	}
	return nil
}

func Open(dir, ext string, logger logrus.FieldLogger) (*Store, error) {
	if ext == "" {
		ext = shared.RecipeExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	s := &Store{
		dir:    dir,
		ext:    ext,
		logger: logger,
	}

	if err := createPath(dir); err != nil {
		return nil, err
	}
	if err := s.populate(); err != nil {
		return nil, err
	}
	return s, nil
}

// populate rebuilds the directory from a scan of s.dir. A file that cannot
// be read or decoded is reported and left out.
func (s *Store) populate() error {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return shared.WrapIO(err, "failed to list recipe directory %q", s.dir)
	}

	directory := newDirectory()
	known := make(map[shared.Key][]string)

	for _, file := range files {
		if !file.Type().IsRegular() || filepath.Ext(file.Name()) != s.ext {
			continue
		}

		key := shared.Key(strings.TrimSuffix(file.Name(), s.ext))
		path := filepath.Join(s.dir, file.Name())
		known[key] = append(known[key], path)

		recipe, err := s.ReadFile(path)
		if err != nil {
			s.logger.WithField("action", "scan_recipes").
				WithField("file", file.Name()).
				WithError(err).
				Warn("skipping unreadable recipe file")
			continue
		}
		if recipe.Key() != key {
			s.logger.WithField("action", "scan_recipes").
				WithField("file", file.Name()).
				WithField("name", recipe.Name).
				Warn("skipping recipe file whose name does not match its contents")
			continue
		}

		directory.insert(Entry{Key: key, Path: path, Recipe: recipe})
	}

	s.directory = directory
	s.files = known

	s.logger.WithField("action", "scan_recipes").
		WithField("recipes", directory.Len()).
		Debug("recipe directory rebuilt")
	return nil
}

func (s *Store) Create(recipe *shared.Recipe) error {
	if recipe == nil {
		return shared.ErrEmptyObject
	}
	if recipe.Name == "" {
		return errors.Wrap(shared.ErrEmptyObject, "recipe has no name")
	}
	if err := validateKey(recipe.Key()); err != nil {
		return err
	}
	if _, ok := s.directory.Get(recipe.Key()); ok {
		return errors.Wrapf(shared.ErrNameAlreadyInUse, "recipe %q", recipe.Name)
	}

	data, err := codec.EncodeRecipe(recipe)
	if err != nil {
		return err
	}

	if err := s.writeFile(s.pathFor(recipe.Key()), data); err != nil {
		return err
	}

	s.logger.WithField("action", "create_recipe").
		WithField("name", recipe.Name).
		Debug("recipe written")
	return s.populate()
}

// writeFile publishes data at finalPath or leaves nothing behind. The
// content goes to a temp file first and is hard linked into place, which
// fails instead of overwriting when finalPath already exists.
func (s *Store) writeFile(finalPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(s.dir, "recipe-*"+shared.TempExtension)
	if err != nil {
		return shared.WrapIO(err, "failed to create temp recipe file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return shared.WrapIO(err, "failed to write recipe data")
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return shared.WrapIO(err, "failed to sync recipe data")
	}
	if err := tmpFile.Close(); err != nil {
		return shared.WrapIO(err, "failed to close temp recipe file")
	}

	if err := os.Link(tmpPath, finalPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.Wrapf(shared.ErrNameAlreadyInUse, "file %s", filepath.Base(finalPath))
		}
		return shared.WrapIO(err, "failed to link recipe file %s", filepath.Base(finalPath))
	}
	return nil
}

func (s *Store) Read(key shared.Key) (*shared.Recipe, error) {
	entry, ok := s.directory.Get(key)
	if !ok {
		return nil, errors.Wrapf(shared.ErrNotFound, "recipe %q", key)
	}
	return s.ReadFile(entry.Path)
}

// ReadFile decodes the recipe stored at path. The extension is checked
// before the file is opened.
func (s *Store) ReadFile(path string) (*shared.Recipe, error) {
	if filepath.Ext(path) != s.ext {
		return nil, errors.Wrapf(shared.ErrBadFileType, "%s must end with %s", filepath.Base(path), s.ext)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(shared.ErrNotFound, "recipe file %s", filepath.Base(path))
	}
	if err != nil {
		return nil, shared.WrapIO(err, "failed to read recipe file %s", filepath.Base(path))
	}

	recipe, err := codec.DecodeRecipe(data)
	if err != nil {
		return nil, errors.Wrapf(err, "recipe file %s", filepath.Base(path))
	}
	return recipe, nil
}

// Delete unlinks every scanned file whose key equals key and rescans the
// directory when anything was removed.
func (s *Store) Delete(key shared.Key) (bool, error) {
	paths := s.files[key]
	if len(paths) == 0 {
		return false, nil
	}

	removed := 0
	var firstErr error
	for _, path := range paths {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			if firstErr == nil {
				firstErr = shared.WrapIO(err, "failed to delete recipe file %s", filepath.Base(path))
			}
			continue
		}
		if err == nil {
			removed++
			s.logger.WithField("action", "delete_recipe").
				WithField("file", filepath.Base(path)).
				Debug("recipe file deleted")
		}
	}

	if err := s.populate(); err != nil {
		return removed > 0, err
	}
	return removed > 0, firstErr
}

// Search looks key up in memory only.
func (s *Store) Search(key shared.Key) (string, bool) {
	entry, ok := s.directory.Get(key)
	if !ok {
		return "", false
	}
	return entry.Path, true
}

func (s *Store) List() []*shared.Recipe {
	entries := s.directory.All()
	recipes := make([]*shared.Recipe, 0, len(entries))
	for _, entry := range entries {
		recipe := *entry.Recipe
		recipe.Ingredients = append([]shared.Ingredient(nil), entry.Recipe.Ingredients...)
		recipe.Instructions = append([]string(nil), entry.Recipe.Instructions...)
		recipes = append(recipes, &recipe)
	}
	return recipes
}

func (s *Store) ListFiles() []string {
	entries := s.directory.All()
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

func (s *Store) Len() int {
	return s.directory.Len()
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) pathFor(key shared.Key) string {
	return filepath.Join(s.dir, string(key)+s.ext)
}

func validateKey(key shared.Key) error {
	name := string(key)
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return errors.Wrapf(shared.ErrInvalidRecord, "recipe name %q cannot be used as a file name", name)
	}
	return nil
}
