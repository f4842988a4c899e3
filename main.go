package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AmrMurad1/recipe-store/config"
	"github.com/AmrMurad1/recipe-store/engine"
	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const usage = `usage: recipestore [flags] <command> [args]

commands:
  recipes                              list stored recipes
  recipe <name>                        show one recipe
  add-recipe <file.yaml>               store a recipe described in YAML
  rm-recipe <name>                     delete a recipe
  ingredients                          list ingredient names
  ingredient <name>                    show one ingredient
  add-ingredient <name> <type> <unit>  append an ingredient
  rm-ingredient <name>                 delete an ingredient

flags:
`

func main() {
	var (
		configPath string
		recordsDir string
		verbose    bool
	)

	flags := flag.NewFlagSet("recipestore", flag.ContinueOnError)
	flags.StringVar(&configPath, "config", os.Getenv("RECIPESTORE_CONFIG"), "path to a YAML config file")
	flags.StringVar(&recordsDir, "dir", "", "records directory (overrides the config file)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	if recordsDir != "" {
		cfg.RecordsDir = recordsDir
	}

	db, err := engine.Open(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open store")
	}
	defer db.Close()

	if err := run(db, flags.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		db.Close()
		os.Exit(1)
	}
}

func run(db *engine.Engine, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	command, args := args[0], args[1:]
	switch command {
	case "recipes":
		for _, recipe := range db.Recipes() {
			fmt.Printf("%s\t%d min\n", recipe.Name, recipe.TotalTime())
		}

	case "recipe":
		if err := expectArgs(command, args, 1); err != nil {
			return err
		}
		recipe, err := db.ReadRecipe(args[0])
		if err != nil {
			return err
		}
		printRecipe(recipe)

	case "add-recipe":
		if err := expectArgs(command, args, 1); err != nil {
			return err
		}
		recipe, err := loadRecipe(args[0])
		if err != nil {
			return err
		}
		if err := db.CreateRecipe(recipe); err != nil {
			return err
		}
		fmt.Printf("stored %s\n", recipe.Name)

	case "rm-recipe":
		if err := expectArgs(command, args, 1); err != nil {
			return err
		}
		removed, err := db.DeleteRecipe(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return errors.Wrapf(shared.ErrNotFound, "recipe %q", args[0])
		}

	case "ingredients":
		for _, name := range db.Ingredients() {
			fmt.Println(name)
		}

	case "ingredient":
		if err := expectArgs(command, args, 1); err != nil {
			return err
		}
		record, err := db.ReadIngredient(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", record.Name, record.Type, record.Unit)

	case "add-ingredient":
		if err := expectArgs(command, args, 3); err != nil {
			return err
		}
		return db.AddIngredient(args[0], args[1], args[2])

	case "rm-ingredient":
		if err := expectArgs(command, args, 1); err != nil {
			return err
		}
		removed, err := db.DeleteIngredient(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return errors.Wrapf(shared.ErrNotFound, "ingredient %q", args[0])
		}

	default:
		return errors.Errorf("unknown command %q", command)
	}
	return nil
}

func expectArgs(command string, args []string, n int) error {
	if len(args) != n {
		return errors.Errorf("%s takes %d argument(s), got %d", command, n, len(args))
	}
	return nil
}

func loadRecipe(path string) (*shared.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read recipe %q", path)
	}

	var recipe shared.Recipe
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, errors.Wrapf(err, "parse recipe %q", path)
	}
	return &recipe, nil
}

func printRecipe(recipe *shared.Recipe) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recipe Name: %s\n", recipe.Name)
	fmt.Fprintf(&sb, "Description: %s\n", recipe.Description)
	sb.WriteString("Ingredients:\n")
	for _, ingredient := range recipe.Ingredients {
		fmt.Fprintf(&sb, "  %d %s %s (%s)\n", ingredient.Quantity, ingredient.Unit, ingredient.Name, ingredient.Type)
	}
	sb.WriteString("Instructions:\n")
	for i, step := range recipe.Instructions {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
	}
	fmt.Fprintf(&sb, "Prep Time: %d minutes\n", recipe.PrepTime)
	fmt.Fprintf(&sb, "Cook Time: %d minutes\n", recipe.CookTime)
	fmt.Fprintf(&sb, "Total Time: %d minutes\n", recipe.TotalTime())
	fmt.Print(sb.String())
}
