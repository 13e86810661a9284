package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newCatalog connects to the configured database. The caller must call the
// returned close function.
func newCatalog() (*service.CatalogService, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return service.NewCatalogService(db), closeFn, nil
}

var rootCmd = &cobra.Command{
	Use:   "seed_catalog",
	Short: "Load tags and ingredients into the database",
	Long:  "Load tags and ingredients from JSON files. Rows that already exist are left untouched, so the command can be rerun.",
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Load tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, err := readData(path, "tags.json")
		if err != nil {
			return err
		}
		tags, err := parseTags(raw)
		if err != nil {
			return err
		}

		catalog, closeFn, err := newCatalog()
		if err != nil {
			return err
		}
		defer closeFn()

		added, err := catalog.UpsertTags(cmd.Context(), tags)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d tags (%d new)\n", len(tags), added)
		return nil
	},
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Load ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, err := readData(path, "ingredients.json")
		if err != nil {
			return err
		}
		ingredients, err := parseIngredients(raw)
		if err != nil {
			return err
		}

		catalog, closeFn, err := newCatalog()
		if err != nil {
			return err
		}
		defer closeFn()

		added, err := catalog.UpsertIngredients(cmd.Context(), ingredients)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d ingredients (%d new)\n", len(ingredients), added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().StringP("file", "f", "", "JSON file of {name, slug} objects (default: bundled list)")
	rootCmd.AddCommand(ingredientsCmd)
	ingredientsCmd.Flags().StringP("file", "f", "", "JSON file of {name, measurement_unit} objects (default: bundled list)")
}
