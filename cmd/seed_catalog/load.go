package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
)

//go:embed data/*.json
var defaultData embed.FS

type tagRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// readData reads path, or the bundled file of the same kind when path is empty
func readData(path, bundled string) ([]byte, error) {
	if path == "" {
		return defaultData.ReadFile("data/" + bundled)
	}
	return os.ReadFile(path)
}

func parseTags(raw []byte) ([]models.Tag, error) {
	var records []tagRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}

	tags := make([]models.Tag, 0, len(records))
	for i, r := range records {
		name, slug := strings.TrimSpace(r.Name), strings.TrimSpace(r.Slug)
		if name == "" || slug == "" {
			return nil, fmt.Errorf("tag #%d: name and slug are required", i+1)
		}
		tags = append(tags, models.Tag{Name: name, Slug: slug})
	}
	return tags, nil
}

func parseIngredients(raw []byte) ([]models.Ingredient, error) {
	var records []ingredientRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding ingredients: %w", err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for i, r := range records {
		name, unit := strings.TrimSpace(r.Name), strings.TrimSpace(r.MeasurementUnit)
		if name == "" || unit == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}
