package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Settings holds the tunable domain limits. It is loaded once at startup and
// handed to each component at construction.
type Settings struct {
	Recipe       RecipeLimits `yaml:"recipe"`
	Pagination   Pagination   `yaml:"pagination"`
	ShoppingList PDFLayout    `yaml:"shopping_list"`
	RateLimit    RateLimits   `yaml:"rate_limit"`
	Auth         AuthSettings `yaml:"auth"`
}

// RecipeLimits bounds the numeric and text fields of a recipe
type RecipeLimits struct {
	MinCookingTime int `yaml:"min_cooking_time"`
	MaxCookingTime int `yaml:"max_cooking_time"`
	MinAmount      int `yaml:"min_amount"`
	MaxAmount      int `yaml:"max_amount"`
	NameMaxLength  int `yaml:"name_max_length"`
}

// Pagination controls list endpoints
type Pagination struct {
	PageSize    int `yaml:"page_size"`
	MaxPageSize int `yaml:"max_page_size"`
}

// PDFLayout is the geometry of the shopping list document, in points with
// the origin at the bottom-left corner of the page.
type PDFLayout struct {
	PageWidth     float64 `yaml:"page_width"`
	PageHeight    float64 `yaml:"page_height"`
	TitleX        float64 `yaml:"title_x"`
	TitleY        float64 `yaml:"title_y"`
	TitleFontSize float64 `yaml:"title_font_size"`
	RowX          float64 `yaml:"row_x"`
	RowY          float64 `yaml:"row_y"`
	RowFontSize   float64 `yaml:"row_font_size"`
	LineStep      float64 `yaml:"line_step"`
	BottomMargin  float64 `yaml:"bottom_margin"`
	// FontFile is an optional TTF used for non-Latin ingredient names
	FontFile string `yaml:"font_file"`
}

// RateLimits configures the redis-backed limiters on recipe writes
type RateLimits struct {
	Window          time.Duration `yaml:"window"`
	RecipeCreates   int           `yaml:"recipe_creates"`
	RecipeUpdates   int           `yaml:"recipe_updates"`
	RecipeKeyPrefix string        `yaml:"key_prefix"`
}

// AuthSettings configures token issuance
type AuthSettings struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// DefaultSettings returns the built-in limits
func DefaultSettings() Settings {
	return Settings{
		Recipe: RecipeLimits{
			MinCookingTime: 1,
			MaxCookingTime: 32000,
			MinAmount:      1,
			MaxAmount:      32000,
			NameMaxLength:  256,
		},
		Pagination: Pagination{
			PageSize:    6,
			MaxPageSize: 100,
		},
		ShoppingList: PDFLayout{
			PageWidth:     595.28,
			PageHeight:    841.89,
			TitleX:        50,
			TitleY:        800,
			TitleFontSize: 16,
			RowX:          50,
			RowY:          770,
			RowFontSize:   12,
			LineStep:      20,
			BottomMargin:  50,
		},
		RateLimit: RateLimits{
			Window:          time.Hour,
			RecipeCreates:   20,
			RecipeUpdates:   30,
			RecipeKeyPrefix: "rate_limit:recipe",
		},
		Auth: AuthSettings{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// LoadSettings overlays the YAML file at path on top of DefaultSettings.
// An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return settings, nil
}

// Validate reports inconsistent limits
func (s Settings) Validate() error {
	var errs []error

	r := s.Recipe
	if r.MinCookingTime < 1 || r.MinCookingTime > r.MaxCookingTime {
		errs = append(errs, ValidationError{"recipe.cooking_time", fmt.Sprintf("invalid bounds [%d, %d]", r.MinCookingTime, r.MaxCookingTime)})
	}
	if r.MinAmount < 1 || r.MinAmount > r.MaxAmount {
		errs = append(errs, ValidationError{"recipe.amount", fmt.Sprintf("invalid bounds [%d, %d]", r.MinAmount, r.MaxAmount)})
	}
	if r.NameMaxLength < 1 {
		errs = append(errs, ValidationError{"recipe.name_max_length", "must be positive"})
	}
	if s.Pagination.PageSize < 1 || s.Pagination.PageSize > s.Pagination.MaxPageSize {
		errs = append(errs, ValidationError{"pagination.page_size", "must be between 1 and max_page_size"})
	}

	l := s.ShoppingList
	if l.LineStep <= 0 {
		errs = append(errs, ValidationError{"shopping_list.line_step", "must be positive"})
	}
	if l.BottomMargin >= l.RowY || l.RowY > l.PageHeight || l.TitleY > l.PageHeight {
		errs = append(errs, ValidationError{"shopping_list", "rows must start between the bottom margin and the page top"})
	}

	if s.RateLimit.Window <= 0 {
		errs = append(errs, ValidationError{"rate_limit.window", "must be positive"})
	}
	if s.Auth.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"auth.token_ttl", "must be positive"})
	}

	return errors.Join(errs...)
}
