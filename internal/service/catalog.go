package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogService serves the read-only tag and ingredient catalog
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Tags returns every tag ordered by slug
func (s *CatalogService) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, wrapDBError(err, "list tags", "tag", nil)
	}
	return tags, nil
}

// Tag returns a tag by id
func (s *CatalogService) Tag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, wrapDBError(err, "get tag", "tag", id)
	}
	return &tag, nil
}

// Ingredients returns ingredients whose name starts with prefix, ignoring
// case, ordered by name. An empty prefix matches everything.
func (s *CatalogService) Ingredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name").Order("id")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, wrapDBError(err, "list ingredients", "ingredient", nil)
	}
	return ingredients, nil
}

// Ingredient returns an ingredient by id
func (s *CatalogService) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, wrapDBError(err, "get ingredient", "ingredient", id)
	}
	return &ingredient, nil
}

// UpsertTags inserts tags whose slug is not present yet and returns how many
// rows were written.
func (s *CatalogService) UpsertTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&tags)
	if res.Error != nil {
		return 0, wrapDBError(res.Error, "upsert tags", "tag", nil)
	}
	return res.RowsAffected, nil
}

// UpsertIngredients inserts ingredients whose (name, unit) pair is not present
// yet and returns how many rows were written.
func (s *CatalogService) UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	var written int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(ingredients); start += 500 {
			end := start + 500
			if end > len(ingredients) {
				end = len(ingredients)
			}
			batch := ingredients[start:end]
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
				DoNothing: true,
			}).Create(&batch)
			if res.Error != nil {
				return res.Error
			}
			written += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, wrapDBError(err, "upsert ingredients", "ingredient", nil)
	}
	return written, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
