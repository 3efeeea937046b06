package store

import (
	"context"
	"time"

	"catering-backend/costing"
	"catering-backend/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormSource loads raw costing data from the relational database.
type GormSource struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGormSource(db *gorm.DB, log *zap.Logger) *GormSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormSource{db: db, log: log}
}

// Load reads every collection inside one transaction, one query per table,
// so the result is a consistent view. Price points are limited to the end of
// windowEnd's calendar day.
func (s *GormSource) Load(ctx context.Context, windowEnd time.Time) (*costing.RawData, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, loadError("database", errors.Wrap(tx.Error, "begin transaction"))
	}
	// read only: nothing to commit
	defer tx.Rollback()

	var items []models.PurchasedItem
	if err := tx.Preload("Category").Preload("Supplier").Order("id").Find(&items).Error; err != nil {
		return nil, loadError("purchased_items", errors.Wrap(err, "query purchased items"))
	}

	cutoff := endOfDay(windowEnd)
	var points []models.PricePoint
	if err := tx.Where("date < ?", cutoff).Order("id").Find(&points).Error; err != nil {
		return nil, loadError("price_points", errors.Wrapf(err, "query price points before %s", cutoff.Format(time.RFC3339)))
	}

	var ingredients []models.Ingredient
	if err := tx.Order("id").Find(&ingredients).Error; err != nil {
		return nil, loadError("ingredients", errors.Wrap(err, "query ingredients"))
	}

	var elaborations []models.Elaboration
	if err := tx.Order("id").Find(&elaborations).Error; err != nil {
		return nil, loadError("elaborations", errors.Wrap(err, "query elaborations"))
	}

	var components []models.ElaborationComponent
	if err := tx.Order("id").Find(&components).Error; err != nil {
		return nil, loadError("elaboration_components", errors.Wrap(err, "query elaboration components"))
	}

	var recipes []models.Recipe
	if err := tx.Order("id").Find(&recipes).Error; err != nil {
		return nil, loadError("recipes", errors.Wrap(err, "query recipes"))
	}

	data := &costing.RawData{
		Items:        make([]costing.PurchasedItem, 0, len(items)),
		Points:       make([]costing.PricePoint, 0, len(points)),
		Ingredients:  make([]costing.Ingredient, 0, len(ingredients)),
		Elaborations: make([]costing.Elaboration, 0, len(elaborations)),
		Components:   make([]costing.Component, 0, len(components)),
		Recipes:      make([]costing.Recipe, 0, len(recipes)),
	}
	for _, it := range items {
		data.Items = append(data.Items, it.ToCosting())
	}
	for _, p := range points {
		data.Points = append(data.Points, p.ToCosting())
	}
	for _, ing := range ingredients {
		data.Ingredients = append(data.Ingredients, ing.ToCosting())
	}
	for _, e := range elaborations {
		data.Elaborations = append(data.Elaborations, e.ToCosting())
	}
	for _, c := range components {
		data.Components = append(data.Components, c.ToCosting())
	}
	for _, r := range recipes {
		rec, err := r.ToCosting()
		if err != nil {
			s.log.Warn("recipe usages unreadable, treating as empty",
				zap.String("recipe", r.ID), zap.Error(err))
			rec = costing.Recipe{
				ID:                          r.ID,
				Name:                        r.Name,
				Category:                    r.Category,
				ProductionCostMarginPercent: r.ProductionCostMarginPercent,
			}
		}
		data.Recipes = append(data.Recipes, rec)
	}
	return data, nil
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func loadError(op string, err error) error {
	return &costing.DataLoadError{Op: op, Err: err}
}
