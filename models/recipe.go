package models

import (
	"time"

	"catering-backend/costing"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recipe struct {
	ID                          string         `json:"id" gorm:"primaryKey;size:64"`
	Name                        string         `json:"name"`
	Category                    string         `json:"category"`
	ProductionCostMarginPercent float64        `json:"production_cost_margin_percent"`
	ElaborationUsages           datatypes.JSON `json:"elaboration_usages"`
	UpdatedAt                   time.Time      `json:"updated_at"`
	DeletedAt                   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ToCosting decodes the usage column. Rows written by older importers keep
// usages in several legacy shapes; see costing.DecodeUsages.
func (r Recipe) ToCosting() (costing.Recipe, error) {
	usages, err := costing.DecodeUsages([]byte(r.ElaborationUsages))
	if err != nil {
		return costing.Recipe{}, err
	}
	return costing.Recipe{
		ID:                          r.ID,
		Name:                        r.Name,
		Category:                    r.Category,
		ProductionCostMarginPercent: r.ProductionCostMarginPercent,
		Usages:                      usages,
	}, nil
}
