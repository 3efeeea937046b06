package models

import (
	"time"

	"catering-backend/costing"

	"gorm.io/gorm"
)

type Elaboration struct {
	ID         string                 `json:"id" gorm:"primaryKey;size:64"`
	Name       string                 `json:"name"`
	TotalYield float64                `json:"total_yield"`
	Components []ElaborationComponent `json:"components" gorm:"foreignKey:ElaborationID"`
	UpdatedAt  time.Time              `json:"updated_at"`
	DeletedAt  gorm.DeletedAt         `gorm:"index" json:"-"`
}

// ElaborationComponent is one line of an elaboration's bill of materials. It
// points at an ingredient or, for sub-elaborations, at another elaboration.
type ElaborationComponent struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	ElaborationID string  `json:"elaboration_id" gorm:"size:64;index"`
	Ref           string  `json:"ref" gorm:"size:64"`
	RefKind       string  `json:"ref_kind" gorm:"size:16"`
	NetQuantity   float64 `json:"net_quantity"`
	WastePercent  float64 `json:"waste_percent"`
}

func (e Elaboration) ToCosting() costing.Elaboration {
	return costing.Elaboration{ID: e.ID, Name: e.Name, TotalYield: e.TotalYield}
}

func (c ElaborationComponent) ToCosting() costing.Component {
	kind := costing.KindIngredient
	if k, err := costing.ParseKind(c.RefKind); err == nil {
		kind = k
	}
	return costing.Component{
		ParentElaborationID: c.ElaborationID,
		Ref:                 c.Ref,
		RefKind:             kind,
		NetQuantity:         c.NetQuantity,
		WastePercent:        c.WastePercent,
	}
}
