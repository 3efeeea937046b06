package models

import (
	"time"

	"catering-backend/costing"

	"gorm.io/gorm"
)

type Ingredient struct {
	ID                string         `json:"id" gorm:"primaryKey;size:64"`
	Name              string         `json:"name"`
	Unit              string         `json:"unit"`
	PurchasedItemLink *string        `json:"purchased_item_link" gorm:"size:64"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i Ingredient) ToCosting() costing.Ingredient {
	ing := costing.Ingredient{ID: i.ID, Name: i.Name}
	if i.PurchasedItemLink != nil {
		ing.PurchasedItemLink = *i.PurchasedItemLink
	}
	return ing
}
