package models

import (
	"time"

	"catering-backend/costing"

	"gorm.io/gorm"
)

// PurchasedItem is a raw good bought from a supplier. Prices arrive from the
// ERP import as entered, so they are kept as text and normalized on read.
type PurchasedItem struct {
	ID           string         `json:"id" gorm:"primaryKey;size:64"`
	ExternalID   string         `json:"external_id" gorm:"size:64;index"`
	Name         string         `json:"name"`
	CurrentPrice string         `json:"current_price" gorm:"size:32"`
	Unit         string         `json:"unit"`
	CategoryID   *uint          `json:"category_id"`
	Category     *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SupplierID   *uint          `json:"supplier_id"`
	Supplier     *Supplier      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p PurchasedItem) ToCosting() costing.PurchasedItem {
	item := costing.PurchasedItem{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		CurrentPrice: costing.ParseNumber(p.CurrentPrice),
	}
	if p.Category != nil {
		item.Category = p.Category.Name
	}
	if p.Supplier != nil {
		item.SupplierName = p.Supplier.Name
	}
	return item
}
