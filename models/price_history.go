package models

import (
	"time"

	"catering-backend/costing"
)

// PricePoint is one recorded price of a purchased item. PurchasedItemRef holds
// either the internal id or the ERP external id, depending on the importer
// that wrote the row.
type PricePoint struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PurchasedItemRef string    `json:"purchased_item_ref" gorm:"size:64;index"`
	Date             time.Time `json:"date" gorm:"index"`
	CalculatedPrice  string    `json:"calculated_price" gorm:"size:32"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p PricePoint) ToCosting() costing.PricePoint {
	return costing.PricePoint{
		PurchasedItemRef: p.PurchasedItemRef,
		Date:             p.Date,
		CalculatedPrice:  costing.ParseNumber(p.CalculatedPrice),
	}
}
