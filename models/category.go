package models

import (
	"gorm.io/gorm"
)

type Category struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"not null"`
	Description    string          `json:"description"`
	PurchasedItems []PurchasedItem `json:"purchased_items,omitempty" gorm:"foreignKey:CategoryID"`
}

// MigrateCategory creates the categories table if it is missing.
func MigrateCategory(db *gorm.DB) error {
	if db.Migrator().HasTable(&Category{}) {
		return nil
	}
	return db.AutoMigrate(&Category{})
}
