package models

import (
	"time"

	"gorm.io/gorm"
)

type Supplier struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Contact   string         `json:"contact"`
	Email     string         `json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func MigrateSupplier(db *gorm.DB) error {
	if db.Migrator().HasTable(&Supplier{}) {
		return nil
	}
	return db.AutoMigrate(&Supplier{})
}
