package database

import (
	"fmt"
	"time"

	"catering-backend/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured driver. mysql takes a DSN, sqlite a file
// path or ":memory:".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// a second connection to ":memory:" would see an empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// Migrate creates or updates every table the service reads.
func Migrate(db *gorm.DB) error {
	if err := models.MigrateCategory(db); err != nil {
		return fmt.Errorf("migrate categories: %w", err)
	}
	if err := models.MigrateSupplier(db); err != nil {
		return fmt.Errorf("migrate suppliers: %w", err)
	}
	return db.AutoMigrate(
		&models.PurchasedItem{},
		&models.PricePoint{},
		&models.Ingredient{},
		&models.Elaboration{},
		&models.ElaborationComponent{},
		&models.Recipe{},
		&models.User{},
	)
}

// ConnectDatabase opens and migrates the database.
func ConnectDatabase(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", driver))

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate the database: %w", err)
	}
	log.Info("database migrated")
	return db, nil
}
