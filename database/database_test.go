package database

import (
	"testing"

	"catering-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectDatabase_SQLiteMemory(t *testing.T) {
	db, err := ConnectDatabase("sqlite", ":memory:", zap.NewNop())
	require.NoError(t, err)

	for _, table := range []any{
		&models.PurchasedItem{}, &models.PricePoint{}, &models.Ingredient{},
		&models.Elaboration{}, &models.ElaborationComponent{}, &models.Recipe{},
		&models.Category{}, &models.Supplier{}, &models.User{},
	} {
		assert.True(t, db.Migrator().HasTable(table), "%T", table)
	}

	require.NoError(t, Migrate(db), "migrating twice is harmless")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.Error(t, err)
}
