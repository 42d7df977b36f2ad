package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:ledger_repo_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SparePart{}, &models.StockIn{}, &models.StockOut{}))
	return conn
}

func TestDecreaseQuantityGuard(t *testing.T) {
	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := seedPart(t, conn, "OilFilter", 5, "8.00")

	applied, err := repo.DecreaseQuantity(ctx, part.ID, 3)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 2, partQuantity(t, conn, part.ID))

	// More than remains: the guarded update must not touch the row.
	applied, err = repo.DecreaseQuantity(ctx, part.ID, 4)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 2, partQuantity(t, conn, part.ID))

	// Down to exactly zero is allowed.
	applied, err = repo.DecreaseQuantity(ctx, part.ID, 2)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 0, partQuantity(t, conn, part.ID))
}

func TestIncreaseQuantity(t *testing.T) {
	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := seedPart(t, conn, "SparkPlug", 1, "4.50")

	require.NoError(t, repo.IncreaseQuantity(ctx, part.ID, 6))
	assert.Equal(t, 7, partQuantity(t, conn, part.ID))

	// Non-positive amounts are a no-op.
	require.NoError(t, repo.IncreaseQuantity(ctx, part.ID, 0))
	assert.Equal(t, 7, partQuantity(t, conn, part.ID))
}

func TestListStockOutsPreloadsPart(t *testing.T) {
	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := seedPart(t, conn, "Wiper", 10, "6.00")

	older := &models.StockOut{
		ID:          uuid.New(),
		SparePartID: part.ID,
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("6.00"),
		TotalPrice:  decimal.RequireFromString("12.00"),
		Date:        time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
	newer := &models.StockOut{
		ID:          uuid.New(),
		SparePartID: part.ID,
		Quantity:    1,
		UnitPrice:   decimal.RequireFromString("6.00"),
		TotalPrice:  decimal.RequireFromString("6.00"),
		Date:        time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateStockOut(ctx, older))
	require.NoError(t, repo.CreateStockOut(ctx, newer))

	entries, err := repo.ListStockOuts(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, "Wiper", entries[0].SparePart.Name)
}

func TestDeleteStockOutReportsMissingRow(t *testing.T) {
	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := seedPart(t, conn, "Gasket", 8, "3.00")

	entry := &models.StockOut{
		ID:          uuid.New(),
		SparePartID: part.ID,
		Quantity:    3,
		UnitPrice:   decimal.RequireFromString("3.00"),
		TotalPrice:  decimal.RequireFromString("9.00"),
		Date:        time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateStockOut(ctx, entry))

	// Two actors load the same entry before either deletes it.
	first, err := repo.FindStockOutForUpdate(ctx, entry.ID)
	require.NoError(t, err)
	second, err := repo.FindStockOutForUpdate(ctx, entry.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteStockOut(ctx, first.ID))
	// The late actor must see the row gone rather than succeed silently.
	assert.ErrorIs(t, repo.DeleteStockOut(ctx, second.ID), gorm.ErrRecordNotFound)
}

func TestWithTxBindsTransaction(t *testing.T) {
	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := seedPart(t, conn, "Belt", 4, "9.00")

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	applied, err := repo.WithTx(tx).DecreaseQuantity(ctx, part.ID, 4)
	require.NoError(t, err)
	assert.True(t, applied)
	require.NoError(t, tx.Rollback().Error)

	// Rolled back, so the base connection still sees the original count.
	assert.Equal(t, 4, partQuantity(t, conn, part.ID))
}
