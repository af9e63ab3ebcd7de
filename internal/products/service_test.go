package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  category TEXT NOT NULL,
  supplier_id TEXT,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  is_low_stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newProductsService(t *testing.T) Service {
	t.Helper()
	return NewService(NewRepository(setupProductsTestDB(t)))
}

func TestCreateProductDerivesLowStockFlag(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("above threshold", func(t *testing.T) {
		product, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
			Name:       "Beans",
			PriceCents: 1500,
			Quantity:   20,
			Category:   "Coffee",
		})
		require.NoError(t, err)
		assert.False(t, product.IsLowStock)
		assert.Equal(t, 5, product.LowStockThreshold)
	})

	t.Run("at threshold", func(t *testing.T) {
		threshold := 10
		product, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
			Name:              "Grinder",
			PriceCents:        9000,
			Quantity:          10,
			Category:          "Gear",
			LowStockThreshold: &threshold,
		})
		require.NoError(t, err)
		assert.True(t, product.IsLowStock)
	})
}

func TestCreateProductValidation(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{PriceCents: 100, Quantity: 1}},
		{"negative price", CreateProductInput{Name: "X", PriceCents: -1}},
		{"negative quantity", CreateProductInput{Name: "X", PriceCents: 100, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, storeID, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateProductRecomputesLowStock(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
		Name:       "Beans",
		PriceCents: 1500,
		Quantity:   20,
		Category:   "Coffee",
	})
	require.NoError(t, err)
	require.False(t, product.IsLowStock)

	t.Run("quantity drop flips the flag", func(t *testing.T) {
		qty := 3
		updated, err := svc.UpdateProduct(ctx, storeID, product.ID, UpdateProductInput{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Quantity)
		assert.True(t, updated.IsLowStock)
	})

	t.Run("threshold change flips it back", func(t *testing.T) {
		threshold := 1
		updated, err := svc.UpdateProduct(ctx, storeID, product.ID, UpdateProductInput{LowStockThreshold: &threshold})
		require.NoError(t, err)
		assert.False(t, updated.IsLowStock)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		qty := -2
		_, err := svc.UpdateProduct(ctx, storeID, product.ID, UpdateProductInput{Quantity: &qty})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestUpdateProductCrossStoreIsNotFound(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
		Name:       "Beans",
		PriceCents: 1500,
		Quantity:   20,
	})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.UpdateProduct(ctx, uuid.New(), product.ID, UpdateProductInput{Name: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListLowStockOrdersByQuantity(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	for _, p := range []struct {
		name string
		qty  int
	}{
		{"Nearly Out", 1},
		{"Healthy", 50},
		{"Low", 4},
	} {
		_, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
			Name:       p.name,
			PriceCents: 100,
			Quantity:   p.qty,
		})
		require.NoError(t, err)
	}

	low, err := svc.ListLowStock(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Nearly Out", low[0].Name)
	assert.Equal(t, "Low", low[1].Name)
}

func TestDeleteProduct(t *testing.T) {
	svc := newProductsService(t)
	ctx := context.Background()
	storeID := uuid.New()

	product, err := svc.CreateProduct(ctx, storeID, CreateProductInput{
		Name:       "Beans",
		PriceCents: 1500,
		Quantity:   20,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, storeID, product.ID))

	err = svc.DeleteProduct(ctx, storeID, product.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
