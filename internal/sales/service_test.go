package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
	"github.com/angelmondragon/retailpos-backend/pkg/pagination"
)

func setupSalesTestDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:sales_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  role TEXT NOT NULL,
  salary_cents INTEGER NOT NULL DEFAULT 0,
  hire_date DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  address TEXT,
  emergency_contact TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT,
  loyalty_points INTEGER NOT NULL DEFAULT 0,
  total_spent_cents INTEGER NOT NULL DEFAULT 0,
  membership_level TEXT NOT NULL DEFAULT 'Bronze',
  is_active INTEGER NOT NULL DEFAULT 1,
  join_date DATETIME,
  last_purchase_date DATETIME,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  customer_id TEXT,
  customer_name TEXT NOT NULL DEFAULT 'Walk-in Customer',
  total_cents INTEGER NOT NULL,
  discount_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  final_cents INTEGER NOT NULL,
  loyalty_points_earned INTEGER NOT NULL DEFAULT 0,
  loyalty_points_redeemed INTEGER NOT NULL DEFAULT 0,
  payment_method TEXT NOT NULL DEFAULT 'Cash',
  sale_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS sale_items (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal_cents INTEGER NOT NULL
);`}

	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	client, err := db.NewWithConn(conn)
	require.NoError(t, err)
	return client, conn
}

func newSalesService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := setupSalesTestDB(t)
	return NewService(client, NewRepository(conn)), conn
}

func seedEmployee(t *testing.T, conn *gorm.DB, storeID uuid.UUID) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		ID:      uuid.New(),
		StoreID: storeID,
		Name:    "Dana Cashier",
		Email:   "dana@example.com",
		Phone:   "555-0100",
		Role:    enums.EmployeeRoleCashier,
	}
	require.NoError(t, conn.Create(employee).Error)
	return employee
}

func seedProduct(t *testing.T, conn *gorm.DB, storeID uuid.UUID, name string, priceCents int64, qty, threshold int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                uuid.New(),
		StoreID:           storeID,
		Name:              name,
		Description:       name + " description",
		PriceCents:        priceCents,
		Quantity:          qty,
		Category:          "General",
		LowStockThreshold: threshold,
		IsLowStock:        qty <= threshold,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func seedCustomer(t *testing.T, conn *gorm.DB, storeID uuid.UUID, points, spentCents int64, level enums.MembershipLevel) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:              uuid.New(),
		StoreID:         storeID,
		Name:            "Riley Member",
		Email:           fmt.Sprintf("riley+%s@example.com", uuid.NewString()[:8]),
		Phone:           "555-0101",
		LoyaltyPoints:   points,
		TotalSpentCents: spentCents,
		MembershipLevel: level,
		IsActive:        true,
		CreatedBy:       uuid.New(),
	}
	require.NoError(t, conn.Create(customer).Error)
	return customer
}

func reloadProduct(t *testing.T, conn *gorm.DB, id uuid.UUID) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, conn.Where("id = ?", id).First(&product).Error)
	return product
}

func reloadCustomer(t *testing.T, conn *gorm.DB, id uuid.UUID) models.Customer {
	t.Helper()
	var customer models.Customer
	require.NoError(t, conn.Where("id = ?", id).First(&customer).Error)
	return customer
}

func TestCreateSaleComputesAmounts(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Mug", 1250, 50, 5)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID:      employee.ID,
		DiscountPercent: 10,
		TaxPercent:      5,
		Items:           []SaleItemInput{{ProductID: product.ID, PriceCents: 1250, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sale)

	sale := result.Sale
	assert.EqualValues(t, 2500, sale.TotalCents)
	assert.EqualValues(t, 250, sale.DiscountCents)
	// Tax applies to the pre-discount subtotal.
	assert.EqualValues(t, 125, sale.TaxCents)
	assert.EqualValues(t, 2375, sale.FinalCents)
	assert.Equal(t, "Walk-in Customer", sale.CustomerName)
	assert.Equal(t, "Cash", sale.PaymentMethod)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Mug", sale.Items[0].ProductName)
	assert.EqualValues(t, 1250, sale.Items[0].UnitPriceCents)
	assert.EqualValues(t, 2500, sale.Items[0].SubtotalCents)

	assert.Equal(t, 48, reloadProduct(t, conn, product.ID).Quantity)
	assert.Empty(t, result.LowStockAlerts)
}

func TestCreateSaleUpgradesTierWithPreUpgradeMultiplier(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Espresso Machine", 30_000, 10, 2)
	customer := seedCustomer(t, conn, storeID, 0, 180_000, enums.MembershipBronze)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		CustomerID: &customer.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 30_000, Quantity: 1}},
	})
	require.NoError(t, err)

	// $300 at the Bronze multiplier earns 300 points even though the sale
	// pushes lifetime spend over the Silver threshold.
	assert.EqualValues(t, 300, result.Sale.LoyaltyPointsEarned)

	updated := reloadCustomer(t, conn, customer.ID)
	assert.Equal(t, enums.MembershipSilver, updated.MembershipLevel)
	assert.EqualValues(t, 210_000, updated.TotalSpentCents)
	assert.EqualValues(t, 300, updated.LoyaltyPoints)
	assert.NotNil(t, updated.LastPurchaseDate)
	assert.Equal(t, customer.Name, result.Sale.CustomerName)
}

func TestCreateSaleRedeemsPoints(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Notebook", 1000, 20, 3)
	customer := seedCustomer(t, conn, storeID, 500, 0, enums.MembershipBronze)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID:   employee.ID,
		CustomerID:   &customer.ID,
		RedeemPoints: 300,
		Items:        []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 2}},
	})
	require.NoError(t, err)

	sale := result.Sale
	assert.EqualValues(t, 2000, sale.TotalCents)
	assert.EqualValues(t, 300, sale.DiscountCents)
	assert.EqualValues(t, 1700, sale.FinalCents)
	assert.EqualValues(t, 300, sale.LoyaltyPointsRedeemed)
	assert.EqualValues(t, 17, sale.LoyaltyPointsEarned)

	updated := reloadCustomer(t, conn, customer.ID)
	assert.EqualValues(t, 500-300+17, updated.LoyaltyPoints)
	assert.EqualValues(t, 1700, updated.TotalSpentCents)
}

func TestCreateSaleInsufficientPointsLeavesStockAlone(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Notebook", 1000, 20, 3)
	customer := seedCustomer(t, conn, storeID, 100, 0, enums.MembershipBronze)

	_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID:   employee.ID,
		CustomerID:   &customer.ID,
		RedeemPoints: 300,
		Items:        []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 2}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientPoints, typed.Code())

	assert.Equal(t, 20, reloadProduct(t, conn, product.ID).Quantity)
	assert.EqualValues(t, 100, reloadCustomer(t, conn, customer.ID).LoyaltyPoints)
}

func TestCreateSaleMultiItemShortageMutatesNothing(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	plenty := seedProduct(t, conn, storeID, "Pens", 200, 100, 5)
	scarce := seedProduct(t, conn, storeID, "Limited Print", 5000, 1, 1)

	_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items: []SaleItemInput{
			{ProductID: plenty.ID, PriceCents: 200, Quantity: 10},
			{ProductID: scarce.ID, PriceCents: 5000, Quantity: 3},
		},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	assert.Equal(t, 100, reloadProduct(t, conn, plenty.ID).Quantity)
	assert.Equal(t, 1, reloadProduct(t, conn, scarce.ID).Quantity)

	var count int64
	require.NoError(t, conn.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSaleEmitsLowStockAlert(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Filter Pack", 800, 6, 5)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 800, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, result.LowStockAlerts, 1)
	alert := result.LowStockAlerts[0]
	assert.Equal(t, product.ID, alert.ProductID)
	assert.Equal(t, "Filter Pack", alert.ProductName)
	assert.Equal(t, 4, alert.CurrentStock)
	assert.Equal(t, 5, alert.Threshold)

	updated := reloadProduct(t, conn, product.ID)
	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, updated.IsLowStock)
}

func TestCreateSaleUnknownProductIsNotFound(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)

	_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: uuid.New(), PriceCents: 1000, Quantity: 1}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateSaleCrossStoreProductIsNotFound(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	otherStore := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	foreign := seedProduct(t, conn, otherStore, "Foreign", 1000, 10, 2)

	_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: foreign.ID, PriceCents: 1000, Quantity: 1}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateSaleValidation(t *testing.T) {
	svc, _ := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employeeID := uuid.New()

	cases := []struct {
		name  string
		input CreateSaleInput
	}{
		{"no items", CreateSaleInput{EmployeeID: employeeID}},
		{"zero quantity", CreateSaleInput{
			EmployeeID: employeeID,
			Items:      []SaleItemInput{{ProductID: uuid.New(), Quantity: 0}},
		}},
		{"discount above 100", CreateSaleInput{
			EmployeeID:      employeeID,
			DiscountPercent: 150,
			Items:           []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		}},
		{"negative tax", CreateSaleInput{
			EmployeeID: employeeID,
			TaxPercent: -1,
			Items:      []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		}},
		{"redeem without customer", CreateSaleInput{
			EmployeeID:   employeeID,
			RedeemPoints: 50,
			Items:        []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		}},
		{"missing employee", CreateSaleInput{
			Items: []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		}},
		{"negative price", CreateSaleInput{
			EmployeeID: employeeID,
			Items:      []SaleItemInput{{ProductID: uuid.New(), PriceCents: -1, Quantity: 1}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSale(ctx, storeID, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestDeleteSaleRestoresStockButNotLoyalty(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Mug", 1000, 10, 2)
	customer := seedCustomer(t, conn, storeID, 0, 0, enums.MembershipBronze)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		CustomerID: &customer.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, reloadProduct(t, conn, product.ID).Quantity)
	earned := result.Sale.LoyaltyPointsEarned
	require.Positive(t, earned)

	require.NoError(t, svc.DeleteSale(ctx, storeID, result.Sale.ID, DeleteSaleOptions{}))

	assert.Equal(t, 10, reloadProduct(t, conn, product.ID).Quantity)

	updated := reloadCustomer(t, conn, customer.ID)
	assert.EqualValues(t, earned, updated.LoyaltyPoints)
	assert.EqualValues(t, result.Sale.FinalCents, updated.TotalSpentCents)

	_, err = svc.GetSale(ctx, storeID, result.Sale.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var items int64
	require.NoError(t, conn.Model(&models.SaleItem{}).Where("sale_id = ?", result.Sale.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestDeleteSaleSkipsDeletedProducts(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	keep := seedProduct(t, conn, storeID, "Keeper", 1000, 10, 2)
	gone := seedProduct(t, conn, storeID, "Discontinued", 500, 10, 2)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items: []SaleItemInput{
			{ProductID: keep.ID, PriceCents: 1000, Quantity: 2},
			{ProductID: gone.ID, PriceCents: 500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, conn.Where("id = ?", gone.ID).Delete(&models.Product{}).Error)

	require.NoError(t, svc.DeleteSale(ctx, storeID, result.Sale.ID, DeleteSaleOptions{}))
	assert.Equal(t, 10, reloadProduct(t, conn, keep.ID).Quantity)
}

func TestDeleteSaleRejectsLoyaltyReversal(t *testing.T) {
	svc, _ := newSalesService(t)
	err := svc.DeleteSale(context.Background(), uuid.New(), uuid.New(), DeleteSaleOptions{ReverseLoyaltyEffects: true})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteSaleCrossStoreIsNotFound(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Mug", 1000, 10, 2)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.DeleteSale(ctx, uuid.New(), result.Sale.ID, DeleteSaleOptions{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// The sale survives and stock stays decremented.
	assert.Equal(t, 9, reloadProduct(t, conn, product.ID).Quantity)
}

func TestListSalesPaginatesNewestFirst(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		sale := &models.Sale{
			ID:           uuid.New(),
			StoreID:      storeID,
			EmployeeID:   employee.ID,
			CustomerName: "Walk-in Customer",
			TotalCents:   int64(1000 + i),
			FinalCents:   int64(1000 + i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, conn.Create(sale).Error)
	}

	page1, err := svc.ListSales(ctx, storeID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1.Sales, 2)
	require.NotEmpty(t, page1.NextCursor)
	assert.EqualValues(t, 1004, page1.Sales[0].TotalCents)
	assert.EqualValues(t, 1003, page1.Sales[1].TotalCents)

	page2, err := svc.ListSales(ctx, storeID, pagination.Params{Limit: 2, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Sales, 2)
	assert.EqualValues(t, 1002, page2.Sales[0].TotalCents)
	assert.EqualValues(t, 1001, page2.Sales[1].TotalCents)

	page3, err := svc.ListSales(ctx, storeID, pagination.Params{Limit: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	require.Len(t, page3.Sales, 1)
	assert.Empty(t, page3.NextCursor)
}

func TestListByCustomerReturnsHistory(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Mug", 1000, 50, 2)
	customer := seedCustomer(t, conn, storeID, 0, 0, enums.MembershipBronze)

	for i := 0; i < 2; i++ {
		_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
			EmployeeID: employee.ID,
			CustomerID: &customer.ID,
			Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 1}},
	})
	require.NoError(t, err)

	history, err := svc.ListByCustomer(ctx, storeID, customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, sale := range history {
		require.NotNil(t, sale.CustomerID)
		assert.Equal(t, customer.ID, *sale.CustomerID)
		assert.Len(t, sale.Items, 1)
	}
}

func TestCreateSaleChargesNegotiatedPrices(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	widget := seedProduct(t, conn, storeID, "Widget", 1200, 20, 3)
	gadget := seedProduct(t, conn, storeID, "Gadget", 700, 20, 3)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items: []SaleItemInput{
			{ProductID: widget.ID, PriceCents: 1000, Quantity: 2},
			{ProductID: gadget.ID, PriceCents: 500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// The charged price wins over the catalog price, on the totals and on
	// the line snapshots.
	sale := result.Sale
	assert.EqualValues(t, 2500, sale.TotalCents)
	assert.EqualValues(t, 2500, sale.FinalCents)

	require.Len(t, sale.Items, 2)
	byProduct := map[uuid.UUID]models.SaleItem{}
	for _, item := range sale.Items {
		byProduct[item.ProductID] = item
	}
	assert.EqualValues(t, 1000, byProduct[widget.ID].UnitPriceCents)
	assert.EqualValues(t, 2000, byProduct[widget.ID].SubtotalCents)
	assert.EqualValues(t, 500, byProduct[gadget.ID].UnitPriceCents)
	assert.EqualValues(t, 500, byProduct[gadget.ID].SubtotalCents)

	// Catalog prices stay untouched and stock still moves.
	assert.EqualValues(t, 1200, reloadProduct(t, conn, widget.ID).PriceCents)
	assert.Equal(t, 18, reloadProduct(t, conn, widget.ID).Quantity)
	assert.Equal(t, 19, reloadProduct(t, conn, gadget.ID).Quantity)
}

func TestApplyCustomerSaleDerivesLevelFromStoredSpend(t *testing.T) {
	_, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	customer := seedCustomer(t, conn, storeID, 0, 440_000, enums.MembershipSilver)
	repo := NewRepository(conn)

	// Two sales that each read the customer before the other committed. The
	// level must rank the spend the row actually holds, not either snapshot.
	now := time.Now().UTC()
	require.NoError(t, repo.ApplyCustomerSale(ctx, storeID, customer.ID, CustomerSaleEffects{
		PointsEarned: 300, FinalCents: 30_000, PurchasedAt: now,
	}))
	require.NoError(t, repo.ApplyCustomerSale(ctx, storeID, customer.ID, CustomerSaleEffects{
		PointsEarned: 400, FinalCents: 40_000, PurchasedAt: now,
	}))

	updated := reloadCustomer(t, conn, customer.ID)
	assert.EqualValues(t, 510_000, updated.TotalSpentCents)
	assert.Equal(t, enums.MembershipGold, updated.MembershipLevel)
	assert.EqualValues(t, 700, updated.LoyaltyPoints)
}

func TestDeleteSaleWrongStoreLeavesItemRows(t *testing.T) {
	svc, conn := newSalesService(t)
	ctx := context.Background()
	storeID := uuid.New()
	employee := seedEmployee(t, conn, storeID)
	product := seedProduct(t, conn, storeID, "Mug", 1000, 10, 2)

	result, err := svc.CreateSale(ctx, storeID, CreateSaleInput{
		EmployeeID: employee.ID,
		Items:      []SaleItemInput{{ProductID: product.ID, PriceCents: 1000, Quantity: 2}},
	})
	require.NoError(t, err)

	repo := NewRepository(conn)
	require.NoError(t, repo.DeleteSale(ctx, uuid.New(), result.Sale.ID))

	var items int64
	require.NoError(t, conn.Model(&models.SaleItem{}).Where("sale_id = ?", result.Sale.ID).Count(&items).Error)
	assert.EqualValues(t, 1, items)

	var sales int64
	require.NoError(t, conn.Model(&models.Sale{}).Where("id = ?", result.Sale.ID).Count(&sales).Error)
	assert.EqualValues(t, 1, sales)
}
