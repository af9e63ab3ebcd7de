package customers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

type stubSaleHistory struct {
	sales []models.Sale
	err   error
}

func (s *stubSaleHistory) ListByCustomer(_ context.Context, _, _ uuid.UUID) ([]models.Sale, error) {
	return s.sales, s.err
}

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:customers_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
  updated_at DATETIME,
  UNIQUE (store_id, email)
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newCustomersService(t *testing.T, history saleHistory) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCustomersTestDB(t)
	if history == nil {
		history = &stubSaleHistory{}
	}
	return NewService(NewRepository(conn), history), conn
}

func createMember(t *testing.T, svc Service, storeID uuid.UUID, email string) *CustomerDTO {
	t.Helper()
	dto, err := svc.CreateCustomer(context.Background(), storeID, CreateCustomerInput{
		Name:      "Riley Member",
		Email:     email,
		Phone:     "555-0101",
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	return dto
}

func TestCreateCustomerStartsAtBronze(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	dto := createMember(t, svc, uuid.New(), "riley@example.com")

	assert.Equal(t, enums.MembershipBronze, dto.Customer.MembershipLevel)
	assert.EqualValues(t, 0, dto.Customer.LoyaltyPoints)
	assert.EqualValues(t, 5, dto.MembershipDiscountPercent)
	assert.Nil(t, dto.DiscountEligibility)
	assert.EqualValues(t, 100, dto.PointsToNextTier)
}

func TestCreateCustomerDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	storeID := uuid.New()
	createMember(t, svc, storeID, "riley@example.com")

	_, err := svc.CreateCustomer(context.Background(), storeID, CreateCustomerInput{
		Name:      "Other Riley",
		Email:     "riley@example.com",
		Phone:     "555-0102",
		CreatedBy: uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateCustomerSameEmailDifferentStores(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	createMember(t, svc, uuid.New(), "riley@example.com")
	createMember(t, svc, uuid.New(), "riley@example.com")
}

func TestSearchCustomersMatchesNameEmailPhone(t *testing.T) {
	svc, conn := newCustomersService(t, nil)
	ctx := context.Background()
	storeID := uuid.New()

	seed := []models.Customer{
		{ID: uuid.New(), StoreID: storeID, Name: "Alice Smith", Email: "alice@example.com", Phone: "555-1111", CreatedBy: uuid.New()},
		{ID: uuid.New(), StoreID: storeID, Name: "Bob Jones", Email: "bob@shop.io", Phone: "555-2222", CreatedBy: uuid.New()},
		{ID: uuid.New(), StoreID: uuid.New(), Name: "Alice Foreign", Email: "alice@other.com", Phone: "555-3333", CreatedBy: uuid.New()},
	}
	for i := range seed {
		seed[i].MembershipLevel = enums.MembershipBronze
		require.NoError(t, conn.Create(&seed[i]).Error)
	}

	t.Run("by name case-insensitive", func(t *testing.T) {
		found, err := svc.SearchCustomers(ctx, storeID, "alice")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Alice Smith", found[0].Customer.Name)
	})

	t.Run("by email", func(t *testing.T) {
		found, err := svc.SearchCustomers(ctx, storeID, "shop.io")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Bob Jones", found[0].Customer.Name)
	})

	t.Run("by phone", func(t *testing.T) {
		found, err := svc.SearchCustomers(ctx, storeID, "555-2222")
		require.NoError(t, err)
		require.Len(t, found, 1)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.SearchCustomers(ctx, storeID, "  ")
		require.Error(t, err)
	})
}

func TestGrantAndRedeemPoints(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	ctx := context.Background()
	storeID := uuid.New()
	member := createMember(t, svc, storeID, "riley@example.com")

	granted, err := svc.GrantPoints(ctx, storeID, member.Customer.ID, 600)
	require.NoError(t, err)
	assert.EqualValues(t, 600, granted.Customer.LoyaltyPoints)
	require.NotNil(t, granted.DiscountEligibility)
	assert.EqualValues(t, 15, granted.DiscountEligibility.DiscountPercent)
	assert.EqualValues(t, 400, granted.PointsToNextTier)

	redeemed, err := svc.RedeemPoints(ctx, storeID, member.Customer.ID, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 100, redeemed.Customer.LoyaltyPoints)

	_, err = svc.RedeemPoints(ctx, storeID, member.Customer.ID, 500)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientPoints, typed.Code())
}

func TestGrantPointsValidation(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	_, err := svc.GrantPoints(context.Background(), uuid.New(), uuid.New(), 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPurchaseHistoryAggregates(t *testing.T) {
	history := &stubSaleHistory{sales: []models.Sale{
		{ID: uuid.New(), FinalCents: 2375},
		{ID: uuid.New(), FinalCents: 1500},
	}}
	svc, _ := newCustomersService(t, history)
	storeID := uuid.New()
	member := createMember(t, svc, storeID, "riley@example.com")

	result, err := svc.PurchaseHistory(context.Background(), storeID, member.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalPurchases)
	assert.EqualValues(t, 3875, result.TotalSpentCents)
	assert.Len(t, result.Sales, 2)
}

func TestGetCustomerCrossStoreIsNotFound(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	member := createMember(t, svc, uuid.New(), "riley@example.com")

	_, err := svc.GetCustomer(context.Background(), uuid.New(), member.Customer.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateCustomerFields(t *testing.T) {
	svc, _ := newCustomersService(t, nil)
	ctx := context.Background()
	storeID := uuid.New()
	member := createMember(t, svc, storeID, "riley@example.com")

	name := "Riley Updated"
	inactive := false
	updated, err := svc.UpdateCustomer(ctx, storeID, member.Customer.ID, UpdateCustomerInput{
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Riley Updated", updated.Customer.Name)
	assert.False(t, updated.Customer.IsActive)
}
