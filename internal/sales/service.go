package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/internal/loyalty"
	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
	"github.com/angelmondragon/retailpos-backend/pkg/pagination"
)

const (
	defaultCustomerName  = "Walk-in Customer"
	defaultPaymentMethod = "Cash"
)

// Service is the sale transaction engine. Every mutation runs inside a
// single database transaction: a sale either fully lands (stock decremented,
// loyalty applied, audit rows written) or leaves no trace.
type Service interface {
	CreateSale(ctx context.Context, storeID uuid.UUID, input CreateSaleInput) (*CreateSaleResult, error)
	GetSale(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*SaleListResult, error)
	ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID) ([]models.Sale, error)
	DeleteSale(ctx context.Context, storeID, saleID uuid.UUID, opts DeleteSaleOptions) error
}

// CreateSaleInput is the validated payload for one transaction. Each line
// carries the charged unit price from the caller, so negotiated prices and
// overrides land on the sale as charged; the catalog row is only consulted
// for existence, the name snapshot, and stock.
type CreateSaleInput struct {
	EmployeeID      uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	PaymentMethod   string
	DiscountPercent float64
	TaxPercent      float64
	RedeemPoints    int64
	Items           []SaleItemInput
}

// SaleItemInput is one requested line. PriceCents is the unit price as
// charged, not the catalog price.
type SaleItemInput struct {
	ProductID  uuid.UUID
	PriceCents int64
	Quantity   int
}

// LowStockAlert reports a product that crossed its threshold during the sale.
type LowStockAlert struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	Threshold    int       `json:"threshold"`
}

// CreateSaleResult carries the persisted sale plus any threshold crossings.
type CreateSaleResult struct {
	Sale           *models.Sale
	LowStockAlerts []LowStockAlert
}

// SaleListResult is one page of sales, newest first.
type SaleListResult struct {
	Sales      []models.Sale
	NextCursor string
}

// DeleteSaleOptions tunes reversal behavior. ReverseLoyaltyEffects is an
// extension point: reversal currently restores inventory only, and setting
// the flag is rejected as unsupported.
type DeleteSaleOptions struct {
	ReverseLoyaltyEffects bool
}

type service struct {
	db   *db.Client
	repo Repository
}

// NewService wires the engine against the shared DB client.
func NewService(client *db.Client, repo Repository) Service {
	return &service{
		db:   client,
		repo: repo,
	}
}

func (s *service) CreateSale(ctx context.Context, storeID uuid.UUID, input CreateSaleInput) (*CreateSaleResult, error) {
	if err := validateCreateSale(storeID, input); err != nil {
		return nil, err
	}

	var result *CreateSaleResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.createSaleTx(ctx, tx, storeID, input)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) createSaleTx(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, input CreateSaleInput) (*CreateSaleResult, error) {
	repo := s.repo.WithTx(tx)
	now := time.Now().UTC()

	employee, err := repo.FindEmployee(ctx, storeID, input.EmployeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading employee")
	}
	if employee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}

	products, err := s.resolveProducts(ctx, repo, storeID, input.Items)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	if input.CustomerID != nil {
		customer, err = repo.FindCustomer(ctx, storeID, *input.CustomerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
		}
		if customer == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		if input.RedeemPoints > 0 && customer.LoyaltyPoints < input.RedeemPoints {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientPoints, "customer does not have enough loyalty points").
				WithDetails(map[string]any{
					"requested": input.RedeemPoints,
					"available": customer.LoyaltyPoints,
				})
		}
	}

	alerts, err := s.decrementStock(ctx, repo, storeID, input.Items, products)
	if err != nil {
		return nil, err
	}

	amounts := computeAmounts(input)
	if amounts.FinalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redeemed points exceed the amount due")
	}

	var pointsEarned int64
	if customer != nil {
		pointsEarned, err = s.applyLoyalty(ctx, repo, storeID, customer, input.RedeemPoints, amounts.FinalCents, now)
		if err != nil {
			return nil, err
		}
	}

	sale := buildSale(storeID, input, products, customer, amounts, pointsEarned, now)
	if err := repo.InsertSale(ctx, sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting sale")
	}

	return &CreateSaleResult{Sale: sale, LowStockAlerts: alerts}, nil
}

// resolveProducts loads every referenced product and verifies stock before
// any row is touched.
func (s *service) resolveProducts(ctx context.Context, repo Repository, storeID uuid.UUID, items []SaleItemInput) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	rows, err := repo.FindProductsByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}

	products := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		products[row.ID] = row
	}

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if product.Quantity < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id":   product.ID,
					"product_name": product.Name,
					"requested":    item.Quantity,
					"available":    product.Quantity,
				})
		}
	}
	return products, nil
}

func (s *service) decrementStock(ctx context.Context, repo Repository, storeID uuid.UUID, items []SaleItemInput, products map[uuid.UUID]models.Product) ([]LowStockAlert, error) {
	alerts := []LowStockAlert{}
	for _, item := range items {
		product := products[item.ProductID]

		ok, err := repo.DecrementStock(ctx, storeID, item.ProductID, item.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
		}
		// Zero rows means a concurrent sale drained the stock between the
		// read and this update; the transaction rolls back as a whole.
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id":   product.ID,
					"product_name": product.Name,
					"requested":    item.Quantity,
				})
		}

		remaining := product.Quantity - item.Quantity
		if remaining <= product.LowStockThreshold {
			alerts = append(alerts, LowStockAlert{
				ProductID:    product.ID,
				ProductName:  product.Name,
				CurrentStock: remaining,
				Threshold:    product.LowStockThreshold,
			})
		}
	}
	return alerts, nil
}

// applyLoyalty debits redeemed points, then credits spend and earned points.
// The earn multiplier uses the level held BEFORE this sale; the stored level
// is rederived from the post-sale lifetime spend inside the UPDATE itself, so
// concurrent sales against the same customer cannot persist a stale tier.
func (s *service) applyLoyalty(ctx context.Context, repo Repository, storeID uuid.UUID, customer *models.Customer, redeem, finalCents int64, now time.Time) (int64, error) {
	if redeem > 0 {
		ok, err := repo.DebitPoints(ctx, storeID, customer.ID, redeem)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting loyalty points")
		}
		if !ok {
			return 0, pkgerrors.New(pkgerrors.CodeInsufficientPoints, "customer does not have enough loyalty points").
				WithDetails(map[string]any{"requested": redeem})
		}
	}

	earned := loyalty.PointsEarned(finalCents, customer.MembershipLevel)

	err := repo.ApplyCustomerSale(ctx, storeID, customer.ID, CustomerSaleEffects{
		PointsEarned: earned,
		FinalCents:   finalCents,
		PurchasedAt:  now,
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying customer sale effects")
	}
	return earned, nil
}

type saleAmounts struct {
	TotalCents    int64
	DiscountCents int64
	TaxCents      int64
	FinalCents    int64
}

// computeAmounts runs the monetary math in decimal over the charged prices.
// Tax applies to the pre-discount subtotal; redeemed points discount one cent
// per point.
func computeAmounts(input CreateSaleInput) saleAmounts {
	var totalCents int64
	for _, item := range input.Items {
		totalCents += item.PriceCents * int64(item.Quantity)
	}

	total := decimal.NewFromInt(totalCents)
	hundred := decimal.NewFromInt(100)

	percentDiscount := total.
		Mul(decimal.NewFromFloat(input.DiscountPercent)).
		Div(hundred).
		Round(0).
		IntPart()
	tax := total.
		Mul(decimal.NewFromFloat(input.TaxPercent)).
		Div(hundred).
		Round(0).
		IntPart()

	discount := percentDiscount + input.RedeemPoints

	return saleAmounts{
		TotalCents:    totalCents,
		DiscountCents: discount,
		TaxCents:      tax,
		FinalCents:    totalCents - discount + tax,
	}
}

func buildSale(storeID uuid.UUID, input CreateSaleInput, products map[uuid.UUID]models.Product, customer *models.Customer, amounts saleAmounts, pointsEarned int64, now time.Time) *models.Sale {
	saleID := uuid.New()

	items := make([]models.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		product := products[item.ProductID]
		items = append(items, models.SaleItem{
			ID:             uuid.New(),
			SaleID:         saleID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: item.PriceCents,
			Quantity:       item.Quantity,
			SubtotalCents:  item.PriceCents * int64(item.Quantity),
		})
	}

	customerName := input.CustomerName
	var customerID *uuid.UUID
	redeemed := int64(0)
	if customer != nil {
		id := customer.ID
		customerID = &id
		customerName = customer.Name
		redeemed = input.RedeemPoints
	}
	if customerName == "" {
		customerName = defaultCustomerName
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	return &models.Sale{
		ID:                    saleID,
		StoreID:               storeID,
		EmployeeID:            input.EmployeeID,
		CustomerID:            customerID,
		CustomerName:          customerName,
		TotalCents:            amounts.TotalCents,
		DiscountCents:         amounts.DiscountCents,
		TaxCents:              amounts.TaxCents,
		FinalCents:            amounts.FinalCents,
		LoyaltyPointsEarned:   pointsEarned,
		LoyaltyPointsRedeemed: redeemed,
		PaymentMethod:         paymentMethod,
		SaleDate:              now,
		Items:                 items,
	}
}

func validateCreateSale(storeID uuid.UUID, input CreateSaleInput) error {
	switch {
	case storeID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	case input.EmployeeID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	case len(input.Items) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
	case input.DiscountPercent < 0 || input.DiscountPercent > 100:
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	case input.TaxPercent < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "tax percent cannot be negative")
	case input.RedeemPoints < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "redeemed points cannot be negative")
	case input.RedeemPoints > 0 && input.CustomerID == nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "redeeming points requires a customer")
	}

	seen := make(map[uuid.UUID]bool, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.PriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		if seen[item.ProductID] {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in sale items")
		}
		seen[item.ProductID] = true
	}
	return nil
}

func (s *service) GetSale(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindSaleByID(ctx, storeID, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	if sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*SaleListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	sales, err := s.repo.ListSales(ctx, storeID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}

	result := &SaleListResult{Sales: sales}
	if len(sales) > limit {
		result.Sales = sales[:limit]
		last := result.Sales[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID) ([]models.Sale, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	sales, err := s.repo.ListByCustomer(ctx, storeID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customer sales")
	}
	return sales, nil
}

// DeleteSale reverses a sale: stock returns to inventory, the audit rows go
// away. Loyalty effects stay in place; points earned or redeemed on the sale
// are not undone.
func (s *service) DeleteSale(ctx context.Context, storeID, saleID uuid.UUID, opts DeleteSaleOptions) error {
	if opts.ReverseLoyaltyEffects {
		return pkgerrors.New(pkgerrors.CodeValidation, "loyalty reversal is not supported")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sale, err := repo.FindSaleByID(ctx, storeID, saleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
		}
		if sale == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}

		for _, item := range sale.Items {
			// Restore what still exists; a deleted product just means
			// there is no row to credit the stock back to.
			if _, err := repo.RestoreStock(ctx, storeID, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring stock")
			}
		}

		if err := repo.DeleteSale(ctx, storeID, saleID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting sale")
		}
		return nil
	})
}
