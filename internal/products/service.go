package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

// Service exposes store-scoped inventory management.
type Service interface {
	CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
	GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

// CreateProductInput is the validated payload for a new product.
type CreateProductInput struct {
	Name              string
	Description       string
	PriceCents        int64
	Quantity          int
	Category          string
	SupplierID        *uuid.UUID
	LowStockThreshold *int
}

// UpdateProductInput holds optional mutations; nil fields are untouched.
// The low-stock flag is derived, never set directly.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	PriceCents        *int64
	Quantity          *int
	Category          *string
	SupplierID        *uuid.UUID
	LowStockThreshold *int
}

const defaultLowStockThreshold = 5

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	if err := validateCreate(storeID, input); err != nil {
		return nil, err
	}

	threshold := defaultLowStockThreshold
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}

	product := &models.Product{
		ID:                uuid.New(),
		StoreID:           storeID,
		Name:              strings.TrimSpace(input.Name),
		Description:       strings.TrimSpace(input.Description),
		PriceCents:        input.PriceCents,
		Quantity:          input.Quantity,
		Category:          strings.TrimSpace(input.Category),
		SupplierID:        input.SupplierID,
		LowStockThreshold: threshold,
		IsLowStock:        input.Quantity <= threshold,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	current, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		fields["price_cents"] = *input.PriceCents
	}
	if input.Category != nil {
		fields["category"] = strings.TrimSpace(*input.Category)
	}
	if input.SupplierID != nil {
		fields["supplier_id"] = *input.SupplierID
	}

	quantity := current.Quantity
	threshold := current.LowStockThreshold
	recompute := false
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		quantity = *input.Quantity
		fields["quantity"] = quantity
		recompute = true
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		threshold = *input.LowStockThreshold
		fields["low_stock_threshold"] = threshold
		recompute = true
	}
	if recompute {
		fields["is_low_stock"] = quantity <= threshold
	}

	if len(fields) > 0 {
		ok, err := s.repo.Update(ctx, storeID, productID, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
	}

	updated, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading product")
	}
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, storeID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.List(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

func (s *service) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ListLowStock(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock products")
	}
	return products, nil
}

func validateCreate(storeID uuid.UUID, input CreateProductInput) error {
	switch {
	case storeID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	case strings.TrimSpace(input.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case input.PriceCents < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	case input.Quantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	case input.LowStockThreshold != nil && *input.LowStockThreshold < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}
	return nil
}
