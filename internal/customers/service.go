package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/internal/loyalty"
	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

// Service manages the loyalty member directory. Loyalty balances move here
// only through the manual grant/redeem endpoints; sales apply their own
// effects inside the engine transaction.
type Service interface {
	CreateCustomer(ctx context.Context, storeID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, storeID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, storeID, customerID uuid.UUID) error
	GetCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, storeID uuid.UUID) ([]CustomerDTO, error)
	SearchCustomers(ctx context.Context, storeID uuid.UUID, query string) ([]CustomerDTO, error)
	PurchaseHistory(ctx context.Context, storeID, customerID uuid.UUID) (*PurchaseHistoryResult, error)
	GrantPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (*CustomerDTO, error)
	RedeemPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (*CustomerDTO, error)
}

// CreateCustomerInput is the validated payload for a new member.
type CreateCustomerInput struct {
	Name      string
	Email     string
	Phone     string
	Address   *string
	CreatedBy uuid.UUID
}

// UpdateCustomerInput holds optional mutations; loyalty fields are derived
// and cannot be written here.
type UpdateCustomerInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	IsActive *bool
}

// CustomerDTO is the customer row plus advisory loyalty guidance.
type CustomerDTO struct {
	Customer                  models.Customer       `json:"customer"`
	MembershipDiscountPercent int64                 `json:"membership_discount_percent"`
	DiscountEligibility       *loyalty.DiscountTier `json:"discount_eligibility,omitempty"`
	PointsToNextTier          int64                 `json:"points_to_next_tier"`
}

// PurchaseHistoryResult bundles a member with their sales and aggregates.
type PurchaseHistoryResult struct {
	Customer        CustomerDTO   `json:"customer"`
	Sales           []models.Sale `json:"sales"`
	TotalPurchases  int           `json:"total_purchases"`
	TotalSpentCents int64         `json:"total_spent_cents"`
}

// saleHistory is the slice of the sale engine this package reads from.
type saleHistory interface {
	ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID) ([]models.Sale, error)
}

type service struct {
	repo  Repository
	sales saleHistory
}

func NewService(repo Repository, sales saleHistory) Service {
	return &service{
		repo:  repo,
		sales: sales,
	}
}

func (s *service) CreateCustomer(ctx context.Context, storeID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error) {
	if err := validateCreate(storeID, input); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:              uuid.New(),
		StoreID:         storeID,
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           strings.TrimSpace(input.Phone),
		Address:         input.Address,
		MembershipLevel: loyalty.LevelForSpend(0),
		IsActive:        true,
		JoinDate:        time.Now().UTC(),
		CreatedBy:       input.CreatedBy,
	}

	if err := s.repo.Insert(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting customer")
	}
	return s.toDTO(customer), nil
}

func (s *service) UpdateCustomer(ctx context.Context, storeID, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email cannot be empty")
		}
		fields["email"] = email
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	if len(fields) > 0 {
		ok, err := s.repo.Update(ctx, storeID, customerID, fields)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
	}

	return s.GetCustomer(ctx, storeID, customerID)
}

func (s *service) DeleteCustomer(ctx context.Context, storeID, customerID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, storeID, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting customer")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.toDTO(customer), nil
}

func (s *service) ListCustomers(ctx context.Context, storeID uuid.UUID) ([]CustomerDTO, error) {
	customers, err := s.repo.List(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return s.toDTOs(customers), nil
}

func (s *service) SearchCustomers(ctx context.Context, storeID uuid.UUID, query string) ([]CustomerDTO, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	customers, err := s.repo.Search(ctx, storeID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching customers")
	}
	return s.toDTOs(customers), nil
}

func (s *service) PurchaseHistory(ctx context.Context, storeID, customerID uuid.UUID) (*PurchaseHistoryResult, error) {
	dto, err := s.GetCustomer(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByCustomer(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}

	var spent int64
	for _, sale := range sales {
		spent += sale.FinalCents
	}

	return &PurchaseHistoryResult{
		Customer:        *dto,
		Sales:           sales,
		TotalPurchases:  len(sales),
		TotalSpentCents: spent,
	}, nil
}

func (s *service) GrantPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (*CustomerDTO, error) {
	if points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points to grant must be positive")
	}
	ok, err := s.repo.CreditPoints(ctx, storeID, customerID, points)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "granting points")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.GetCustomer(ctx, storeID, customerID)
}

func (s *service) RedeemPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (*CustomerDTO, error) {
	if points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points to redeem must be positive")
	}

	customer, err := s.repo.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	ok, err := s.repo.DebitPoints(ctx, storeID, customerID, points)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redeeming points")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPoints, "customer does not have enough loyalty points").
			WithDetails(map[string]any{
				"requested": points,
				"available": customer.LoyaltyPoints,
			})
	}
	return s.GetCustomer(ctx, storeID, customerID)
}

func (s *service) toDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		Customer:                  *customer,
		MembershipDiscountPercent: loyalty.LevelDiscountPercent(customer.MembershipLevel),
		DiscountEligibility:       loyalty.DiscountEligibility(customer.LoyaltyPoints),
		PointsToNextTier:          loyalty.PointsToNextTier(customer.LoyaltyPoints),
	}
}

func (s *service) toDTOs(customers []models.Customer) []CustomerDTO {
	dtos := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, *s.toDTO(&customers[i]))
	}
	return dtos
}

func validateCreate(storeID uuid.UUID, input CreateCustomerInput) error {
	switch {
	case storeID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	case strings.TrimSpace(input.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	case strings.TrimSpace(input.Email) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	case strings.TrimSpace(input.Phone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	return nil
}
