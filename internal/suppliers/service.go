package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

// Service manages purchasing contacts for a store.
type Service interface {
	CreateSupplier(ctx context.Context, storeID uuid.UUID, input CreateSupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, storeID, supplierID uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, storeID, supplierID uuid.UUID) error
	GetSupplier(ctx context.Context, storeID, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, storeID uuid.UUID) ([]models.Supplier, error)
}

type CreateSupplierInput struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson *string
	CompanyName   *string
	TaxID         *string
	PaymentTerms  enums.PaymentTerms
	Notes         *string
	CreatedBy     uuid.UUID
}

type UpdateSupplierInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
	CompanyName   *string
	TaxID         *string
	PaymentTerms  *enums.PaymentTerms
	IsActive      *bool
	Notes         *string
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSupplier(ctx context.Context, storeID uuid.UUID, input CreateSupplierInput) (*models.Supplier, error) {
	switch {
	case storeID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	case strings.TrimSpace(input.Name) == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	case strings.TrimSpace(input.Email) == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier email is required")
	}

	terms := input.PaymentTerms
	if terms == "" {
		terms = enums.PaymentTermsNet30
	}
	if !terms.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment terms")
	}

	supplier := &models.Supplier{
		ID:            uuid.New(),
		StoreID:       storeID,
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		ContactPerson: input.ContactPerson,
		CompanyName:   input.CompanyName,
		TaxID:         input.TaxID,
		PaymentTerms:  terms,
		IsActive:      true,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
	}

	if err := s.repo.Insert(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting supplier")
	}
	return supplier, nil
}

func (s *service) UpdateSupplier(ctx context.Context, storeID, supplierID uuid.UUID, input UpdateSupplierInput) (*models.Supplier, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if input.ContactPerson != nil {
		fields["contact_person"] = *input.ContactPerson
	}
	if input.CompanyName != nil {
		fields["company_name"] = *input.CompanyName
	}
	if input.TaxID != nil {
		fields["tax_id"] = *input.TaxID
	}
	if input.PaymentTerms != nil {
		if !input.PaymentTerms.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment terms")
		}
		fields["payment_terms"] = *input.PaymentTerms
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if len(fields) > 0 {
		ok, err := s.repo.Update(ctx, storeID, supplierID, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating supplier")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
	}
	return s.GetSupplier(ctx, storeID, supplierID)
}

func (s *service) DeleteSupplier(ctx context.Context, storeID, supplierID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, storeID, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting supplier")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return nil
}

func (s *service) GetSupplier(ctx context.Context, storeID, supplierID uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, storeID, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading supplier")
	}
	if supplier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context, storeID uuid.UUID) ([]models.Supplier, error) {
	suppliers, err := s.repo.List(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing suppliers")
	}
	return suppliers, nil
}
