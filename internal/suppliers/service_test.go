package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

type stubRepo struct {
	inserted *models.Supplier
	updates  map[string]any
	updateOK bool
	deleteOK bool
	found    *models.Supplier
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRepo) Insert(ctx context.Context, supplier *models.Supplier) error {
	s.inserted = supplier
	return nil
}

func (s *stubRepo) Update(ctx context.Context, storeID, supplierID uuid.UUID, fields map[string]any) (bool, error) {
	s.updates = fields
	return s.updateOK, nil
}

func (s *stubRepo) Delete(ctx context.Context, storeID, supplierID uuid.UUID) (bool, error) {
	return s.deleteOK, nil
}

func (s *stubRepo) FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*models.Supplier, error) {
	return s.found, nil
}

func (s *stubRepo) List(ctx context.Context, storeID uuid.UUID) ([]models.Supplier, error) {
	return []models.Supplier{}, nil
}

func TestCreateSupplierNormalizesAndDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	supplier, err := svc.CreateSupplier(context.Background(), uuid.New(), CreateSupplierInput{
		Name:  "  Acme Wholesale ",
		Email: " Orders@Acme.COM ",
		Phone: "555-0200",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.inserted)
	require.Equal(t, "Acme Wholesale", supplier.Name)
	require.Equal(t, "orders@acme.com", supplier.Email)
	require.Equal(t, enums.PaymentTermsNet30, supplier.PaymentTerms)
	require.True(t, supplier.IsActive)
	require.NotEqual(t, uuid.Nil, supplier.ID)
}

func TestCreateSupplierValidation(t *testing.T) {
	svc := NewService(&stubRepo{})
	storeID := uuid.New()

	cases := []struct {
		name  string
		input CreateSupplierInput
	}{
		{"missing name", CreateSupplierInput{Email: "a@b.c"}},
		{"missing email", CreateSupplierInput{Name: "Acme"}},
		{"bad payment terms", CreateSupplierInput{Name: "Acme", Email: "a@b.c", PaymentTerms: enums.PaymentTerms("Net 45")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSupplier(context.Background(), storeID, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateSupplierRejectsUnknownPaymentTerms(t *testing.T) {
	repo := &stubRepo{updateOK: true}
	svc := NewService(repo)

	terms := enums.PaymentTerms("whenever")
	_, err := svc.UpdateSupplier(context.Background(), uuid.New(), uuid.New(), UpdateSupplierInput{PaymentTerms: &terms})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Nil(t, repo.updates)
}

func TestUpdateSupplierUnknownIsNotFound(t *testing.T) {
	repo := &stubRepo{updateOK: false}
	svc := NewService(repo)

	name := "New Name"
	_, err := svc.UpdateSupplier(context.Background(), uuid.New(), uuid.New(), UpdateSupplierInput{Name: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "New Name", repo.updates["name"])
}

func TestGetSupplierUnknownIsNotFound(t *testing.T) {
	svc := NewService(&stubRepo{found: nil})

	_, err := svc.GetSupplier(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteSupplierUnknownIsNotFound(t *testing.T) {
	svc := NewService(&stubRepo{deleteOK: false})

	err := svc.DeleteSupplier(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
