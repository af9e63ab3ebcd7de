package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
)

// Repository persists store-scoped supplier rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, storeID, supplierID uuid.UUID, fields map[string]any) (bool, error)
	Delete(ctx context.Context, storeID, supplierID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, storeID uuid.UUID) ([]models.Supplier, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) Update(ctx context.Context, storeID, supplierID uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ? AND store_id = ?", supplierID, storeID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, storeID, supplierID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", supplierID, storeID).
		Delete(&models.Supplier{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", supplierID, storeID).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
