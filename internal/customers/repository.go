package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
)

// Repository persists store-scoped customer rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, storeID, customerID uuid.UUID, fields map[string]any) (bool, error)
	Delete(ctx context.Context, storeID, customerID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, storeID, customerID uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, storeID uuid.UUID) ([]models.Customer, error)
	Search(ctx context.Context, storeID uuid.UUID, query string) ([]models.Customer, error)

	CreditPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (bool, error)
	// DebitPoints subtracts points behind a balance predicate; false means
	// the balance was short.
	DebitPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (bool, error)
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

func (r *repository) Insert(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) Update(ctx context.Context, storeID, customerID uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND store_id = ?", customerID, storeID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, storeID, customerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", customerID, storeID).
		Delete(&models.Customer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, storeID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", customerID, storeID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) Search(ctx context.Context, storeID uuid.UUID, query string) ([]models.Customer, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) CreditPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND store_id = ?", customerID, storeID).
		Updates(map[string]any{
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) DebitPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND store_id = ? AND loyalty_points >= ?", customerID, storeID, points).
		Updates(map[string]any{
			"loyalty_points": gorm.Expr("loyalty_points - ?", points),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
