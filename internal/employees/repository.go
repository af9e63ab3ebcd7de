package employees

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

// Repository persists store-scoped employee rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, storeID, employeeID uuid.UUID, fields map[string]any) (bool, error)
	Delete(ctx context.Context, storeID, employeeID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, storeID uuid.UUID) ([]models.Employee, error)
	ListByRole(ctx context.Context, storeID uuid.UUID, role enums.EmployeeRole) ([]models.Employee, error)
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

func (r *repository) Insert(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repository) Update(ctx context.Context, storeID, employeeID uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ? AND store_id = ?", employeeID, storeID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, storeID, employeeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", employeeID, storeID).
		Delete(&models.Employee{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", employeeID, storeID).
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repository) ListByRole(ctx context.Context, storeID uuid.UUID, role enums.EmployeeRole) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND role = ?", storeID, role).
		Order("name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}
