package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

// Employee is a staff record; sales reference the acting employee.
type Employee struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID          uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index:idx_employees_store"`
	Name             string             `gorm:"column:name;not null"`
	Email            string             `gorm:"column:email;not null"`
	Phone            string             `gorm:"column:phone;not null"`
	Role             enums.EmployeeRole `gorm:"column:role;not null"`
	SalaryCents      int64              `gorm:"column:salary_cents;not null;default:0"`
	HireDate         time.Time          `gorm:"column:hire_date;autoCreateTime"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	Address          *string            `gorm:"column:address"`
	EmergencyContact *string            `gorm:"column:emergency_contact"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
