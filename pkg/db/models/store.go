package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is the tenant boundary; every other row belongs to exactly one store.
type Store struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Address     *string   `gorm:"column:address"`
	Phone       *string   `gorm:"column:phone"`
	Email       *string   `gorm:"column:email"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:idx_stores_owner"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
