package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

// Supplier is a purchasing contact; products may reference one.
type Supplier struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index:idx_suppliers_store"`
	Name          string             `gorm:"column:name;not null"`
	Email         string             `gorm:"column:email;not null"`
	Phone         string             `gorm:"column:phone;not null"`
	Address       string             `gorm:"column:address;not null"`
	ContactPerson *string            `gorm:"column:contact_person"`
	CompanyName   *string            `gorm:"column:company_name"`
	TaxID         *string            `gorm:"column:tax_id"`
	PaymentTerms  enums.PaymentTerms `gorm:"column:payment_terms;not null;default:'Net 30'"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	Notes         *string            `gorm:"column:notes"`
	CreatedBy     uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
