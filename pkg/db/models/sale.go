package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is an immutable audit record of one transaction. Amounts are stored in
// cents; FinalCents = TotalCents - DiscountCents + TaxCents. The only
// permitted mutation is full deletion (inventory reversal).
type Sale struct {
	ID                    uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID               uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index:idx_sales_store"`
	EmployeeID            uuid.UUID  `gorm:"column:employee_id;type:uuid;not null"`
	CustomerID            *uuid.UUID `gorm:"column:customer_id;type:uuid;index:idx_sales_customer"`
	CustomerName          string     `gorm:"column:customer_name;not null;default:'Walk-in Customer'"`
	TotalCents            int64      `gorm:"column:total_cents;not null"`
	DiscountCents         int64      `gorm:"column:discount_cents;not null;default:0"`
	TaxCents              int64      `gorm:"column:tax_cents;not null;default:0"`
	FinalCents            int64      `gorm:"column:final_cents;not null"`
	LoyaltyPointsEarned   int64      `gorm:"column:loyalty_points_earned;not null;default:0"`
	LoyaltyPointsRedeemed int64      `gorm:"column:loyalty_points_redeemed;not null;default:0"`
	PaymentMethod         string     `gorm:"column:payment_method;not null;default:'Cash'"`
	SaleDate              time.Time  `gorm:"column:sale_date;autoCreateTime"`
	Items                 []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
