package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

// Customer is a loyalty program member. MembershipLevel is a pure function of
// TotalSpentCents and is recomputed after every sale; LoyaltyPoints never goes
// negative.
type Customer struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID          uuid.UUID             `gorm:"column:store_id;type:uuid;not null;index:idx_customers_store;uniqueIndex:idx_customers_store_email"`
	Name             string                `gorm:"column:name;not null"`
	Email            string                `gorm:"column:email;not null;uniqueIndex:idx_customers_store_email"`
	Phone            string                `gorm:"column:phone;not null"`
	Address          *string               `gorm:"column:address"`
	LoyaltyPoints    int64                 `gorm:"column:loyalty_points;not null;default:0"`
	TotalSpentCents  int64                 `gorm:"column:total_spent_cents;not null;default:0"`
	MembershipLevel  enums.MembershipLevel `gorm:"column:membership_level;not null;default:'Bronze'"`
	IsActive         bool                  `gorm:"column:is_active;not null;default:true"`
	JoinDate         time.Time             `gorm:"column:join_date;autoCreateTime"`
	LastPurchaseDate *time.Time            `gorm:"column:last_purchase_date"`
	CreatedBy        uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
