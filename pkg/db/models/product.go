package models

import (
	"time"

	"github.com/google/uuid"
)

// Product holds the sellable inventory for a store. IsLowStock is a cached
// derived value (quantity <= threshold); every quantity or threshold write
// must recompute it in the same statement.
type Product struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID           uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index:idx_products_store"`
	Name              string     `gorm:"column:name;not null"`
	Description       string     `gorm:"column:description;not null"`
	PriceCents        int64      `gorm:"column:price_cents;not null"`
	Quantity          int        `gorm:"column:quantity;not null;default:0"`
	Category          string     `gorm:"column:category;not null"`
	SupplierID        *uuid.UUID `gorm:"column:supplier_id;type:uuid"`
	LowStockThreshold int        `gorm:"column:low_stock_threshold;not null;default:5"`
	IsLowStock        bool       `gorm:"column:is_low_stock;not null;default:false"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
