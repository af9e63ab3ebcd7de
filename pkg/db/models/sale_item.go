package models

import (
	"github.com/google/uuid"
)

// SaleItem is one line of a sale. Name and unit price are snapshots taken at
// sale time so the audit trail survives later product edits or deletions.
type SaleItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID         uuid.UUID `gorm:"column:sale_id;type:uuid;not null;index:idx_sale_items_sale"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	SubtotalCents  int64     `gorm:"column:subtotal_cents;not null"`
}
