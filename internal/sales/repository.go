package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/internal/loyalty"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	"github.com/angelmondragon/retailpos-backend/pkg/pagination"
)

// Repository covers every query the sale engine performs. All reads and
// writes are store-scoped; a row in another store behaves as if it does not
// exist.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindSaleByID(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Sale, error)
	ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID) ([]models.Sale, error)
	InsertSale(ctx context.Context, sale *models.Sale) error
	DeleteSale(ctx context.Context, storeID, saleID uuid.UUID) error

	FindEmployee(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error)
	FindCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*models.Customer, error)
	FindProductsByIDs(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID) ([]models.Product, error)

	// DecrementStock subtracts qty from the product and recomputes the
	// low-stock flag in the same statement. It reports false when the row
	// no longer holds enough stock (concurrent overdraw).
	DecrementStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error)

	// DebitPoints subtracts points behind a sufficiency predicate; false
	// means the balance dropped below the redemption amount.
	DebitPoints(ctx context.Context, storeID, customerID uuid.UUID, points int64) (bool, error)

	// ApplyCustomerSale credits spend and earned points and rederives the
	// membership level from the post-sale lifetime spend in the same
	// statement, so the stored level always matches the stored spend.
	ApplyCustomerSale(ctx context.Context, storeID, customerID uuid.UUID, effects CustomerSaleEffects) error
}

// CustomerSaleEffects is everything a completed sale writes back onto the
// customer row.
type CustomerSaleEffects struct {
	PointsEarned int64
	FinalCents   int64
	PurchasedAt  time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed sales repository.
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

func (r *repository) FindSaleByID(ctx context.Context, storeID, saleID uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND store_id = ?", saleID, storeID).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListSales(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) ListByCustomer(ctx context.Context, storeID, customerID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND customer_id = ?", storeID, customerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) InsertSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) DeleteSale(ctx context.Context, storeID, saleID uuid.UUID) error {
	// Item rows carry no store_id of their own, so the delete is scoped
	// through the store-scoped sale row.
	saleRow := r.db.
		Model(&models.Sale{}).
		Select("id").
		Where("id = ? AND store_id = ?", saleID, storeID)
	if err := r.db.WithContext(ctx).
		Where("sale_id IN (?)", saleRow).
		Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", saleID, storeID).
		Delete(&models.Sale{}).Error
}

func (r *repository) FindEmployee(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error) {
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

func (r *repository) FindCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*models.Customer, error) {
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

func (r *repository) FindProductsByIDs(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, productIDs).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) DecrementStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND store_id = ? AND quantity >= ?", productID, storeID, qty).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"is_low_stock": gorm.Expr("(quantity - ?) <= low_stock_threshold", qty),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) RestoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND store_id = ?", productID, storeID).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity + ?", qty),
			"is_low_stock": gorm.Expr("(quantity + ?) <= low_stock_threshold", qty),
			"updated_at":   time.Now().UTC(),
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

func (r *repository) ApplyCustomerSale(ctx context.Context, storeID, customerID uuid.UUID, effects CustomerSaleEffects) error {
	// Every expression in a single UPDATE sees the pre-update column
	// values, so the CASE ranks against the incremented lifetime spend.
	levelExpr := gorm.Expr(
		"CASE"+
			" WHEN total_spent_cents + ? >= ? THEN ?"+
			" WHEN total_spent_cents + ? >= ? THEN ?"+
			" WHEN total_spent_cents + ? >= ? THEN ?"+
			" ELSE ? END",
		effects.FinalCents, loyalty.PlatinumThresholdCents, string(enums.MembershipPlatinum),
		effects.FinalCents, loyalty.GoldThresholdCents, string(enums.MembershipGold),
		effects.FinalCents, loyalty.SilverThresholdCents, string(enums.MembershipSilver),
		string(enums.MembershipBronze),
	)
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND store_id = ?", customerID, storeID).
		Updates(map[string]any{
			"loyalty_points":     gorm.Expr("loyalty_points + ?", effects.PointsEarned),
			"total_spent_cents":  gorm.Expr("total_spent_cents + ?", effects.FinalCents),
			"membership_level":   levelExpr,
			"last_purchase_date": effects.PurchasedAt,
			"updated_at":         time.Now().UTC(),
		}).Error
}
