package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// GormRepository persists order snapshots.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *GormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &GormRepository{db: tx}
}

// Create inserts the order and all of its child snapshots.
func (r *GormRepository) Create(ctx context.Context, order *models.Order) error {
	assignOrderIDs(order)
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order with every child line.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Cakes").
		Preload("Refreshments").
		Preload("SnackBoxes").
		Preload("SnackBoxes.Contents").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByOwner returns an owner's orders newest-first.
func (r *GormRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Cakes").
		Preload("Refreshments").
		Preload("SnackBoxes").
		Preload("SnackBoxes.Contents").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order to the given status.
func (r *GormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateStripeSession records the payment session bound to the order.
func (r *GormRepository) UpdateStripeSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("stripe_session_id", sessionID).Error
}

// Delete removes the order and its children. Used only by checkout
// compensation; customer-facing cancellation is a status change.
func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)

	var boxIDs []uuid.UUID
	if err := tx.Model(&models.OrderSnackBox{}).Where("order_id = ?", id).Pluck("id", &boxIDs).Error; err != nil {
		return err
	}
	if len(boxIDs) > 0 {
		if err := tx.Delete(&models.OrderSnackBoxRefreshment{}, "order_snack_box_id IN ?", boxIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Delete(&models.OrderSnackBox{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.OrderRefreshment{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.OrderCake{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Order{}, "id = ?", id).Error
}

// CountByStatus returns order volume per status for the admin overview.
func (r *GormRepository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// ListRecent returns the latest orders across all owners.
func (r *GormRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func assignOrderIDs(order *models.Order) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Cakes {
		if order.Cakes[i].ID == uuid.Nil {
			order.Cakes[i].ID = uuid.New()
		}
		order.Cakes[i].OrderID = order.ID
	}
	for i := range order.Refreshments {
		if order.Refreshments[i].ID == uuid.Nil {
			order.Refreshments[i].ID = uuid.New()
		}
		order.Refreshments[i].OrderID = order.ID
	}
	for i := range order.SnackBoxes {
		box := &order.SnackBoxes[i]
		if box.ID == uuid.Nil {
			box.ID = uuid.New()
		}
		box.OrderID = order.ID
		for j := range box.Contents {
			if box.Contents[j].ID == uuid.Nil {
				box.Contents[j].ID = uuid.New()
			}
			box.Contents[j].OrderSnackBoxID = box.ID
		}
	}
}
