package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// Repository reads catalog rows: cakes, variants and refreshments.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindCake loads a cake by id.
func (r *Repository) FindCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	var cake models.Cake
	if err := r.db.WithContext(ctx).First(&cake, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cake, nil
}

// FindVariant loads a variant by id.
func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindRefreshment loads a refreshment by id.
func (r *Repository) FindRefreshment(ctx context.Context, id uuid.UUID) (*models.Refreshment, error) {
	var refreshment models.Refreshment
	if err := r.db.WithContext(ctx).First(&refreshment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &refreshment, nil
}

// FindRefreshments loads every refreshment in ids. The result may be shorter
// than ids when some rows are missing; callers decide whether that is fatal.
func (r *Repository) FindRefreshments(ctx context.Context, ids []uuid.UUID) ([]models.Refreshment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var refreshments []models.Refreshment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&refreshments).Error; err != nil {
		return nil, err
	}
	return refreshments, nil
}

// ListRefreshments returns active refreshments, optionally filtered by
// category.
func (r *Repository) ListRefreshments(ctx context.Context, category enums.RefreshmentCategory) ([]models.Refreshment, error) {
	var refreshments []models.Refreshment
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("created_at ASC").Find(&refreshments).Error; err != nil {
		return nil, err
	}
	return refreshments, nil
}

// ListCakes returns active cakes of the given type.
func (r *Repository) ListCakes(ctx context.Context, cakeType enums.CakeType) ([]models.Cake, error) {
	var cakes []models.Cake
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if cakeType != "" {
		query = query.Where("type = ?", cakeType)
	}
	if err := query.Order("created_at ASC").Find(&cakes).Error; err != nil {
		return nil, err
	}
	return cakes, nil
}

// ListVariants returns active variants for one axis.
func (r *Repository) ListVariants(ctx context.Context, variantType enums.VariantType) ([]models.Variant, error) {
	var variants []models.Variant
	if err := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", variantType, true).
		Order("created_at ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
