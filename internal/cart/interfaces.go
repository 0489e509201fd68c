package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByOwner(ctx context.Context, ownerID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogResolver interface {
	GetPresetCake(ctx context.Context, id uuid.UUID) (*models.Cake, error)
	GetCustomCake(ctx context.Context, id uuid.UUID) (*models.Cake, error)
	GetVariant(ctx context.Context, id uuid.UUID, axis enums.VariantType) (*models.Variant, error)
	GetRefreshment(ctx context.Context, id uuid.UUID) (*models.Refreshment, error)
	GetRefreshments(ctx context.Context, ids []uuid.UUID) ([]models.Refreshment, error)
}

type imageResolver interface {
	Resolve(ref *string) string
}
