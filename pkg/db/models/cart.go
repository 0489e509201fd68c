package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// Cart is the single open cart for an owner. OwnerID is the member id for
// signed-in customers or the opaque guest token otherwise.
type Cart struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   string          `gorm:"column:owner_id;not null;uniqueIndex"`
	OwnerKind enums.OwnerKind `gorm:"column:owner_kind;type:owner_kind;not null"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
