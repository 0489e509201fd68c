package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// Variant is one selectable option on a custom cake axis (size, base,
// filling, cream, edges, decoration, surface).
type Variant struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type      enums.VariantType `gorm:"column:type;type:variant_type;not null"`
	Name      string            `gorm:"column:name;not null"`
	Image     *string           `gorm:"column:image"`
	IsActive  bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
