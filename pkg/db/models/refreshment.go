package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// Refreshment is a bakery or beverage catalog listing.
type Refreshment struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string                    `gorm:"column:name;not null"`
	Category     enums.RefreshmentCategory `gorm:"column:category;type:refreshment_category;not null"`
	Description  *string                   `gorm:"column:description"`
	Image        *string                   `gorm:"column:image"`
	Price        decimal.Decimal           `gorm:"column:price;type:numeric(12,2);not null"`
	UnitsPerItem int                       `gorm:"column:units_per_item;not null;default:1"`
	StockStatus  enums.StockStatus         `gorm:"column:stock_status;type:stock_status;not null;default:'IN_STOCK'"`
	IsActive     bool                      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
