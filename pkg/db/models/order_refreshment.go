package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// OrderRefreshment snapshots one refreshment line.
type OrderRefreshment struct {
	ID        uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID                 `gorm:"column:order_id;type:uuid;not null;index"`
	Name      string                    `gorm:"column:name;not null"`
	Category  enums.RefreshmentCategory `gorm:"column:category;type:refreshment_category;not null"`
	Image     *string                   `gorm:"column:image"`
	Quantity  int                       `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal           `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
