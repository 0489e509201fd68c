package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// OrderSnackBox snapshots one snack-box line together with its contents.
type OrderSnackBox struct {
	ID          uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID                  `gorm:"column:order_id;type:uuid;not null;index"`
	PackageType enums.PackageType          `gorm:"column:package_type;type:package_type;not null"`
	Beverage    enums.Beverage             `gorm:"column:beverage;type:beverage;not null"`
	Note        *string                    `gorm:"column:note"`
	Quantity    int                        `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal            `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Contents    []OrderSnackBoxRefreshment `gorm:"foreignKey:OrderSnackBoxID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

// OrderSnackBoxRefreshment is one refreshment packed inside an ordered
// snack box, snapshotted by name and price.
type OrderSnackBoxRefreshment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderSnackBoxID uuid.UUID       `gorm:"column:order_snack_box_id;type:uuid;not null;index"`
	Name            string          `gorm:"column:name;not null"`
	Image           *string         `gorm:"column:image"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
