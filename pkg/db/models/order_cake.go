package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// OrderCake snapshots one cake line. Variant names are copied in full so the
// order reads the same even if catalog variants are renamed or deleted.
type OrderCake struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Type      enums.CakeType  `gorm:"column:type;type:cake_type;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     *string         `gorm:"column:image"`
	Message   *string         `gorm:"column:message"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`

	SizeName        *string `gorm:"column:size_name"`
	BaseName        *string `gorm:"column:base_name"`
	FillingName     *string `gorm:"column:filling_name"`
	CreamName       *string `gorm:"column:cream_name"`
	CreamColor      *string `gorm:"column:cream_color"`
	TopEdgeName     *string `gorm:"column:top_edge_name"`
	TopEdgeColor    *string `gorm:"column:top_edge_color"`
	BottomEdgeName  *string `gorm:"column:bottom_edge_name"`
	BottomEdgeColor *string `gorm:"column:bottom_edge_color"`
	DecorationName  *string `gorm:"column:decoration_name"`
	SurfaceName     *string `gorm:"column:surface_name"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
