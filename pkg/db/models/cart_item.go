package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/cukedoh/bakery-backend/pkg/db/types"
	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// CartItem is one cart line. Kind selects which column group is meaningful:
//
//	PRESET_CAKE  — CakeID (+ optional CakeMessage)
//	CUSTOM_CAKE  — the eight variant axis ids, colors, CakeMessage, UnitPrice
//	REFRESHMENT  — RefreshmentID
//	SNACK_BOX    — PackageType, Beverage, RefreshmentIDs, Note, UnitPrice
//
// UnitPrice is persisted only for kinds priced at add time; preset cakes and
// refreshments are priced from the live catalog when the cart is read.
type CartItem struct {
	ID       uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID   uuid.UUID          `gorm:"column:cart_id;type:uuid;not null;index"`
	Kind     enums.CartItemKind `gorm:"column:kind;type:cart_item_kind;not null"`
	Quantity int                `gorm:"column:quantity;not null"`

	CakeID      *uuid.UUID `gorm:"column:cake_id;type:uuid"`
	CakeMessage *string    `gorm:"column:cake_message"`

	SizeID          *uuid.UUID `gorm:"column:size_id;type:uuid"`
	BaseID          *uuid.UUID `gorm:"column:base_id;type:uuid"`
	FillingID       *uuid.UUID `gorm:"column:filling_id;type:uuid"`
	CreamID         *uuid.UUID `gorm:"column:cream_id;type:uuid"`
	TopEdgeID       *uuid.UUID `gorm:"column:top_edge_id;type:uuid"`
	BottomEdgeID    *uuid.UUID `gorm:"column:bottom_edge_id;type:uuid"`
	DecorationID    *uuid.UUID `gorm:"column:decoration_id;type:uuid"`
	SurfaceID       *uuid.UUID `gorm:"column:surface_id;type:uuid"`
	CreamColor      *string    `gorm:"column:cream_color"`
	TopEdgeColor    *string    `gorm:"column:top_edge_color"`
	BottomEdgeColor *string    `gorm:"column:bottom_edge_color"`

	RefreshmentID *uuid.UUID `gorm:"column:refreshment_id;type:uuid"`

	PackageType    *enums.PackageType `gorm:"column:package_type;type:package_type"`
	Beverage       *enums.Beverage    `gorm:"column:beverage;type:beverage"`
	RefreshmentIDs dbtypes.UUIDArray  `gorm:"column:refreshment_ids;type:uuid[]"`
	Note           *string            `gorm:"column:note"`

	UnitPrice *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
