package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

// LineDetail is the kind-specific half of a materialized cart line. Exactly
// one concrete detail type exists per CartItemKind, so consumers can switch
// exhaustively instead of probing nullable fields.
type LineDetail interface {
	Kind() enums.CartItemKind
}

// MaterializedLine is one cart line joined against the live catalog: named,
// priced and image-resolved.
type MaterializedLine struct {
	ItemID    uuid.UUID          `json:"itemId"`
	Kind      enums.CartItemKind `json:"kind"`
	Name      string             `json:"name"`
	Image     string             `json:"image,omitempty"`
	Quantity  int                `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"pricePer"`
	LinePrice decimal.Decimal    `json:"price"`
	CreatedAt time.Time          `json:"createdAt"`
	Detail    LineDetail         `json:"detail"`
}

// MaterializedCart is the display- and checkout-ready view of a cart.
type MaterializedCart struct {
	CartID    uuid.UUID          `json:"cartId"`
	OwnerID   string             `json:"ownerId"`
	OwnerKind enums.OwnerKind    `json:"ownerKind"`
	Lines     []MaterializedLine `json:"items"`
}

// Empty reports whether the cart holds no lines.
func (c *MaterializedCart) Empty() bool {
	return c == nil || len(c.Lines) == 0
}

// VariantRef is a resolved customization option.
type VariantRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

// PresetCakeDetail describes a fixed-recipe cake line.
type PresetCakeDetail struct {
	CakeID  uuid.UUID `json:"cakeId"`
	Message *string   `json:"message,omitempty"`
}

func (PresetCakeDetail) Kind() enums.CartItemKind { return enums.CartItemPresetCake }

// CustomCakeDetail describes a made-to-order cake line. Size is always
// resolved; the other axes are nil when unselected or when the option has
// since been removed from the catalog.
type CustomCakeDetail struct {
	CakeID          uuid.UUID   `json:"cakeId"`
	Size            *VariantRef `json:"size,omitempty"`
	Base            *VariantRef `json:"base,omitempty"`
	Filling         *VariantRef `json:"filling,omitempty"`
	Cream           *VariantRef `json:"cream,omitempty"`
	TopEdge         *VariantRef `json:"topEdge,omitempty"`
	BottomEdge      *VariantRef `json:"bottomEdge,omitempty"`
	Decoration      *VariantRef `json:"decoration,omitempty"`
	Surface         *VariantRef `json:"surface,omitempty"`
	CreamColor      *string     `json:"creamColor,omitempty"`
	TopEdgeColor    *string     `json:"topEdgeColor,omitempty"`
	BottomEdgeColor *string     `json:"bottomEdgeColor,omitempty"`
	Message         *string     `json:"message,omitempty"`
}

func (CustomCakeDetail) Kind() enums.CartItemKind { return enums.CartItemCustomCake }

// RefreshmentDetail describes a single bakery/beverage line.
type RefreshmentDetail struct {
	RefreshmentID uuid.UUID                 `json:"refreshmentId"`
	Category      enums.RefreshmentCategory `json:"category"`
}

func (RefreshmentDetail) Kind() enums.CartItemKind { return enums.CartItemRefreshment }

// SnackBoxContent is one refreshment packed into a snack box.
type SnackBoxContent struct {
	RefreshmentID uuid.UUID       `json:"refreshmentId"`
	Name          string          `json:"name"`
	Image         string          `json:"image,omitempty"`
	UnitPrice     decimal.Decimal `json:"price"`
}

// SnackBoxDetail describes a composed snack-box line.
type SnackBoxDetail struct {
	PackageType enums.PackageType `json:"packageType"`
	Beverage    enums.Beverage    `json:"beverage"`
	Note        *string           `json:"note,omitempty"`
	Contents    []SnackBoxContent `json:"refreshments"`
}

func (SnackBoxDetail) Kind() enums.CartItemKind { return enums.CartItemSnackBox }
