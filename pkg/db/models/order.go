package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
	"github.com/cukedoh/bakery-backend/pkg/types"
)

// Order is the immutable checkout snapshot. Totals and line details are
// denormalized so later catalog edits never change what the customer agreed
// to pay.
type Order struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       string               `gorm:"column:owner_id;not null;index"`
	Status        enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'PENDING_PAYMENT1'"`
	PaymentType   enums.PaymentType    `gorm:"column:payment_type;type:payment_type;not null"`
	PaymentMethod *enums.PaymentMethod `gorm:"column:payment_method;type:payment_method"`
	ReceivedVia   enums.ReceivedVia    `gorm:"column:received_via;type:received_via;not null"`

	CustomerName    string  `gorm:"column:customer_name;not null"`
	Phone           string  `gorm:"column:phone;not null"`
	Email           *string `gorm:"column:email"`
	DeliveryAddress *string `gorm:"column:delivery_address"`
	Remark          *string `gorm:"column:remark"`

	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discounts   types.Discounts `gorm:"column:discounts;type:jsonb;not null;default:'[]'"`
	ShippingFee decimal.Decimal `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	StripeSessionID *string `gorm:"column:stripe_session_id"`

	Cakes        []OrderCake        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Refreshments []OrderRefreshment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	SnackBoxes   []OrderSnackBox    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
