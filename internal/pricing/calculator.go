package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/config"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/types"
)

// Line is the minimal priced shape the calculator needs from a cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// LinePrice is the rounded extended price for one line. Rounding happens per
// line, not once at the end, so the displayed lines always sum to the total.
func (l Line) LinePrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Quote is the full price breakdown for a cart.
type Quote struct {
	Subtotal      decimal.Decimal
	Discounts     types.Discounts
	TotalDiscount decimal.Decimal
	ShippingFee   decimal.Decimal
	Total         decimal.Decimal
}

// Calculator computes cart totals. It is stateless apart from configuration
// and the discount policy.
type Calculator struct {
	cfg    config.PricingConfig
	policy DiscountPolicy
}

// NewCalculator builds a calculator with the given pricing knobs and policy.
func NewCalculator(cfg config.PricingConfig, policy DiscountPolicy) (*Calculator, error) {
	if policy == nil {
		return nil, fmt.Errorf("discount policy required")
	}
	return &Calculator{cfg: cfg, policy: policy}, nil
}

// ShippingFee is 0 for pickup and the configured flat rate for delivery.
func (c *Calculator) ShippingFee(receivedVia enums.ReceivedVia) decimal.Decimal {
	if receivedVia == enums.ReceivedDelivery {
		return c.cfg.DeliveryFeeAmount().Round(2)
	}
	return decimal.Zero
}

// Compute prices the given lines. A negative total is a logic fault and is
// reported as an invariant violation rather than clamped.
func (c *Calculator) Compute(ctx context.Context, lines []Line, receivedVia enums.ReceivedVia) (*Quote, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvariant, "line quantity is negative")
		}
		subtotal = subtotal.Add(line.LinePrice())
	}
	subtotal = subtotal.Round(2)

	discounts, err := c.policy.Compute(ctx, subtotal)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute discounts")
	}
	totalDiscount := discounts.Total().Round(2)

	shipping := c.ShippingFee(receivedVia)
	total := subtotal.Sub(totalDiscount).Add(shipping).Round(2)
	if total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant,
			fmt.Sprintf("computed total %s is negative (subtotal %s, discount %s, shipping %s)",
				total, subtotal, totalDiscount, shipping))
	}

	return &Quote{
		Subtotal:      subtotal,
		Discounts:     discounts,
		TotalDiscount: totalDiscount,
		ShippingFee:   shipping,
		Total:         total,
	}, nil
}
