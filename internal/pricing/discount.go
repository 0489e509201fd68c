package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/types"
)

// DiscountPolicy yields the ordered discount entries for a cart subtotal.
// The calculator only sums whatever the policy returns, so a real promotion
// engine can replace the stub without touching any arithmetic.
type DiscountPolicy interface {
	Compute(ctx context.Context, subtotal decimal.Decimal) (types.Discounts, error)
}

// StubDiscountPolicy is the launch promotion: two flat 10 THB lines applied
// to every non-empty cart.
type StubDiscountPolicy struct{}

func (StubDiscountPolicy) Compute(_ context.Context, subtotal decimal.Decimal) (types.Discounts, error) {
	if subtotal.IsZero() {
		return types.Discounts{}, nil
	}
	return types.Discounts{
		{Name: "ร้านกำลังอยู่ในช่วงพัฒนา ลดให้เลย 10 บาท", Amount: decimal.NewFromInt(10)},
		{Name: "พอดีเป็นคนใจดีน่ะ ลดให้เลย 10 บาท", Amount: decimal.NewFromInt(10)},
	}, nil
}

// NoDiscountPolicy turns promotions off entirely.
type NoDiscountPolicy struct{}

func (NoDiscountPolicy) Compute(context.Context, decimal.Decimal) (types.Discounts, error) {
	return types.Discounts{}, nil
}
