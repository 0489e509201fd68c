package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

// CustomCakeUnitPrice derives a custom cake's unit price from its size
// variant: the size name is a pound count ("1", "2", "1.5"), multiplied by
// the per-pound rate. A size whose name is not numeric cannot be priced.
func CustomCakeUnitPrice(sizeName string, rate decimal.Decimal) (decimal.Decimal, error) {
	pounds, err := decimal.NewFromString(strings.TrimSpace(sizeName))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size %q has no numeric value and cannot be priced", sizeName))
	}
	if pounds.IsNegative() || pounds.IsZero() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size %q must be a positive number", sizeName))
	}
	return pounds.Mul(rate).Round(2), nil
}

// SnackBoxUnitPrice is the sum of the packed refreshment prices plus the
// flat package fee.
func SnackBoxUnitPrice(refreshmentPrices []decimal.Decimal, packageFee decimal.Decimal) decimal.Decimal {
	total := packageFee
	for _, price := range refreshmentPrices {
		total = total.Add(price)
	}
	return total.Round(2)
}
