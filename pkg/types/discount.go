package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Discount is a single named deduction applied to an order total.
type Discount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Discounts is stored as a jsonb column on orders so the snapshot keeps the
// exact deductions applied at checkout time.
type Discounts []Discount

func (d Discounts) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("discounts: marshal: %w", err)
	}
	return string(raw), nil
}

func (d *Discounts) Scan(src any) error {
	if src == nil {
		*d = Discounts{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("discounts: unsupported Scan type %T", src)
	}

	if len(raw) == 0 {
		*d = Discounts{}
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Total sums every deduction.
func (d Discounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range d {
		total = total.Add(entry.Amount)
	}
	return total
}
