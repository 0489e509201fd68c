package enums

// RefreshmentCategory splits the refreshment catalog between baked goods
// and beverages.
type RefreshmentCategory string

const (
	RefreshmentBakery   RefreshmentCategory = "BAKERY"
	RefreshmentBeverage RefreshmentCategory = "BEVERAGE"
)

func (c RefreshmentCategory) Valid() bool {
	return c == RefreshmentBakery || c == RefreshmentBeverage
}

// StockStatus is display-only stock information; it does not gate checkout.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLow        StockStatus = "LOW"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)
