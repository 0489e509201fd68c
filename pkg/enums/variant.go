package enums

// VariantType is a custom-cake customization axis. SIZE is the only axis a
// custom cake cannot be priced without.
type VariantType string

const (
	VariantSize       VariantType = "SIZE"
	VariantBase       VariantType = "BASE"
	VariantFilling    VariantType = "FILLING"
	VariantCream      VariantType = "CREAM"
	VariantTopEdge    VariantType = "TOP_EDGE"
	VariantBottomEdge VariantType = "BOTTOM_EDGE"
	VariantDecoration VariantType = "DECORATION"
	VariantSurface    VariantType = "SURFACE"
)

func (v VariantType) Valid() bool {
	switch v {
	case VariantSize, VariantBase, VariantFilling, VariantCream,
		VariantTopEdge, VariantBottomEdge, VariantDecoration, VariantSurface:
		return true
	}
	return false
}
