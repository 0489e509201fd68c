package enums

// CakeType distinguishes fixed-recipe cakes from customizable templates.
type CakeType string

const (
	CakeTypePreset CakeType = "PRESET"
	CakeTypeCustom CakeType = "CUSTOM"
)

func (c CakeType) Valid() bool {
	switch c {
	case CakeTypePreset, CakeTypeCustom:
		return true
	}
	return false
}
