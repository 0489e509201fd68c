package enums

// CartItemKind tags the four line-item shapes a cart can hold.
type CartItemKind string

const (
	CartItemPresetCake  CartItemKind = "PRESET_CAKE"
	CartItemCustomCake  CartItemKind = "CUSTOM_CAKE"
	CartItemRefreshment CartItemKind = "REFRESHMENT"
	CartItemSnackBox    CartItemKind = "SNACK_BOX"
)

func (k CartItemKind) Valid() bool {
	switch k {
	case CartItemPresetCake, CartItemCustomCake, CartItemRefreshment, CartItemSnackBox:
		return true
	}
	return false
}

// OwnerKind identifies whether a cart belongs to a registered member or a guest.
type OwnerKind string

const (
	OwnerMember OwnerKind = "MEMBER"
	OwnerGuest  OwnerKind = "GUEST"
)

func (k OwnerKind) Valid() bool {
	return k == OwnerMember || k == OwnerGuest
}
