package enums

// PackageType is the container a snack box is assembled into.
type PackageType string

const (
	PackagePaperBag  PackageType = "PAPER_BAG"
	PackageSnackBoxS PackageType = "SNACK_BOX_S"
	PackageSnackBoxM PackageType = "SNACK_BOX_M"
)

func (p PackageType) Valid() bool {
	switch p {
	case PackagePaperBag, PackageSnackBoxS, PackageSnackBoxM:
		return true
	}
	return false
}

// Beverage records whether a drink accompanies the snack box.
type Beverage string

const (
	BeverageInclude Beverage = "INCLUDE"
	BeverageExclude Beverage = "EXCLUDE"
	BeverageNone    Beverage = "NONE"
)

func (b Beverage) Valid() bool {
	switch b {
	case BeverageInclude, BeverageExclude, BeverageNone:
		return true
	}
	return false
}
