package enums

import "fmt"

// ProductStatus tracks where a listing sits in its sales lifecycle. Only
// available and reserved listings count against a seller's plan quota.
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusReserved  ProductStatus = "reserved"
	ProductStatusSold      ProductStatus = "sold"
	ProductStatusRemoved   ProductStatus = "removed"
)

var validProductStatuses = []ProductStatus{
	ProductStatusAvailable,
	ProductStatusReserved,
	ProductStatusSold,
	ProductStatusRemoved,
}

// ActiveListingStatuses are the statuses counted against publishing quotas.
var ActiveListingStatuses = []ProductStatus{
	ProductStatusAvailable,
	ProductStatusReserved,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CountsAgainstQuota reports whether a listing in this status occupies quota.
func (s ProductStatus) CountsAgainstQuota() bool {
	return s == ProductStatusAvailable || s == ProductStatusReserved
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductCategory represents the clothing categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryCamisas    ProductCategory = "camisas"
	ProductCategoryPantalones ProductCategory = "pantalones"
	ProductCategoryVestidos   ProductCategory = "vestidos"
	ProductCategoryZapatos    ProductCategory = "zapatos"
	ProductCategoryChaquetas  ProductCategory = "chaquetas"
	ProductCategoryAccesorios ProductCategory = "accesorios"
	ProductCategoryDeportiva  ProductCategory = "deportiva"
	ProductCategoryOtro       ProductCategory = "otro"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCamisas,
	ProductCategoryPantalones,
	ProductCategoryVestidos,
	ProductCategoryZapatos,
	ProductCategoryChaquetas,
	ProductCategoryAccesorios,
	ProductCategoryDeportiva,
	ProductCategoryOtro,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories returns every known category in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// ProductCondition captures the wear state of a second-hand garment.
type ProductCondition string

const (
	ProductConditionNuevo   ProductCondition = "nuevo"
	ProductConditionPocoUso ProductCondition = "poco_uso"
	ProductConditionUsado   ProductCondition = "usado"
)

var validProductConditions = []ProductCondition{
	ProductConditionNuevo,
	ProductConditionPocoUso,
	ProductConditionUsado,
}

// String implements fmt.Stringer.
func (c ProductCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCondition.
func (c ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCondition converts raw input into a ProductCondition.
func ParseProductCondition(value string) (ProductCondition, error) {
	for _, candidate := range validProductConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product condition %q", value)
}

// ProductGender is the audience a garment is cut for.
type ProductGender string

const (
	ProductGenderFemenino  ProductGender = "femenino"
	ProductGenderMasculino ProductGender = "masculino"
	ProductGenderOtro      ProductGender = "otro"
)

var validProductGenders = []ProductGender{
	ProductGenderFemenino,
	ProductGenderMasculino,
	ProductGenderOtro,
}

// String implements fmt.Stringer.
func (g ProductGender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known ProductGender.
func (g ProductGender) IsValid() bool {
	for _, candidate := range validProductGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseProductGender converts raw input into a ProductGender.
func ParseProductGender(value string) (ProductGender, error) {
	for _, candidate := range validProductGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product gender %q", value)
}
