package enums

import "fmt"

// ProductFlag names the boolean merchandising flags a product can carry.
// Each flag maps to one canonical column plus the legacy camelCase document
// key that older admin tooling wrote.
type ProductFlag string

const (
	ProductFlagFeatured   ProductFlag = "is_featured"
	ProductFlagNew        ProductFlag = "is_new"
	ProductFlagBestSeller ProductFlag = "is_best_seller"
	ProductFlagOnSale     ProductFlag = "is_on_sale"
)

var validProductFlags = []ProductFlag{
	ProductFlagFeatured,
	ProductFlagNew,
	ProductFlagBestSeller,
	ProductFlagOnSale,
}

// legacyProductFlagAliases maps the camelCase keys that coexisted with the
// snake_case columns in the pre-migration documents. "isOffer" is the odd
// one out: the old admin form used it for the on-sale flag.
var legacyProductFlagAliases = map[string]ProductFlag{
	"isFeatured":   ProductFlagFeatured,
	"isNew":        ProductFlagNew,
	"isBestSeller": ProductFlagBestSeller,
	"isOnSale":     ProductFlagOnSale,
	"isOffer":      ProductFlagOnSale,
}

// String implements fmt.Stringer.
func (p ProductFlag) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductFlag.
func (p ProductFlag) IsValid() bool {
	for _, candidate := range validProductFlags {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductFlag converts raw input into a ProductFlag, accepting both the
// canonical snake_case name and the legacy camelCase aliases.
func ParseProductFlag(value string) (ProductFlag, error) {
	for _, candidate := range validProductFlags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if flag, ok := legacyProductFlagAliases[value]; ok {
		return flag, nil
	}
	return "", fmt.Errorf("invalid product flag %q", value)
}
