package enums

import "fmt"

// LinkCategory groups admin-curated site links.
type LinkCategory string

const (
	LinkCategorySocial   LinkCategory = "social"
	LinkCategoryExternal LinkCategory = "external"
	LinkCategoryInternal LinkCategory = "internal"
)

var validLinkCategories = []LinkCategory{
	LinkCategorySocial,
	LinkCategoryExternal,
	LinkCategoryInternal,
}

// String implements fmt.Stringer.
func (l LinkCategory) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LinkCategory.
func (l LinkCategory) IsValid() bool {
	for _, candidate := range validLinkCategories {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLinkCategory converts raw input into a LinkCategory.
func ParseLinkCategory(value string) (LinkCategory, error) {
	for _, candidate := range validLinkCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid link category %q", value)
}
