package domain

import "strings"

// ParseStrategy identifies which interpreter implementation produced a
// QuerySpec.
type ParseStrategy string

const (
	StrategyAI    ParseStrategy = "ai"
	StrategyRules ParseStrategy = "regex"
	StrategyNone  ParseStrategy = "none"
)

// SortKey is a column a query result may be ordered by.
type SortKey string

const (
	SortByPrice    SortKey = "price"
	SortByQuantity SortKey = "quantity"
	SortByName     SortKey = "name"
)

// ParseSortKey maps a free-form string onto a known sort key
// (case-insensitive).
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByPrice:
		return SortByPrice, true
	case SortByQuantity:
		return SortByQuantity, true
	case SortByName:
		return SortByName, true
	}

	return "", false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a free-form string onto a sort direction
// (case-insensitive).
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, true
	case SortDesc:
		return SortDesc, true
	}

	return "", false
}

// QuerySpec is the structured filter extracted from a free-text inventory
// query. Every filter field is independently optional; an interpreter never
// sets a field the input text did not support. SortOrder is only ever set
// together with SortBy.
type QuerySpec struct {
	NameContains     *string    `json:"name_contains,omitempty"`
	CategoryContains *string    `json:"category_contains,omitempty"`
	MinPrice         *float64   `json:"min_price,omitempty"`
	MaxPrice         *float64   `json:"max_price,omitempty"`
	LowStock         bool       `json:"low_stock"`
	SortBy           *SortKey   `json:"sort_by,omitempty"`
	SortOrder        *SortOrder `json:"sort_order,omitempty"`

	RawQuery string        `json:"raw_query"`
	Strategy ParseStrategy `json:"strategy"`
}
