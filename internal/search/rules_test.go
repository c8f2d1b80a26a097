package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens-io/stocklens/internal/domain"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func keyPtr(k domain.SortKey) *domain.SortKey {
	return &k
}

func orderPtr(o domain.SortOrder) *domain.SortOrder {
	return &o
}

func TestRulesStrategyParse(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  domain.QuerySpec
	}{
		{
			name:  "low stock phrase",
			query: "low stock items",
			want:  domain.QuerySpec{LowStock: true},
		},
		{
			name:  "out of stock phrase",
			query: "items out of stock",
			want:  domain.QuerySpec{LowStock: true, NameContains: strPtr("out")},
		},
		{
			name:  "cheap plus category",
			query: "cheap electronics",
			want: domain.QuerySpec{
				CategoryContains: strPtr("electronics"),
				SortBy:           keyPtr(domain.SortByPrice),
				SortOrder:        orderPtr(domain.SortAsc),
			},
		},
		{
			name:  "expensive sorts descending",
			query: "expensive furniture",
			want: domain.QuerySpec{
				CategoryContains: strPtr("furniture"),
				SortBy:           keyPtr(domain.SortByPrice),
				SortOrder:        orderPtr(domain.SortDesc),
			},
		},
		{
			// Defined tie-break: the descending check runs second and wins.
			name:  "cheap and expensive together",
			query: "cheap but expensive toys",
			want: domain.QuerySpec{
				CategoryContains: strPtr("toys"),
				SortBy:           keyPtr(domain.SortByPrice),
				SortOrder:        orderPtr(domain.SortDesc),
				NameContains:     nil,
			},
		},
		{
			name:  "upper price bound with dollar sign",
			query: "products under $50",
			want:  domain.QuerySpec{MaxPrice: floatPtr(50)},
		},
		{
			name:  "lower price bound without dollar sign",
			query: "phones over 100",
			want: domain.QuerySpec{
				MinPrice:     floatPtr(100),
				NameContains: strPtr("phones"),
			},
		},
		{
			name:  "price with cents",
			query: "show me anything under $49.99",
			want: domain.QuerySpec{
				MaxPrice:     floatPtr(49.99),
				NameContains: strPtr("anything"),
			},
		},
		{
			name:  "both bounds",
			query: "products over $10 under $20",
			want: domain.QuerySpec{
				MinPrice: floatPtr(10),
				MaxPrice: floatPtr(20),
			},
		},
		{
			name:  "category priority order",
			query: "clothing or electronics",
			want:  domain.QuerySpec{CategoryContains: strPtr("electronics")},
		},
		{
			name:  "name capped at three tokens",
			query: "wireless ergonomic vertical trackball mouse",
			want:  domain.QuerySpec{NameContains: strPtr("wireless ergonomic vertical")},
		},
		{
			name:  "uppercase input is matched case-insensitively",
			query: "CHEAP ELECTRONICS",
			want: domain.QuerySpec{
				CategoryContains: strPtr("electronics"),
				SortBy:           keyPtr(domain.SortByPrice),
				SortOrder:        orderPtr(domain.SortAsc),
			},
		},
		{
			name:  "nothing extractable",
			query: "show me all the",
			want:  domain.QuerySpec{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := rulesStrategy{}.Parse(context.Background(), c.query)
			require.NoError(t, err)

			c.want.RawQuery = c.query
			c.want.Strategy = domain.StrategyRules
			assert.Equal(t, &c.want, got)
		})
	}
}

func TestRulesStrategyIsIdempotent(t *testing.T) {
	query := "cheap electronics under $50"

	first, err := rulesStrategy{}.Parse(context.Background(), query)
	require.NoError(t, err)
	second, err := rulesStrategy{}.Parse(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
