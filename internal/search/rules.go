package search

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/stocklens-io/stocklens/internal/domain"
)

// categoryVocabulary is checked in priority order; the first hit wins and
// suppresses the name search entirely.
var categoryVocabulary = []string{
	"electronics", "clothing", "food", "furniture", "toys", "books", "sports", "health",
}

var (
	maxPricePattern = regexp.MustCompile(`under\s*\$?(\d+(?:\.\d{2})?)`)
	minPricePattern = regexp.MustCompile(`over\s*\$?(\d+(?:\.\d{2})?)`)
	numberPattern   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Filler words that never identify a product.
var stopWords = map[string]struct{}{
	"show": {}, "me": {}, "find": {}, "get": {}, "list": {}, "all": {},
	"the": {}, "a": {}, "an": {}, "in": {}, "with": {}, "that": {},
	"are": {}, "is": {}, "product": {}, "products": {}, "item": {}, "items": {},
}

// consumedKeywords are tokens the stock, sort, price and category detectors
// already account for; they must not leak into the name search.
var consumedKeywords = buildConsumedKeywords()

func buildConsumedKeywords() map[string]struct{} {
	words := []string{"cheap", "cheapest", "expensive", "pricey", "low", "stock", "under", "over"}
	words = append(words, categoryVocabulary...)

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// rulesStrategy is the deterministic keyword/regex interpreter. It is the
// reliability fallback, so matching behavior is pinned down by tests and the
// detector order below is load-bearing: categories must be resolved before
// name tokens are filtered.
type rulesStrategy struct{}

func (rulesStrategy) Name() domain.ParseStrategy { return domain.StrategyRules }

func (rulesStrategy) Parse(_ context.Context, query string) (*domain.QuerySpec, error) {
	lowered := strings.ToLower(query)
	spec := &domain.QuerySpec{RawQuery: query, Strategy: domain.StrategyRules}

	if strings.Contains(lowered, "low stock") || strings.Contains(lowered, "out of stock") {
		spec.LowStock = true
	}

	// The descending check runs second on purpose: a query carrying both
	// hints ("cheap but expensive-looking") resolves to descending price.
	if strings.Contains(lowered, "cheap") || strings.Contains(lowered, "cheapest") {
		setSort(spec, domain.SortByPrice, domain.SortAsc)
	}
	if strings.Contains(lowered, "expensive") || strings.Contains(lowered, "pricey") {
		setSort(spec, domain.SortByPrice, domain.SortDesc)
	}

	if m := maxPricePattern.FindStringSubmatch(lowered); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			spec.MaxPrice = &v
		}
	}
	if m := minPricePattern.FindStringSubmatch(lowered); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			spec.MinPrice = &v
		}
	}

	for _, cat := range categoryVocabulary {
		if strings.Contains(lowered, cat) {
			c := cat
			spec.CategoryContains = &c
			break
		}
	}

	if spec.CategoryContains == nil {
		if name := extractName(lowered); name != "" {
			spec.NameContains = &name
		}
	}

	return spec, nil
}

// extractName keeps the first three tokens that plausibly name a product:
// not a stop word, not a detector keyword, not a price operand, longer than
// two characters.
func extractName(lowered string) string {
	var kept []string
	for _, token := range strings.Fields(lowered) {
		if len(token) <= 2 || strings.HasPrefix(token, "$") {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		if _, ok := consumedKeywords[token]; ok {
			continue
		}
		// Bare numbers are price-bound operands, already captured above.
		if numberPattern.MatchString(token) {
			continue
		}

		kept = append(kept, token)
		if len(kept) == 3 {
			break
		}
	}

	return strings.Join(kept, " ")
}

func setSort(spec *domain.QuerySpec, key domain.SortKey, order domain.SortOrder) {
	k, o := key, order
	spec.SortBy = &k
	spec.SortOrder = &o
}
