package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/stocklens-io/stocklens/internal/domain"
)

const extractionPrompt = `You are a query parser for an inventory database.
Your job is to extract search filters from natural language queries.

Output ONLY valid JSON with these optional fields:
- name_contains: string (product name search)
- category_contains: string (category name search)
- min_price: number
- max_price: number
- low_stock: boolean (true if the user wants low stock items)
- sort_by: string ("price", "quantity", or "name")
- sort_order: string ("asc" or "desc")

Examples:
"show me cheap electronics" -> {"category_contains": "electronics", "sort_by": "price", "sort_order": "asc"}
"low stock items" -> {"low_stock": true}
"expensive products over 100" -> {"min_price": 100, "sort_by": "price", "sort_order": "desc"}

Respond with ONLY the JSON object, no markdown, no explanation.`

// geminiStrategy asks a Gemini model to extract the filter fields. Every
// failure it can produce is soft: the interpreter logs it and falls back to
// the rules strategy.
type geminiStrategy struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

func newGeminiStrategy(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*geminiStrategy, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiStrategy{model: client.GenerativeModel(modelName), timeout: timeout}, nil
}

func (s *geminiStrategy) Name() domain.ParseStrategy { return domain.StrategyAI }

func (s *geminiStrategy) Parse(ctx context.Context, query string) (*domain.QuerySpec, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\nUser query: %s", extractionPrompt, query)
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	fields, err := decodeFilterJSON(text)
	if err != nil {
		return nil, err
	}

	spec := &domain.QuerySpec{RawQuery: query, Strategy: domain.StrategyAI}
	applyFields(spec, fields)

	return spec, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part %T", resp.Candidates[0].Content.Parts[0])
	}

	return string(text), nil
}

// decodeFilterJSON parses the model reply into a loose field map, tolerating
// the markdown code fence models sometimes wrap the object in despite the
// prompt.
func decodeFilterJSON(text string) (map[string]any, error) {
	cleaned := stripCodeFence(text)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("model reply is not a JSON object: %w", err)
	}

	return fields, nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}

// applyFields coerces each extracted field independently. A field of the
// wrong shape is treated exactly like a missing field; it never fails the
// whole parse.
func applyFields(spec *domain.QuerySpec, fields map[string]any) {
	if v, ok := asString(fields["name_contains"]); ok {
		spec.NameContains = &v
	}
	if v, ok := asString(fields["category_contains"]); ok {
		spec.CategoryContains = &v
	}
	if v, ok := asFloat(fields["min_price"]); ok {
		spec.MinPrice = &v
	}
	if v, ok := asFloat(fields["max_price"]); ok {
		spec.MaxPrice = &v
	}
	if v, ok := fields["low_stock"].(bool); ok {
		spec.LowStock = v
	}

	if raw, ok := asString(fields["sort_by"]); ok {
		if key, valid := domain.ParseSortKey(raw); valid {
			order := domain.SortAsc
			if rawOrder, ok := asString(fields["sort_order"]); ok {
				if parsed, valid := domain.ParseSortOrder(rawOrder); valid {
					order = parsed
				}
			}
			spec.SortBy = &key
			spec.SortOrder = &order
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}

	return s, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}

	return 0, false
}
