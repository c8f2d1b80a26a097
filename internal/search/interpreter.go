package search

import (
	"context"
	"sync"

	"github.com/stocklens-io/stocklens/internal/config"
	"github.com/stocklens-io/stocklens/internal/domain"
	"github.com/stocklens-io/stocklens/pkg/logger"
)

// Strategy is one way of turning free text into a structured filter.
type Strategy interface {
	Name() domain.ParseStrategy
	Parse(ctx context.Context, query string) (*domain.QuerySpec, error)
}

// Interpreter resolves free-text queries through the AI strategy when one is
// configured and falls back to the deterministic rules strategy on any
// failure. Interpret never returns an error; the worst case for a caller is
// an all-absent QuerySpec.
type Interpreter struct {
	cfg   config.AIConfig
	rules Strategy

	initOnce sync.Once
	ai       Strategy // nil when the AI backend is unavailable
}

func NewInterpreter(cfg config.AIConfig) *Interpreter {
	return &Interpreter{cfg: cfg, rules: rulesStrategy{}}
}

// initAI runs at most once for the lifetime of the interpreter, no matter
// how many goroutines call Interpret concurrently. A failed initialization
// leaves ai nil and is never retried: every later call goes straight to the
// rules strategy.
func (i *Interpreter) initAI(ctx context.Context) {
	i.initOnce.Do(func() {
		if i.cfg.Disabled || i.cfg.APIKey == "" {
			logger.Log.Info().Msg("search: AI backend not configured, using rules strategy only")
			return
		}

		strategy, err := newGeminiStrategy(ctx, i.cfg.APIKey, i.cfg.Model, i.cfg.Timeout())
		if err != nil {
			logger.Log.Warn().Err(err).Msg("search: AI backend initialization failed, using rules strategy only")
			return
		}

		i.ai = strategy
	})
}

// Interpret parses raw into a QuerySpec and reports which strategy resolved
// it. AI failures of every kind (network, timeout, malformed reply) are
// soft: logged, then recovered by the rules strategy.
func (i *Interpreter) Interpret(ctx context.Context, raw string) *domain.QuerySpec {
	i.initAI(ctx)

	for _, strategy := range i.chain() {
		spec, err := strategy.Parse(ctx, raw)
		if err == nil {
			return spec
		}
		logger.Log.Warn().
			Err(err).
			Str("strategy", string(strategy.Name())).
			Msg("search: strategy failed, falling back")
	}

	// Unreachable while the rules strategy is infallible, but keeps the
	// never-fails contract explicit.
	return &domain.QuerySpec{RawQuery: raw, Strategy: domain.StrategyNone}
}

func (i *Interpreter) chain() []Strategy {
	if i.ai != nil {
		return []Strategy{i.ai, i.rules}
	}

	return []Strategy{i.rules}
}
