package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/stocklens-io/stocklens/internal/cache"
	"github.com/stocklens-io/stocklens/internal/domain"
	"github.com/stocklens-io/stocklens/internal/forecast"
	"github.com/stocklens-io/stocklens/internal/repository"
)

// defaultFetchConcurrency bounds how many per-product sales queries run at
// once against the data store.
const defaultFetchConcurrency = 8

// ForecastService wires the data-access capability, the cache and the pure
// forecast engine into the caller-facing computeForecasts operation.
type ForecastService struct {
	products    repository.ProductRepository
	sales       repository.SalesRepository
	engine      *forecast.Engine
	cache       cache.ForecastCache
	concurrency int64
}

func NewForecastService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	engine *forecast.Engine,
	cacheImpl cache.ForecastCache,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}

	return &ForecastService{
		products:    products,
		sales:       sales,
		engine:      engine,
		cache:       cacheImpl,
		concurrency: defaultFetchConcurrency,
	}
}

// ComputeForecasts returns the sorted forecast list covering every product.
// Either every per-product sales query succeeds or the whole call fails;
// partial forecasts are never returned. Cache trouble degrades to a warning,
// never to a failed request.
func (s *ForecastService) ComputeForecasts(ctx context.Context) ([]domain.Forecast, error) {
	if cached, ok, err := s.cache.Get(ctx, s.engine.LookbackDays(), s.engine.TargetDays()); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	unitsSold, err := s.fetchUnitsSold(ctx, products)
	if err != nil {
		return nil, err
	}

	forecasts := s.engine.Compute(products, unitsSold)

	if err := s.cache.Set(ctx, s.engine.LookbackDays(), s.engine.TargetDays(), forecasts); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return forecasts, nil
}

// fetchUnitsSold fans the per-product window sums out under a weighted
// semaphore. The queries are independent, so order does not matter; the
// first error wins and fails the whole fetch.
func (s *ForecastService) fetchUnitsSold(ctx context.Context, products []domain.Product) (map[int64]int, error) {
	since := s.engine.WindowStart(time.Now().UTC())

	var (
		sem       = semaphore.NewWeighted(s.concurrency)
		wg        sync.WaitGroup
		mu        sync.Mutex
		unitsSold = make(map[int64]int, len(products))
		firstErr  error
	)

	for _, p := range products {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("could not acquire semaphore: %w", err)
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(p domain.Product) {
			defer wg.Done()
			defer sem.Release(1)

			total, err := s.sales.UnitsSoldSince(ctx, p.ID, since)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("sales history for product %d: %w", p.ID, err)
				}
				return
			}
			unitsSold[p.ID] = total
		}(p)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return unitsSold, nil
}
