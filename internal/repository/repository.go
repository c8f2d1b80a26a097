package repository

import (
	"context"
	"time"

	"github.com/stocklens-io/stocklens/internal/domain"
)

// ProductRepository provides the read-only product snapshot the forecast
// layer consumes.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// SalesRepository provides windowed sales history per product. The storage
// format belongs to the implementation; the forecast engine only needs the
// window total.
type SalesRepository interface {
	UnitsSoldSince(ctx context.Context, productID int64, since time.Time) (int, error)
}
