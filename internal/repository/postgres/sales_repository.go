package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stocklens-io/stocklens/internal/repository"
)

type salesRepository struct {
	db *sqlx.DB
}

func NewSalesRepository(db *sqlx.DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

// UnitsSoldSince sums a product's sales inside the window. A product with no
// events resolves to zero, not an error.
func (r *salesRepository) UnitsSoldSince(ctx context.Context, productID int64, since time.Time) (int, error) {
	query := `
        SELECT COALESCE(SUM(quantity_sold), 0)
        FROM sales_events
        WHERE product_id = $1 AND sold_at >= $2
    `

	var total int
	if err := r.db.GetContext(ctx, &total, query, productID, since); err != nil {
		return 0, fmt.Errorf("error summing sales for product %d: %w", productID, err)
	}

	return total, nil
}
