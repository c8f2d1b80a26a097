package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/stocklens-io/stocklens/pkg/logger"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the schema and load a demo dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db-url",
				Usage:    "Database connection string",
				Required: true,
				EnvVars:  []string{"DATABASE_URL"},
			},
		},
		Action: runSeed,
	}
}

type seedProduct struct {
	sku       string
	name      string
	category  string
	quantity  int
	unitPrice float64
	threshold int
	// Units sold per day over the trailing month; drives the demo
	// forecast output.
	dailySales int
}

var seedCategories = []string{"Electronics", "Office Supplies", "Furniture"}

var seedProducts = []seedProduct{
	{"ELEC-001", "Wireless Mouse", "Electronics", 150, 29.99, 20, 4},
	{"ELEC-002", "USB-C Hub", "Electronics", 8, 49.99, 10, 3},
	{"OFF-001", "A4 Paper Ream", "Office Supplies", 200, 5.99, 50, 6},
	{"OFF-002", "Ballpoint Pens (Pack of 12)", "Office Supplies", 5, 4.99, 10, 1},
	{"FURN-001", "Ergonomic Office Chair", "Furniture", 25, 299.99, 5, 0},
}

func runSeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createSchema(c.Context, db); err != nil {
		return err
	}

	inserted, err := seedData(c.Context, db)
	if err != nil {
		return err
	}
	if !inserted {
		logger.Log.Info().Msg("seed: database already has products, nothing to do")
		return nil
	}

	logger.Log.Info().
		Int("categories", len(seedCategories)).
		Int("products", len(seedProducts)).
		Msg("seed: demo dataset loaded")
	return nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            sku TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            quantity INT NOT NULL DEFAULT 0,
            unit_price NUMERIC(10,2) NOT NULL DEFAULT 0,
            low_stock_threshold INT NOT NULL DEFAULT 10,
            category_id BIGINT REFERENCES categories(id)
        )`,
		`CREATE TABLE IF NOT EXISTS sales_events (
            id BIGSERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity_sold INT NOT NULL CHECK (quantity_sold > 0),
            sold_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sales_events_product_sold_at
            ON sales_events (product_id, sold_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// seedData loads the demo dataset inside one transaction. It is a no-op when
// products already exist, so rerunning seed is safe.
func seedData(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	categoryIDs := make(map[string]int64, len(seedCategories))
	for _, name := range seedCategories {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (name) VALUES ($1)
             ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
             RETURNING id`, name).Scan(&id)
		if err != nil {
			return false, fmt.Errorf("failed to insert category %q: %w", name, err)
		}
		categoryIDs[name] = id
	}

	now := time.Now().UTC()
	for _, p := range seedProducts {
		var productID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO products (sku, name, quantity, unit_price, low_stock_threshold, category_id)
             VALUES ($1, $2, $3, $4, $5, $6)
             RETURNING id`,
			p.sku, p.name, p.quantity, p.unitPrice, p.threshold, categoryIDs[p.category]).Scan(&productID)
		if err != nil {
			return false, fmt.Errorf("failed to insert product %q: %w", p.sku, err)
		}

		if p.dailySales == 0 {
			continue
		}
		for day := 1; day <= 30; day++ {
			soldAt := now.AddDate(0, 0, -day)
			_, err := tx.ExecContext(ctx,
				`INSERT INTO sales_events (product_id, quantity_sold, sold_at)
                 VALUES ($1, $2, $3)`,
				productID, p.dailySales, soldAt)
			if err != nil {
				return false, fmt.Errorf("failed to insert sales history for %q: %w", p.sku, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed data: %w", err)
	}
	return true, nil
}
