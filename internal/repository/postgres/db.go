package postgres

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/stocklens-io/stocklens/internal/config"
)

var (
	dbInstance *sqlx.DB
	once       sync.Once
)

// NewDB creates the database connection pool. The pool is process-wide; the
// first caller pays for the connect, later callers share it.
func NewDB(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		dbInstance = db
	})

	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return dbInstance, nil
}
