package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/nsukonny/ecurring-sync/internal/config"
	"github.com/nsukonny/ecurring-sync/internal/logger"
)

// DB wraps sqlx.DB for the local user directory and metadata tables
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// NewDB creates a new DB instance
func NewDB(config *config.Configuration, logger *logger.Logger) (*DB, error) {
	dsn := config.Postgres.GetDSN()
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}

	return &DB{DB: db, logger: logger}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorf("Error closing database: %v", err)
	}
}
