// Package database provides database connection management and utilities.
package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	apperrors "github.com/allisson/anonymizer/internal/errors"
)

const (
	// DriverPostgres selects the lib/pq driver.
	DriverPostgres = "postgres"
	// DriverMySQL selects the go-sql-driver/mysql driver.
	DriverMySQL = "mysql"
)

// ErrUnsupportedDriver indicates a database driver other than postgres or mysql.
var ErrUnsupportedDriver = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported database driver")

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	// PingTimeout bounds the initial connectivity check. Zero means no extra deadline.
	PingTimeout time.Duration
}

// ValidateDriver reports whether driver is one the session repositories support.
func ValidateDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverMySQL:
		return nil
	default:
		return apperrors.Wrapf(ErrUnsupportedDriver, "driver %q", driver)
	}
}

// Connect establishes a database connection with the given configuration.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if err := ValidateDriver(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, "failed to ping database")
	}

	return db, nil
}
