package storage

import (
	"context"
	"fmt"

	"pagesmith/internal/domain"
)

// Store is a closable DocumentStore backend.
type Store interface {
	domain.DocumentStore
	Close() error
}

// Drivers supported by Open.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

// Config selects and parameterizes a persistence backend. Path is used by
// sqlite; Host/Port/Database/Username/Password by the server backends.
type Config struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

// Open creates the DocumentStore for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case DriverMySQL:
		return NewSQLStore(DriverMySQL, buildMySQLDSN(cfg))
	case DriverPostgres:
		return NewSQLStore(DriverPostgres, buildPostgresDSN(cfg))
	case DriverMongoDB:
		return NewMongoStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
