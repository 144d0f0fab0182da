package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nerrad567/dbtools/logging"

	// Drivers registered for Open. The set mirrors the dialects the
	// library is run against; hosts using a different driver can open
	// their own pool and skip this package entirely.
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Connection pool defaults, applied when the corresponding Config field
// is zero.
const (
	// defaultMaxOpenConns caps concurrent connections to the server.
	defaultMaxOpenConns = 5

	// defaultMaxIdleConns is how many idle connections are kept ready.
	defaultMaxIdleConns = 2

	// defaultConnMaxLifetimeSecs recycles connections hourly.
	defaultConnMaxLifetimeSecs = 3600

	// defaultConnMaxIdleTimeSecs closes connections idle for ten minutes.
	defaultConnMaxIdleTimeSecs = 600

	// defaultPingTimeoutSecs bounds the connectivity check in Open.
	defaultPingTimeoutSecs = 5
)

// supportedDrivers enumerates what Open accepts as Config.Driver.
var supportedDrivers = map[string]bool{
	"sqlite3":  true,
	"mysql":    true,
	"postgres": true,
}

// DB wraps a sqlx connection pool with lifecycle and health helpers.
// It satisfies the connection interface the root package operates on.
type DB struct {
	*sqlx.DB
	driver  string
	safeDSN string
}

// Config contains database engine options.
// These map to the engine section of a host's config.yaml.
type Config struct {
	// Driver is the database/sql driver name: "sqlite3", "mysql" or
	// "postgres".
	Driver string `yaml:"driver"`

	// DSN is the driver-specific data source name. For SQLite this is a
	// filesystem path; for MySQL and PostgreSQL it carries credentials,
	// so prefer supplying it via environment override rather than a file
	// committed to version control.
	DSN string `yaml:"dsn"`

	// MaxOpenConns caps concurrent connections to the server.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is how many idle connections are kept ready.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime is the maximum connection age in seconds.
	ConnMaxLifetime int `yaml:"conn_max_lifetime"`

	// ConnMaxIdleTime is how long a connection may sit idle, in seconds.
	ConnMaxIdleTime int `yaml:"conn_max_idle_time"`

	// PingTimeout bounds the connectivity check in Open, in seconds.
	PingTimeout int `yaml:"ping_timeout"`
}

// withDefaults returns a copy of c with zero pool fields filled in.
func (c Config) withDefaults() Config {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetimeSecs
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = defaultConnMaxIdleTimeSecs
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = defaultPingTimeoutSecs
	}
	return c
}

// Validate checks the engine configuration.
//
// Returns:
//   - error: Description of every invalid field, or nil if valid
func (c Config) Validate() error {
	var errs []string

	switch {
	case c.Driver == "":
		errs = append(errs, "engine.driver is required")
	case !supportedDrivers[c.Driver]:
		errs = append(errs, fmt.Sprintf("engine.driver %q is not supported (use sqlite3, mysql or postgres)", c.Driver))
	}

	if c.DSN == "" {
		errs = append(errs, "engine.dsn is required")
	}

	if c.MaxOpenConns < 0 {
		errs = append(errs, "engine.max_open_conns must not be negative")
	}
	if c.MaxIdleConns < 0 {
		errs = append(errs, "engine.max_idle_conns must not be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// Open creates a new database engine with the specified configuration.
//
// It performs the following setup:
//  1. Applies pool defaults and validates the configuration
//  2. Opens a connection pool for the configured driver
//  3. Applies pool limits (open/idle counts, lifetimes)
//  4. Verifies connectivity with a bounded ping
//
// Parameters:
//   - cfg: Engine configuration
//
// Returns:
//   - *DB: Connected engine wrapper
//   - error: If validation, connection or the ping fails
func Open(cfg Config) (*DB, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s engine: %w", cfg.Driver, err)
	}

	// Configure connection pool
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)

	db := &DB{
		DB:      pool,
		driver:  cfg.Driver,
		safeDSN: RedactDSN(cfg.Driver, cfg.DSN),
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.PingTimeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		pool.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying %s engine connection: %w", cfg.Driver, err)
	}

	logging.Default().Debug("database engine opened",
		"driver", db.driver,
		"dsn", db.safeDSN,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return db, nil
}

// Close closes the engine's connection pool gracefully.
// It should be called when the host application shuts down.
//
// Returns:
//   - error: If closing fails
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database engine: %w", err)
	}
	return nil
}

// Driver returns the database/sql driver name the engine was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// SafeDSN returns the data source name with credentials redacted.
// It is the only form of the DSN this package ever logs.
func (db *DB) SafeDSN() string {
	return db.safeDSN
}

// HealthCheck verifies the engine is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
