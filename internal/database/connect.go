package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	sqldblogger "github.com/simukti/sqldb-logger"
)

const (
	SQLDialect          = "postgres"
	SQLConnectionString = "host=%s user=%s password=%s dbname=%s port=%s sslmode=disable"
)

var (
	//go:embed migrations/*.sql
	migrations embed.FS

	dbLogger = logger.Get("DB")

	ErrNotConnected = errors.New("DB manager has not yet connected")
)

type (
	// DatabaseConfig is a subset of the configuration focusing solely
	// on database connection items.
	DatabaseConfig struct {
		Enabled  bool   `yaml:"enabled" env:"DB_ENABLED" env-default:"false"`
		User     string `yaml:"username" env:"DB_USERNAME" env-default:"postgres"`
		Password string `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
		Name     string `yaml:"name" env:"DB_NAME" env-default:"REEL_DB"`
		Host     string `yaml:"host" env:"DB_HOST" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`

		ConnectAttempts int `yaml:"connect_attempts" env:"DB_CONNECT_ATTEMPTS" env-default:"5"`
	}

	SQLLogger struct {
		logger logger.Logger
	}

	// Queryable is satisfied by both a *sqlx.DB and a *sqlx.Tx, allowing
	// stores to be used inside or outside of a transaction.
	Queryable interface {
		sqlx.Ext
		Get(dest any, query string, args ...any) error
		Select(dest any, query string, args ...any) error
		NamedExec(query string, arg any) (sql.Result, error)
	}

	Manager interface {
		Connect(ctx context.Context, config DatabaseConfig) error
		GetSqlxDB() *sqlx.DB
		WrapTx(func(*sqlx.Tx) error) error
		Close() error
	}

	manager struct {
		rawDB *sql.DB
		db    *sqlx.DB
	}
)

func New() *manager {
	return &manager{}
}

// Connect opens the connection to the configured postgres instance, retrying
// a configurable number of times while the database becomes available. Once
// connected, all pending migrations are applied.
func (db *manager) Connect(ctx context.Context, config DatabaseConfig) error {
	dsn := fmt.Sprintf(SQLConnectionString, config.Host, config.User, config.Password, config.Name, config.Port)
	conn, err := sql.Open(SQLDialect, dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	conn = sqldblogger.OpenDriver(dsn, conn.Driver(), &SQLLogger{dbLogger})

	attempts := max(config.ConnectAttempts, 1)
	for attempt := 1; ; attempt++ {
		err := conn.PingContext(ctx)
		if err == nil {
			break
		}

		if attempt >= attempts {
			dbLogger.Emit(logger.ERROR, "All attempts FAILED!\n")
			_ = conn.Close()
			return err
		}

		dbLogger.Emit(logger.WARNING, "Attempt (%v/%v) failed... Retrying in 3s\n", attempt, attempts)
		select {
		case <-time.After(3 * time.Second):
		case <-ctx.Done():
			_ = conn.Close()
			return ctx.Err()
		}
	}

	db.rawDB = conn
	db.db = sqlx.NewDb(conn, SQLDialect)

	if err := db.ExecuteMigrations(); err != nil {
		return err
	}

	dbLogger.Emit(logger.SUCCESS, "Database connection complete!\n")
	return nil
}

// ExecuteMigrations uses the comp-time embedded SQL migrations (found in the 'migrations'
// dir in this package) and runs them against the current DB instance.
func (db *manager) ExecuteMigrations() error {
	if db.rawDB == nil {
		return fmt.Errorf("cannot execute migrations: %w", ErrNotConnected)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(dbLogger)
	if err := goose.SetDialect(SQLDialect); err != nil {
		return fmt.Errorf("failed to set dialect for DB migration: %w", err)
	}

	dbLogger.Emit(logger.INFO, "Checking for pending DB migrations...\n")
	if err := goose.Up(db.rawDB, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}

	dbLogger.Emit(logger.SUCCESS, "DB Goose migration complete!\n")
	return nil
}

// GetSqlxDB returns the sqlx database connection if
// one has been opened using 'Connect'. Otherwise, nil is returned.
func (db *manager) GetSqlxDB() *sqlx.DB {
	return db.db
}

// WrapTx is a convenience method around the top-level WrapTx, which simply
// uses the managers DB instance as the first argument.
func (db *manager) WrapTx(f func(tx *sqlx.Tx) error) error {
	if db.db == nil {
		return ErrNotConnected
	}

	return WrapTx(db.db, f)
}

func (db *manager) Close() error {
	if db.db == nil {
		return nil
	}

	err := db.db.Close()
	db.db, db.rawDB = nil, nil
	return err
}

func (l *SQLLogger) Log(_ context.Context, level sqldblogger.Level, msg string, data map[string]any) {
	template := "%s - %v\n"
	switch level {
	case sqldblogger.LevelTrace:
		l.logger.Verbosef(template, msg, data)
	case sqldblogger.LevelDebug, sqldblogger.LevelInfo:
		duration := data["duration"]
		query, ok := data["query"]
		if ok {
			l.logger.Debugf("%s [%.2fms] -- %s\n", msg, duration, query)
		} else {
			l.logger.Debugf("%s [%.2fms]\n", msg, duration)
		}
	case sqldblogger.LevelError:
		l.logger.Errorf(template, msg, data)
	}
}

// WrapTx starts a transaction against the provided DB, and then calls the user
// provided function. If this function errors, the transaction is rolled back - otherwise
// the transaction is committed.
func WrapTx(db *sqlx.DB, f func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := f(tx); err != nil {
		dbLogger.Errorf("Transaction failed... rolling back. Error: %s\n", err.Error())
		return err
	}

	return tx.Commit()
}
