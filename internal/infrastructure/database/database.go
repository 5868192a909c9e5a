package database

import (
	"errors"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLitePrefix marks a DSN as a local SQLite file ("sqlite:demand.db") or an
// in-memory database ("sqlite::memory:").
const SQLitePrefix = "sqlite:"

var ErrEmptyDSN = errors.New("database: empty DSN")

// Open opens a GORM DB from DSN. Postgres DSNs go through the pgx driver with
// PreferSimpleProtocol, which avoids 42P05 ("prepared statement already
// exists") behind connection poolers such as PgBouncer or Supabase.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, err
		}
		// A pooled second connection to ":memory:" would see an empty database.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// Pinger adapts a *gorm.DB to the health collector.
type Pinger struct {
	DB *gorm.DB
}

func (p *Pinger) Ping() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the pool behind db. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
