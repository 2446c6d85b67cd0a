// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/danielhkuo/voteledger/models"
)

// Database types
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeBadger   = "badger"
)

// Journal is a ledger journal that owns its underlying storage
type Journal interface {
	Append(op models.LedgerOp) error
	Replay(fn func(op models.LedgerOp) error) error
	Close() error
}

// Open returns the journal for dbType, or nil for the in-memory type
func Open(dbType, dbURL string, logger *slog.Logger) (Journal, error) {
	switch dbType {
	case TypeMemory, "":
		return nil, nil
	case TypeBadger:
		j, err := OpenBadgerJournal(dbURL, logger)
		if err != nil {
			return nil, err
		}
		return j, nil
	case TypeSQLite:
		gdb, err := gorm.Open(sqlite.Open(dbURL), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return openSQLJournal(gdb)
	case TypePostgres:
		sqlDB, err := sql.Open("postgres", dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return openSQLJournal(gdb)
	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	}
}

// openSQLJournal enables query tracing and migrates the schema. The
// connection is closed if either step fails.
func openSQLJournal(gdb *gorm.DB) (Journal, error) {
	j, err := func() (*SQLJournal, error) {
		if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("failed to enable tracing: %w", err)
		}
		return NewSQLJournal(gdb)
	}()
	if err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return j, nil
}
