// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the ledger journal.

# Opening a Journal

Open selects a backend from the configured database type:

	journal, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL, logger)

The memory type returns a nil journal and the ledger runs without
persistence.

# Backends

  - sqlite: gorm with the pure-Go sqlite driver
  - postgres: gorm over a lib/pq connection, pinged before use
  - badger: embedded key-value store, one key per sequence number

SQL backends are traced with the gorm opentelemetry plugin.

# Schema

CreateSchema migrates the single ledger_journal table:

	seq       primary key, journal order
	entry_id  uuid assigned on append (unique)
	kind      operation kind (indexed)
	caller    operation caller (indexed)
	at        operation timestamp
	payload   JSON encoded LedgerOp

Safe to call multiple times.

# Replay

Replay visits entries in ascending sequence order. Entries are never
updated or deleted once appended.
*/
package db
