// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JournalEntry is one row of the ledger journal. Payload holds the full
// operation as JSON; the other columns exist for querying.
type JournalEntry struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement:false"`
	EntryID   string    `gorm:"size:36;not null;uniqueIndex"`
	Kind      string    `gorm:"size:32;not null;index"`
	Caller    string    `gorm:"not null;index"`
	At        time.Time `gorm:"not null"`
	Payload   []byte    `gorm:"not null"`
	CreatedAt time.Time
}

func (JournalEntry) TableName() string {
	return "ledger_journal"
}

// CreateSchema creates all tables needed for the journal.
// Safe to call multiple times.
func CreateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&JournalEntry{}); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
