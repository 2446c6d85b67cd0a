// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danielhkuo/voteledger/models"
)

// SQLJournal stores the ledger journal in a relational database through gorm
type SQLJournal struct {
	db *gorm.DB
}

func NewSQLJournal(db *gorm.DB) (*SQLJournal, error) {
	if err := CreateSchema(db); err != nil {
		return nil, err
	}
	return &SQLJournal{db: db}, nil
}

func (j *SQLJournal) Append(op models.LedgerOp) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	entry := JournalEntry{
		Seq:     op.Seq,
		EntryID: uuid.NewString(),
		Kind:    op.Kind,
		Caller:  op.Caller.String(),
		At:      op.At,
		Payload: payload,
	}
	if err := j.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to insert journal entry %d: %w", op.Seq, err)
	}
	return nil
}

// Replay calls fn for every entry in sequence order
func (j *SQLJournal) Replay(fn func(op models.LedgerOp) error) error {
	rows, err := j.db.Model(&JournalEntry{}).Order("seq").Rows()
	if err != nil {
		return fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry JournalEntry
		if err := j.db.ScanRows(rows, &entry); err != nil {
			return fmt.Errorf("failed to scan journal entry: %w", err)
		}
		var op models.LedgerOp
		if err := json.Unmarshal(entry.Payload, &op); err != nil {
			return fmt.Errorf("failed to decode journal entry %d: %w", entry.Seq, err)
		}
		if err := fn(op); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (j *SQLJournal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
