// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/danielhkuo/voteledger/models"
)

var ErrDuplicateEntry = errors.New("journal entry already exists")

var journalKeyPrefix = []byte("journal/")

func journalKey(seq uint64) []byte {
	key := make([]byte, len(journalKeyPrefix)+8)
	copy(key, journalKeyPrefix)
	binary.BigEndian.PutUint64(key[len(journalKeyPrefix):], seq)
	return key
}

// BadgerJournal stores the ledger journal in an embedded badger database.
// Keys are big-endian sequence numbers so iteration order is journal order.
type BadgerJournal struct {
	db *badger.DB
}

// OpenBadgerJournal opens (or creates) a journal in dir. An empty dir keeps
// everything in memory.
func OpenBadgerJournal(dir string, logger *slog.Logger) (*BadgerJournal, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{logger: logger}).
		WithLoggingLevel(badger.WARNING)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger journal: %w", err)
	}
	return &BadgerJournal{db: bdb}, nil
}

func (j *BadgerJournal) Append(op models.LedgerOp) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	key := journalKey(op.Seq)
	return j.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("%w: %d", ErrDuplicateEntry, op.Seq)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, payload)
	})
}

func (j *BadgerJournal) Replay(fn func(op models.LedgerOp) error) error {
	return j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(journalKeyPrefix); it.ValidForPrefix(journalKeyPrefix); it.Next() {
			var op models.LedgerOp
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &op)
			})
			if err != nil {
				return fmt.Errorf("failed to decode journal entry: %w", err)
			}
			if err := fn(op); err != nil {
				return err
			}
		}
		return nil
	})
}

func (j *BadgerJournal) Close() error {
	return j.db.Close()
}

// badgerLogger routes badger's printf-style logging to slog
type badgerLogger struct {
	logger *slog.Logger
}

func (b badgerLogger) Errorf(msg string, args ...any) {
	b.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, args...)), "component", "badger")
}

func (b badgerLogger) Warningf(msg string, args ...any) {
	b.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, args...)), "component", "badger")
}

func (b badgerLogger) Infof(msg string, args ...any) {
	b.logger.Info(strings.TrimSpace(fmt.Sprintf(msg, args...)), "component", "badger")
}

func (b badgerLogger) Debugf(msg string, args ...any) {
	b.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, args...)), "component", "badger")
}
