// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/models"
)

// maxDurationSeconds is the longest window representable as a time.Duration
const maxDurationSeconds = uint64(math.MaxInt64 / int64(time.Second))

// Journal persists accepted operations so a ledger can be rebuilt on start-up
type Journal interface {
	Append(op models.LedgerOp) error
	Replay(fn func(op models.LedgerOp) error) error
}

type Option func(*Ledger)

func WithClock(clock Clock) Option {
	return func(l *Ledger) { l.clock = clock }
}

func WithEventBus(bus *event.EventBus) Option {
	return func(l *Ledger) { l.bus = bus }
}

func WithJournal(journal Journal) Option {
	return func(l *Ledger) { l.journal = journal }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithPromRegistry(promRegistry prometheus.Registerer) Option {
	return func(l *Ledger) { l.promRegistry = promRegistry }
}

// Ledger is the voting state machine. Mutating operations are serialised
// under mu and either fully apply or leave the state untouched.
type Ledger struct {
	mu         sync.RWMutex
	admin      models.Address
	candidates []models.Candidate
	registered map[models.Address]bool
	voted      map[models.Address]bool
	records    []models.VoteRecord
	window     models.VotingWindow
	seq        uint64

	clock        Clock
	bus          *event.EventBus
	journal      Journal
	logger       *slog.Logger
	promRegistry prometheus.Registerer
	metrics      *ledgerMetrics
}

// New creates a ledger administered by admin. With a journal configured, any
// existing entries are replayed first and must have been written for the
// same administrator.
func New(admin models.Address, opts ...Option) (*Ledger, error) {
	if admin == "" {
		return nil, models.ErrEmptyAddress
	}
	l := &Ledger{
		admin:      admin,
		candidates: []models.Candidate{},
		registered: make(map[models.Address]bool),
		voted:      make(map[models.Address]bool),
		records:    []models.VoteRecord{},
		clock:      SystemClock{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.promRegistry != nil {
		l.initMetrics(l.promRegistry)
	}
	if l.journal != nil {
		if err := l.restore(); err != nil {
			return nil, err
		}
	} else {
		// Genesis is implicit, so sequence numbers match a journalled ledger
		l.seq = 1
	}
	l.syncGauges()
	return l, nil
}

func (l *Ledger) restore() error {
	replayed := 0
	err := l.journal.Replay(func(op models.LedgerOp) error {
		if op.Seq != l.seq+1 {
			return fmt.Errorf("%w: expected entry %d, got %d", ErrCorruptJournal, l.seq+1, op.Seq)
		}
		if replayed == 0 {
			if op.Kind != models.OpGenesis {
				return fmt.Errorf("%w: first entry is %q", ErrCorruptJournal, op.Kind)
			}
			if op.Caller != l.admin {
				return fmt.Errorf("%w: journal admin %s", ErrAdminMismatch, op.Caller)
			}
		} else {
			if err := l.check(op, op.At); err != nil {
				return fmt.Errorf("%w: entry %d: %v", ErrCorruptJournal, op.Seq, err)
			}
			l.apply(op)
		}
		l.seq = op.Seq
		replayed++
		return nil
	})
	if err != nil {
		return err
	}
	if replayed > 0 {
		l.logger.Info("ledger restored from journal",
			"entries", replayed,
			"candidates", len(l.candidates),
			"votes", len(l.records),
		)
		return nil
	}
	genesis := models.LedgerOp{
		Seq:    1,
		Kind:   models.OpGenesis,
		Caller: l.admin,
		At:     stamp(l.clock.Now()),
	}
	if err := l.journal.Append(genesis); err != nil {
		return fmt.Errorf("failed to write journal genesis: %w", err)
	}
	l.seq = genesis.Seq
	return nil
}

// stamp normalises t for the journal so that a recorded timestamp replays to
// the same value. Only the recorded value is truncated; window checks use the
// clock reading itself, the same as the read side.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Admin returns the administrator fixed at creation
func (l *Ledger) Admin() models.Address {
	return l.admin
}

// AddCandidate appends a candidate with the next sequential id
func (l *Ledger) AddCandidate(caller models.Address, name string) (models.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.commit(models.LedgerOp{Kind: models.OpAddCandidate, Caller: caller, Name: name}); err != nil {
		return models.Candidate{}, err
	}
	return l.candidates[len(l.candidates)-1], nil
}

func (l *Ledger) RegisterVoter(caller models.Address, voter models.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(models.LedgerOp{Kind: models.OpRegisterVoter, Caller: caller, Voter: voter})
}

// StartVoting opens the window until now+durationSeconds. Calling it again
// replaces the deadline, whether or not the window is still open.
func (l *Ledger) StartVoting(caller models.Address, durationSeconds uint64) (models.VotingWindow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.commit(models.LedgerOp{
		Kind:            models.OpStartVoting,
		Caller:          caller,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		return models.VotingWindow{}, err
	}
	return l.window, nil
}

func (l *Ledger) EndVoting(caller models.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(models.LedgerOp{Kind: models.OpEndVoting, Caller: caller})
}

// Vote records caller's single ballot for candidateID. cid is stored as given.
func (l *Ledger) Vote(caller models.Address, candidateID uint64, cid string) (models.VoteRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.commit(models.LedgerOp{
		Kind:        models.OpVote,
		Caller:      caller,
		CandidateID: candidateID,
		CID:         cid,
	})
	if err != nil {
		return models.VoteRecord{}, err
	}
	return l.records[len(l.records)-1], nil
}

// commit runs one operation end to end. l.mu must be held for writing.
func (l *Ledger) commit(op models.LedgerOp) error {
	now := l.clock.Now()
	op.At = stamp(now)
	if err := l.check(op, now); err != nil {
		l.observe(op.Kind, err)
		l.logger.Debug("ledger operation rejected",
			"kind", op.Kind,
			"caller", op.Caller,
			"error", err,
		)
		return err
	}
	op.Seq = l.seq + 1
	if l.journal != nil {
		if err := l.journal.Append(op); err != nil {
			l.observe(op.Kind, err)
			l.logger.Error("failed to append journal entry", "kind", op.Kind, "seq", op.Seq, "error", err)
			return fmt.Errorf("failed to append journal entry: %w", err)
		}
	}
	l.seq = op.Seq
	l.apply(op)
	l.syncGauges()
	l.observe(op.Kind, nil)
	if op.Kind == models.OpVote && l.metrics != nil {
		l.metrics.votesCast.Inc()
	}
	l.publish(op)
	l.logger.Info("ledger operation applied",
		"kind", op.Kind,
		"seq", op.Seq,
		"caller", op.Caller,
	)
	return nil
}

// check validates op against the current state as of now
func (l *Ledger) check(op models.LedgerOp, now time.Time) error {
	switch op.Kind {
	case models.OpAddCandidate, models.OpEndVoting:
		if op.Caller != l.admin {
			return ErrUnauthorized
		}
	case models.OpRegisterVoter:
		if op.Caller != l.admin {
			return ErrUnauthorized
		}
		if l.registered[op.Voter] {
			return ErrAlreadyRegistered
		}
	case models.OpStartVoting:
		if op.Caller != l.admin {
			return ErrUnauthorized
		}
		if op.DurationSeconds > maxDurationSeconds {
			return ErrInvalidDuration
		}
	case models.OpVote:
		if !l.registered[op.Caller] {
			return ErrNotRegisteredVoter
		}
		if !l.window.IsOpen(now) {
			return ErrVotingEnded
		}
		if l.voted[op.Caller] {
			return ErrAlreadyVoted
		}
		if op.CandidateID >= uint64(len(l.candidates)) {
			return ErrInvalidCandidate
		}
	default:
		return fmt.Errorf("%w: unexpected operation %q", ErrCorruptJournal, op.Kind)
	}
	return nil
}

// apply mutates state for an op that already passed check
func (l *Ledger) apply(op models.LedgerOp) {
	switch op.Kind {
	case models.OpAddCandidate:
		l.candidates = append(l.candidates, models.Candidate{
			ID:   uint64(len(l.candidates)),
			Name: op.Name,
		})
	case models.OpRegisterVoter:
		l.registered[op.Voter] = true
	case models.OpStartVoting:
		l.window = models.VotingWindow{
			Active:   true,
			Deadline: op.At.Add(time.Duration(op.DurationSeconds) * time.Second),
		}
	case models.OpEndVoting:
		l.window.Active = false
	case models.OpVote:
		// Tally, voter flag and log move together
		l.candidates[op.CandidateID].VoteCount++
		l.voted[op.Caller] = true
		l.records = append(l.records, models.VoteRecord{
			Voter:       op.Caller,
			CandidateID: op.CandidateID,
			CID:         op.CID,
		})
	}
}

func (l *Ledger) publish(op models.LedgerOp) {
	if l.bus == nil {
		return
	}
	var evtType event.EventType
	var data any
	switch op.Kind {
	case models.OpAddCandidate:
		evtType = event.CandidateAddedEventType
		data = event.CandidateAddedEvent{Seq: op.Seq, Candidate: l.candidates[len(l.candidates)-1]}
	case models.OpRegisterVoter:
		evtType = event.VoterRegisteredEventType
		data = event.VoterRegisteredEvent{Seq: op.Seq, Voter: op.Voter}
	case models.OpStartVoting:
		evtType = event.VotingStartedEventType
		data = event.VotingStartedEvent{Seq: op.Seq, Deadline: l.window.Deadline}
	case models.OpEndVoting:
		evtType = event.VotingEndedEventType
		data = event.VotingEndedEvent{Seq: op.Seq}
	case models.OpVote:
		evtType = event.VoteCastEventType
		data = event.VoteCastEvent{
			Seq:         op.Seq,
			Voter:       op.Caller,
			CandidateID: op.CandidateID,
			CID:         op.CID,
		}
	default:
		return
	}
	l.bus.Publish(evtType, event.NewEventAt(evtType, data, op.At))
}
