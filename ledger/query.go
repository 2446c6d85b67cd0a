// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"slices"

	"github.com/danielhkuo/voteledger/models"
)

// AllCandidates returns every candidate in id order with current tallies
func (l *Ledger) AllCandidates() []models.Candidate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.candidates)
}

func (l *Ledger) Candidate(id uint64) (models.Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if id >= uint64(len(l.candidates)) {
		return models.Candidate{}, ErrInvalidCandidate
	}
	return l.candidates[id], nil
}

// AllVoteRecords returns the ballot log in arrival order
func (l *Ledger) AllVoteRecords() []models.VoteRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records)
}

func (l *Ledger) VoterCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.records))
}

func (l *Ledger) TotalVotes() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total uint64
	for _, c := range l.candidates {
		total += c.VoteCount
	}
	return total
}

// IsVotingActive reports whether a ballot cast now would be inside the window
func (l *Ledger) IsVotingActive() bool {
	now := l.clock.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.window.IsOpen(now)
}

// Window returns the raw window flag and deadline
func (l *Ledger) Window() models.VotingWindow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.window
}

func (l *Ledger) IsRegistered(addr models.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registered[addr]
}

func (l *Ledger) HasVoted(addr models.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.voted[addr]
}

// Winner returns the candidate with the most votes once voting is over.
// Ties go to the lowest id.
func (l *Ledger) Winner() (models.Candidate, error) {
	now := l.clock.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.window.IsOpen(now) {
		return models.Candidate{}, ErrVotingStillActive
	}
	if len(l.candidates) == 0 {
		return models.Candidate{}, ErrNoCandidates
	}
	best := 0
	for i := 1; i < len(l.candidates); i++ {
		if l.candidates[i].VoteCount > l.candidates[best].VoteCount {
			best = i
		}
	}
	return l.candidates[best], nil
}

// Summary is a consistent view of the ledger-wide counters
type Summary struct {
	Admin          models.Address
	Window         models.VotingWindow
	Open           bool
	CandidateCount int
	VoterCount     uint64
	TotalVotes     uint64
}

func (l *Ledger) Summary() Summary {
	now := l.clock.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := Summary{
		Admin:          l.admin,
		Window:         l.window,
		Open:           l.window.IsOpen(now),
		CandidateCount: len(l.candidates),
		VoterCount:     uint64(len(l.records)),
	}
	for _, c := range l.candidates {
		s.TotalVotes += c.VoteCount
	}
	return s
}
