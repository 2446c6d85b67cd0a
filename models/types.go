// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyAddress = errors.New("address is required")

// Address identifies a caller. Values are compared verbatim by the ledger,
// so boundary code should build them with ParseAddress.
type Address string

// ParseAddress trims and lower-cases an address string
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyAddress
	}
	return Address(s), nil
}

func (a Address) String() string {
	return string(a)
}

// Journal operation kinds
const (
	OpGenesis       = "genesis"
	OpAddCandidate  = "add_candidate"
	OpRegisterVoter = "register_voter"
	OpStartVoting   = "start_voting"
	OpEndVoting     = "end_voting"
	OpVote          = "vote"
)

// Request types

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type StartVotingRequest struct {
	DurationSeconds uint64 `json:"duration_seconds"`
}

type CastVoteRequest struct {
	CandidateID *uint64 `json:"candidate_id"`
	CID         string  `json:"cid"`
}

// Response types

type RegisterVoterResponse struct {
	Address Address `json:"address"`
}

type VoterStatusResponse struct {
	Address    Address `json:"address"`
	Registered bool    `json:"registered"`
	HasVoted   bool    `json:"has_voted"`
}

type VotingStatusResponse struct {
	Open     bool      `json:"open"`
	Active   bool      `json:"active"`
	Deadline time.Time `json:"deadline"`
}

type VoteCountResponse struct {
	VoterCount uint64 `json:"voter_count"`
	TotalVotes uint64 `json:"total_votes"`
}

type WinnerResponse struct {
	Winner     Candidate   `json:"winner"`
	Candidates []Candidate `json:"candidates"`
}

type LedgerSummaryResponse struct {
	Admin          Address      `json:"admin"`
	Window         VotingWindow `json:"window"`
	Open           bool         `json:"open"`
	CandidateCount int          `json:"candidate_count"`
	VoterCount     uint64       `json:"voter_count"`
	TotalVotes     uint64       `json:"total_votes"`
}

// Domain types

type Candidate struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
}

type VoteRecord struct {
	Voter       Address `json:"voter"`
	CandidateID uint64  `json:"candidate_id"`
	CID         string  `json:"cid"`
}

// VotingWindow is the raw window state. Whether ballots are accepted depends
// on the clock as well, see IsOpen.
type VotingWindow struct {
	Active   bool      `json:"active"`
	Deadline time.Time `json:"deadline"`
}

// IsOpen reports whether the window accepts ballots at now
func (w VotingWindow) IsOpen(now time.Time) bool {
	return w.Active && !now.After(w.Deadline)
}

// LedgerOp is one accepted state transition, in journal form.
// Fields not used by Kind are left zero.
type LedgerOp struct {
	Seq             uint64    `json:"seq"`
	Kind            string    `json:"kind"`
	Caller          Address   `json:"caller"`
	At              time.Time `json:"at"`
	Name            string    `json:"name,omitempty"`
	Voter           Address   `json:"voter,omitempty"`
	DurationSeconds uint64    `json:"duration_seconds,omitempty"`
	CandidateID     uint64    `json:"candidate_id,omitempty"`
	CID             string    `json:"cid,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
