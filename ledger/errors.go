// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "errors"

var (
	ErrUnauthorized       = errors.New("only the administrator can perform this action")
	ErrAlreadyRegistered  = errors.New("voter already registered")
	ErrNotRegisteredVoter = errors.New("not a registered voter")
	ErrVotingEnded        = errors.New("voting is not open")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrInvalidCandidate   = errors.New("invalid candidate")
	ErrVotingStillActive  = errors.New("voting is still active")
	ErrInvalidDuration    = errors.New("voting duration out of range")
	ErrNoCandidates       = errors.New("no candidates")
	ErrAdminMismatch      = errors.New("administrator does not match journal genesis")
	ErrCorruptJournal     = errors.New("corrupt journal")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrAlreadyRegistered, "already_registered"},
	{ErrNotRegisteredVoter, "not_registered_voter"},
	{ErrVotingEnded, "voting_ended"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrInvalidCandidate, "invalid_candidate"},
	{ErrVotingStillActive, "voting_still_active"},
	{ErrInvalidDuration, "invalid_duration"},
	{ErrNoCandidates, "no_candidates"},
}

// ErrorCode returns the stable machine-readable code for a ledger failure,
// or "" when err is not one.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}
