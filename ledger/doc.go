// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the single-election voting state machine.

# Lifecycle

	l, err := ledger.New(admin, ledger.WithJournal(j), ledger.WithEventBus(bus))
	l.AddCandidate(admin, "Alice")
	l.RegisterVoter(admin, voter)
	l.StartVoting(admin, 3600)
	l.Vote(voter, 0, "bafy...")
	l.EndVoting(admin)
	winner, err := l.Winner()

Candidates get sequential ids starting at 0. Admin operations stay
available while voting is open.

# Vote Checks

A ballot is checked in this order and the first failure is returned:

 1. ErrNotRegisteredVoter: caller is not registered
 2. ErrVotingEnded: the window is not open at the current time
 3. ErrAlreadyVoted: caller already has a ballot
 4. ErrInvalidCandidate: no candidate with that id

A rejected operation leaves no trace in state, the journal or the
event stream.

# Journal

With a journal configured, New replays every entry before returning,
using each entry's own timestamp in place of the clock. The first
entry is a genesis record naming the administrator; opening a journal
with a different administrator fails with ErrAdminMismatch.

# Concurrency

Mutations are serialised. Reads take a shared lock and observe either
all or none of an operation.
*/
package ledger
