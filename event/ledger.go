// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"time"

	"github.com/danielhkuo/voteledger/models"
)

const (
	VoteCastEventType        EventType = "ledger.vote-cast"
	CandidateAddedEventType  EventType = "ledger.candidate-added"
	VoterRegisteredEventType EventType = "ledger.voter-registered"
	VotingStartedEventType   EventType = "ledger.voting-started"
	VotingEndedEventType     EventType = "ledger.voting-ended"
)

// LedgerEventTypes lists every event type the ledger publishes
var LedgerEventTypes = []EventType{
	VoteCastEventType,
	CandidateAddedEventType,
	VoterRegisteredEventType,
	VotingStartedEventType,
	VotingEndedEventType,
}

type VoteCastEvent struct {
	Seq         uint64         `json:"seq"`
	Voter       models.Address `json:"voter"`
	CandidateID uint64         `json:"candidate_id"`
	CID         string         `json:"cid"`
}

type CandidateAddedEvent struct {
	Seq       uint64           `json:"seq"`
	Candidate models.Candidate `json:"candidate"`
}

type VoterRegisteredEvent struct {
	Seq   uint64         `json:"seq"`
	Voter models.Address `json:"voter"`
}

type VotingStartedEvent struct {
	Seq      uint64    `json:"seq"`
	Deadline time.Time `json:"deadline"`
}

type VotingEndedEvent struct {
	Seq uint64 `json:"seq"`
}
