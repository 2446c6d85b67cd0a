// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - AddCandidateRequest: name
  - RegisterVoterRequest: address
  - StartVotingRequest: duration_seconds
  - CastVoteRequest: candidate_id, cid

# Response Types

Types for JSON responses:

  - RegisterVoterResponse: address
  - VoterStatusResponse: address, registered, has_voted
  - VotingStatusResponse: open, active, deadline
  - VoteCountResponse: voter_count, total_votes
  - WinnerResponse: winner, candidates
  - LedgerSummaryResponse: admin, window and counters
  - ErrorResponse: error, message, code

# Domain Types

  - Address: normalised caller identity, see ParseAddress
  - Candidate: id, name and running tally
  - VoteRecord: one accepted ballot
  - VotingWindow: active flag and deadline
  - LedgerOp: journal form of an accepted operation

# Constants

Journal operation kinds:

	OpGenesis       = "genesis"
	OpAddCandidate  = "add_candidate"
	OpRegisterVoter = "register_voter"
	OpStartVoting   = "start_voting"
	OpEndVoting     = "end_voting"
	OpVote          = "vote"
*/
package models
