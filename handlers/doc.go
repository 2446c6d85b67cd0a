// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voteledger API.

# Handler Types

Each handler is a struct holding the ledger and, where callers must be
identified, the config:

  - AdminHandler: Candidates, voter registration and the voting window
  - VotingHandler: Ballot casting
  - ResultsHandler: Every read, including the winner
  - EventsHandler: Server-sent event stream of ledger events

Handlers are created via constructor functions:

	adminHandler := handlers.NewAdminHandler(ledger, cfg)

# Callers

Mutating routes read the caller from an "Authorization: Bearer" caller
token. A missing or invalid token is a 401. Whether the caller may perform
the operation is left to the ledger, so a valid token for the wrong
address comes back as a 403 with code "unauthorized" or
"not_registered_voter".

# Errors

Ledger rejections are returned as models.ErrorResponse with the ledger's
error code:

	403  unauthorized, not_registered_voter
	409  already_registered, voting_ended, already_voted,
	     voting_still_active, no_candidates
	400  invalid_candidate, invalid_duration
	404  invalid_candidate on GET /candidates/{id}

Any other failure, such as a journal write error, is a 500.

# Events

GET /events subscribes to every ledger event type and writes each event as

	event: ledger.vote-cast
	data: {"seq":5,"voter":"0x...","candidate_id":1,"cid":"..."}

with a comment line every 15 seconds to keep idle connections open.
*/
package handlers
