// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voteledger API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(ledger, bus, cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

bus and the metrics handler may be nil, in which case /events and the
metrics path are not served.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics  (cfg.MetricsPath)

Administration (admin caller token):

	POST /candidates    - Add candidate
	POST /voters        - Register voter
	POST /voting/start  - Open or restart the window
	POST /voting/end    - Close the window early

Voting (registered voter caller token):

	POST /votes         - Cast the caller's single ballot

Reads (public):

	GET /ledger             - Admin, window and counters
	GET /candidates         - All candidates with tallies
	GET /candidates/{id}    - One candidate
	GET /voters/{address}   - Registration and voted flags
	GET /voting/status      - Window state
	GET /votes              - Ballot log in arrival order
	GET /votes/count        - Voter count and total votes
	GET /results/winner     - Winner once voting is over
	GET /events             - Server-sent ledger events
*/
package router
