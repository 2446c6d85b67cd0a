// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voteledger API server.

voteledger runs a single election: an administrator adds candidates,
registers voters and opens a voting window, each registered voter casts
one ballot, and the winner is readable once the window has closed.

# Commands

	voteledger [flags]          Run the server (same as serve)
	voteledger serve [flags]    Run the server
	voteledger token -a ADDR    Print a caller token for ADDR
	voteledger version          Print the version

# Starting the Server

	ADMIN_ADDRESS=0xadmin TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 --admin 0xadmin --token-secret ...

# Configuration

Settings are layered: defaults, then .env, then the YAML config file,
then environment variables, then explicit flags.

Required settings:

  - ADMIN_ADDRESS (--admin): Administrator address
  - TOKEN_SECRET (--token-secret): Caller token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): memory, sqlite, postgres or badger (default: memory)
  - DATABASE_URL (-d): Journal location, required unless memory
  - CONFIG_FILE (-c): YAML config file
  - METRICS_PATH (--metrics-path): Prometheus endpoint (default: /metrics)
  - TOKEN_TTL (--token-ttl): Caller token lifetime (default: 24h)
  - SHUTDOWN_TIMEOUT (--shutdown-timeout): Graceful shutdown limit (default: 10s)
  - DEBUG (--debug): Debug logging

# Architecture

  - ledger: Voting state machine
  - event: Ledger event bus
  - db: Journal backends
  - handlers: HTTP request handlers (admin, voting, results, events)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Caller tokens
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
