// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/handlers"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
)

// NewRouter wires every route to l. The event stream is only served when bus
// is set and metrics only when metrics is set.
func NewRouter(l *ledger.Ledger, bus *event.EventBus, cfg cliparse.Config, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(l, cfg)
	votingHandler := handlers.NewVotingHandler(l, cfg)
	resultsHandler := handlers.NewResultsHandler(l)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if metrics != nil {
		mux.Handle("GET "+cfg.MetricsPath, metrics)
	}

	// Election administration (admin caller token)
	mux.HandleFunc("POST /candidates", middleware.WithLogging(adminHandler.AddCandidate))
	mux.HandleFunc("POST /voters", middleware.WithLogging(adminHandler.RegisterVoter))
	mux.HandleFunc("POST /voting/start", middleware.WithLogging(adminHandler.StartVoting))
	mux.HandleFunc("POST /voting/end", middleware.WithLogging(adminHandler.EndVoting))

	// Voting (registered voter caller token)
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))

	// Reads (public)
	mux.HandleFunc("GET /ledger", middleware.WithLogging(resultsHandler.GetLedger))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(resultsHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{id}", middleware.WithLogging(resultsHandler.GetCandidate))
	mux.HandleFunc("GET /voters/{address}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /voting/status", middleware.WithLogging(resultsHandler.GetVotingStatus))
	mux.HandleFunc("GET /votes", middleware.WithLogging(resultsHandler.ListVotes))
	mux.HandleFunc("GET /votes/count", middleware.WithLogging(resultsHandler.GetVoteCount))
	mux.HandleFunc("GET /results/winner", middleware.WithLogging(resultsHandler.GetWinner))

	// Event stream
	if bus != nil {
		eventsHandler := handlers.NewEventsHandler(bus)
		mux.HandleFunc("GET /events", middleware.WithLogging(eventsHandler.Stream))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voteledger API v1"))
	})

	return mux
}
