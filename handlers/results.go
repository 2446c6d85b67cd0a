// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
	"github.com/danielhkuo/voteledger/models"
)

// ResultsHandler serves the read side of the ledger. None of its routes
// require a caller token.
type ResultsHandler struct {
	ledger *ledger.Ledger
}

func NewResultsHandler(l *ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{ledger: l}
}

// GetLedger handles GET /ledger
func (h *ResultsHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	s := h.ledger.Summary()
	middleware.JSONResponse(w, http.StatusOK, models.LedgerSummaryResponse{
		Admin:          s.Admin,
		Window:         s.Window,
		Open:           s.Open,
		CandidateCount: s.CandidateCount,
		VoterCount:     s.VoterCount,
		TotalVotes:     s.TotalVotes,
	})
}

// ListCandidates handles GET /candidates
func (h *ResultsHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.ledger.AllCandidates())
}

// GetCandidate handles GET /candidates/{id}
func (h *ResultsHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id must be a non-negative integer")
		return
	}

	candidate, err := h.ledger.Candidate(id)
	if errors.Is(err, ledger.ErrInvalidCandidate) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, ledger.ErrorCode(err), "Candidate not found")
		return
	}
	if err != nil {
		writeLedgerError(w, err, "get_candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// GetVoter handles GET /voters/{address}
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	addr, err := models.ParseAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterStatusResponse{
		Address:    addr,
		Registered: h.ledger.IsRegistered(addr),
		HasVoted:   h.ledger.HasVoted(addr),
	})
}

// GetVotingStatus handles GET /voting/status
func (h *ResultsHandler) GetVotingStatus(w http.ResponseWriter, r *http.Request) {
	s := h.ledger.Summary()
	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{
		Open:     s.Open,
		Active:   s.Window.Active,
		Deadline: s.Window.Deadline,
	})
}

// ListVotes handles GET /votes
func (h *ResultsHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.ledger.AllVoteRecords())
}

// GetVoteCount handles GET /votes/count
func (h *ResultsHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	s := h.ledger.Summary()
	middleware.JSONResponse(w, http.StatusOK, models.VoteCountResponse{
		VoterCount: s.VoterCount,
		TotalVotes: s.TotalVotes,
	})
}

// GetWinner handles GET /results/winner
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	winner, err := h.ledger.Winner()
	if err != nil {
		writeLedgerError(w, err, "winner")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		Winner:     winner,
		Candidates: h.ledger.AllCandidates(),
	})
}
