// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
	"github.com/danielhkuo/voteledger/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(l *ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: l, cfg: cfg}
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.TokenSecret)
	if !ok {
		return
	}

	// Parse request
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// 0 is a valid candidate id, so absence has to be told apart
	if req.CandidateID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	record, err := h.ledger.Vote(caller, *req.CandidateID, req.CID)
	if err != nil {
		writeLedgerError(w, err, models.OpVote)
		return
	}

	slog.Info("ballot submitted", "voter", caller, "candidate_id", record.CandidateID)

	middleware.JSONResponse(w, http.StatusCreated, record)
}
