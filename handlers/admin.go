// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
	"github.com/danielhkuo/voteledger/models"
)

// AdminHandler serves the operations reserved for the election administrator.
// It only authenticates; the ledger decides whether the caller is the admin.
type AdminHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewAdminHandler(l *ledger.Ledger, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{ledger: l, cfg: cfg}
}

// AddCandidate handles POST /candidates
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.TokenSecret)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidate, err := h.ledger.AddCandidate(caller, req.Name)
	if err != nil {
		writeLedgerError(w, err, models.OpAddCandidate)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// RegisterVoter handles POST /voters
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.TokenSecret)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := models.ParseAddress(req.Address)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	if err := h.ledger.RegisterVoter(caller, voter); err != nil {
		writeLedgerError(w, err, models.OpRegisterVoter)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Address: voter,
	})
}

// StartVoting handles POST /voting/start
func (h *AdminHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.TokenSecret)
	if !ok {
		return
	}

	var req models.StartVotingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	window, err := h.ledger.StartVoting(caller, req.DurationSeconds)
	if err != nil {
		writeLedgerError(w, err, models.OpStartVoting)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, window)
}

// EndVoting handles POST /voting/end
func (h *AdminHandler) EndVoting(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r, h.cfg.TokenSecret)
	if !ok {
		return
	}

	if err := h.ledger.EndVoting(caller); err != nil {
		writeLedgerError(w, err, models.OpEndVoting)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.ledger.Window())
}
