// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voteledger/auth"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
	"github.com/danielhkuo/voteledger/models"
)

// ledgerErrorStatus maps a ledger rejection to an HTTP status
func ledgerErrorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized),
		errors.Is(err, ledger.ErrNotRegisteredVoter):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyRegistered),
		errors.Is(err, ledger.ErrVotingEnded),
		errors.Is(err, ledger.ErrAlreadyVoted),
		errors.Is(err, ledger.ErrVotingStillActive),
		errors.Is(err, ledger.ErrNoCandidates):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidCandidate),
		errors.Is(err, ledger.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeLedgerError reports a failed ledger call. Anything that is not a
// ledger rejection is logged and hidden behind a generic message.
func writeLedgerError(w http.ResponseWriter, err error, op string) {
	status := ledgerErrorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("ledger operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, status, "Ledger error")
		return
	}
	middleware.CodedErrorResponse(w, status, ledger.ErrorCode(err), err.Error())
}

// callerFromRequest resolves the authenticated caller, writing a 401 on failure
func callerFromRequest(w http.ResponseWriter, r *http.Request, secret string) (models.Address, bool) {
	caller, err := auth.CallerFromRequest(r, secret)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization header required")
		} else {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid caller token")
		}
		return "", false
	}
	return caller, true
}
