// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and validates caller tokens.

A caller token is an HS256 JWT whose subject is the caller's address:

	token, err := auth.IssueCallerToken(address, secret, ttl, time.Now())
	caller, err := auth.ValidateCallerToken(token, secret)

A zero ttl produces a token without an expiry claim. Tokens carry the
"voteledger" issuer and tokens from any other issuer are rejected.

# Requests

HTTP handlers resolve the caller from the Authorization header:

	caller, err := auth.CallerFromRequest(r, cfg.TokenSecret)

ErrMissingToken means no header was sent. ErrInvalidToken covers every
other failure: wrong scheme, bad signature, expired token or an empty
subject. Neither error says anything about what the caller may do; the
ledger decides that.
*/
package auth
