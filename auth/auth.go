// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/danielhkuo/voteledger/models"
)

const issuer = "voteledger"

var (
	ErrMissingToken = errors.New("missing caller token")
	ErrInvalidToken = errors.New("invalid caller token")
)

// IssueCallerToken signs a token naming address as the caller.
// A zero ttl produces a token that never expires.
func IssueCallerToken(address models.Address, secret string, ttl time.Duration, now time.Time) (string, error) {
	if address == "" {
		return "", models.ErrEmptyAddress
	}
	claims := jwt.StandardClaims{
		Subject:  address.String(),
		Issuer:   issuer,
		IssuedAt: now.Unix(),
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign caller token: %w", err)
	}
	return signed, nil
}

// ValidateCallerToken checks the signature and expiry and returns the caller
func ValidateCallerToken(tokenString, secret string) (models.Address, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != issuer {
		return "", ErrInvalidToken
	}
	addr, err := models.ParseAddress(claims.Subject)
	if err != nil {
		return "", ErrInvalidToken
	}
	return addr, nil
}

// CallerFromRequest resolves the caller from an "Authorization: Bearer" header
func CallerFromRequest(r *http.Request, secret string) (models.Address, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", ErrInvalidToken
	}
	return ValidateCallerToken(strings.TrimSpace(tokenString), secret)
}
