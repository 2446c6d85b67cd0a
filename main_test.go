// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/voteledger/auth"
	"github.com/danielhkuo/voteledger/models"
)

// clearTokenEnv unsets the settings the token command reads
func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TOKEN_SECRET", "TOKEN_TTL", "CONFIG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func runToken(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := tokenCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

// expiresIn returns how far past now the token's expiry claim lies
func expiresIn(t *testing.T, token string) time.Duration {
	t.Helper()
	claims := &jwt.StandardClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(token, claims)
	require.NoError(t, err)
	if claims.ExpiresAt == 0 {
		return 0
	}
	return time.Until(time.Unix(claims.ExpiresAt, 0))
}

func TestTokenCommand(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("TOKEN_SECRET", "env-secret")
	t.Setenv("TOKEN_TTL", "1h")

	token, err := runToken(t, "--address", " 0xVoter1 ")
	require.NoError(t, err)

	addr, err := auth.ValidateCallerToken(token, "env-secret")
	require.NoError(t, err)
	assert.Equal(t, models.Address("0xvoter1"), addr)
	assert.InDelta(t, time.Hour.Seconds(), expiresIn(t, token).Seconds(), 5)
}

func TestTokenCommand_FlagSecretWins(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("TOKEN_SECRET", "env-secret")

	token, err := runToken(t, "-a", "0xadmin", "--token-secret", "flag-secret", "--token-ttl", "0")
	require.NoError(t, err)

	_, err = auth.ValidateCallerToken(token, "flag-secret")
	assert.NoError(t, err)
	_, err = auth.ValidateCallerToken(token, "env-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Zero(t, expiresIn(t, token))
}

func TestTokenCommand_ConfigFile(t *testing.T) {
	clearTokenEnv(t)
	path := filepath.Join(t.TempDir(), "voteledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokenSecret: file-secret\ntokenTtl: 2h\n"), 0o600))

	tests := []struct {
		name string
		args []string
		env  string
	}{
		{"flag", []string{"-a", "0xadmin", "--config", path}, ""},
		{"env", []string{"-a", "0xadmin"}, path},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", tt.env)
			token, err := runToken(t, tt.args...)
			require.NoError(t, err)

			addr, err := auth.ValidateCallerToken(token, "file-secret")
			require.NoError(t, err)
			assert.Equal(t, models.Address("0xadmin"), addr)
			assert.InDelta(t, (2 * time.Hour).Seconds(), expiresIn(t, token).Seconds(), 5)
		})
	}
}

func TestTokenCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		args   []string
	}{
		{"missing address", "s", []string{}},
		{"blank address", "s", []string{"--address", "  "}},
		{"missing secret", "", []string{"--address", "0xadmin"}},
		{"negative ttl", "s", []string{"--address", "0xadmin", "--token-ttl", "-1h"}},
		{"missing config file", "s", []string{"--address", "0xadmin", "--config", "does-not-exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTokenEnv(t)
			if tt.secret != "" {
				t.Setenv("TOKEN_SECRET", tt.secret)
			}
			_, err := runToken(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
