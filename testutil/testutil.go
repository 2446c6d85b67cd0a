// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/voteledger/auth"
	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/models"
)

// Addresses used across handler tests
const (
	AdminAddress  models.Address = "0xadmin"
	VoterAddress  models.Address = "0xvoter1"
	VoterAddress2 models.Address = "0xvoter2"
	OtherAddress  models.Address = "0xother"
)

// Epoch is the manual clock's starting time
var Epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Defaults()
	cfg.AdminAddress = AdminAddress
	cfg.TokenSecret = "test-token-secret"
	return cfg
}

// NewTestLedger creates an in-memory ledger administered by AdminAddress and
// driven by a manual clock. bus may be nil.
func NewTestLedger(t *testing.T, bus *event.EventBus) (*ledger.Ledger, *ledger.ManualClock) {
	t.Helper()

	clock := ledger.NewManualClock(Epoch)
	opts := []ledger.Option{ledger.WithClock(clock)}
	if bus != nil {
		opts = append(opts, ledger.WithEventBus(bus))
	}
	l, err := ledger.New(AdminAddress, opts...)
	if err != nil {
		t.Fatalf("Failed to create test ledger: %v", err)
	}
	return l, clock
}

// SeedElection adds the named candidates, registers the voters and opens a
// one hour window
func SeedElection(t *testing.T, l *ledger.Ledger, candidates []string, voters ...models.Address) {
	t.Helper()

	for _, name := range candidates {
		if _, err := l.AddCandidate(AdminAddress, name); err != nil {
			t.Fatalf("Failed to add test candidate: %v", err)
		}
	}
	for _, v := range voters {
		if err := l.RegisterVoter(AdminAddress, v); err != nil {
			t.Fatalf("Failed to register test voter: %v", err)
		}
	}
	if _, err := l.StartVoting(AdminAddress, 3600); err != nil {
		t.Fatalf("Failed to start voting: %v", err)
	}
}

// CallerHeaders returns request headers authenticating as addr
func CallerHeaders(t *testing.T, cfg cliparse.Config, addr models.Address) map[string]string {
	t.Helper()

	token, err := auth.IssueCallerToken(addr, cfg.TokenSecret, 0, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue caller token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the status and machine-readable code of an error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q (%s)", code, resp.Code, resp.Message)
	}
}
