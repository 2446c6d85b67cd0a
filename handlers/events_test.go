// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/testutil"
)

type sseMessage struct {
	event string
	data  string
}

// readMessage reads one server-sent event, skipping comments
func readMessage(t *testing.T, r *bufio.Reader) sseMessage {
	t.Helper()
	var msg sseMessage
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("Failed to read event stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if msg.event != "" {
				return msg
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			msg.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			msg.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsStream(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	l, _ := testutil.NewTestLedger(t, bus)
	handler := NewEventsHandler(bus)

	srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer srv.Close()
	defer bus.Stop()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Failed to open event stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}

	// Headers arrive after the subscription exists, so nothing is missed
	testutil.SeedElection(t, l, []string{"Alice"}, testutil.VoterAddress)
	if _, err := l.Vote(testutil.VoterAddress, 0, "QmStream"); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(resp.Body)
	want := []event.EventType{
		event.CandidateAddedEventType,
		event.VoterRegisteredEventType,
		event.VotingStartedEventType,
		event.VoteCastEventType,
	}
	var last sseMessage
	for _, typ := range want {
		last = readMessage(t, r)
		if last.event != string(typ) {
			t.Fatalf("Expected event %s, got %s", typ, last.event)
		}
	}

	var cast event.VoteCastEvent
	if err := json.Unmarshal([]byte(last.data), &cast); err != nil {
		t.Fatalf("Failed to decode vote-cast payload: %v", err)
	}
	if cast.Voter != testutil.VoterAddress || cast.CandidateID != 0 || cast.CID != "QmStream" {
		t.Errorf("Unexpected vote-cast payload %+v", cast)
	}
	if cast.Seq != 5 {
		t.Errorf("Expected journal sequence 5, got %d", cast.Seq)
	}
}

func TestEventsStream_EndsWhenBusStops(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	handler := NewEventsHandler(bus)

	srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Failed to open event stream: %v", err)
	}
	defer resp.Body.Close()

	bus.Stop()

	// The handler returns, so the body ends
	if _, err := io.ReadAll(resp.Body); err != nil {
		t.Errorf("Expected clean end of stream, got %v", err)
	}
}
