// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package event fans ledger notifications out to in-process subscribers.
package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SubscriberQueueSize is the per-subscriber channel buffer
const SubscriberQueueSize = 64

type EventType string

type SubscriberID int

type HandlerFunc func(Event)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(eventType EventType, data any) Event {
	return NewEventAt(eventType, data, time.Now())
}

// NewEventAt builds an event stamped with the time its cause happened
func NewEventAt(eventType EventType, data any, at time.Time) Event {
	return Event{
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}
}

type subscriber struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// deliver never blocks the publisher. A full queue drops the event for this
// subscriber only.
func (s *subscriber) deliver(evt Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- evt:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// EventBus fans published events out to subscribers of the same type.
// Publish is synchronous and safe to call while holding other locks.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[SubscriberID]*subscriber
	lastID      SubscriberID
	metrics     *busMetrics
	logger      *slog.Logger
	handlersWg  sync.WaitGroup
}

func NewEventBus(promRegistry prometheus.Registerer, logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	e := &EventBus{
		subscribers: make(map[EventType]map[SubscriberID]*subscriber),
		logger:      logger,
	}
	if promRegistry != nil {
		e.metrics = newBusMetrics(promRegistry)
	}
	return e
}

// Subscribe returns a channel receiving events of the given types. The
// channel is closed by Unsubscribe or Stop.
func (e *EventBus) Subscribe(eventTypes ...EventType) (SubscriberID, <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := &subscriber{ch: make(chan Event, SubscriberQueueSize)}
	e.lastID++
	id := e.lastID
	for _, t := range eventTypes {
		if _, ok := e.subscribers[t]; !ok {
			e.subscribers[t] = make(map[SubscriberID]*subscriber)
		}
		e.subscribers[t][id] = sub
		if e.metrics != nil {
			e.metrics.subscribers.WithLabelValues(string(t)).Inc()
		}
	}
	return id, sub.ch
}

// SubscribeFunc runs handler in its own goroutine for every event received
func (e *EventBus) SubscribeFunc(handler HandlerFunc, eventTypes ...EventType) SubscriberID {
	id, ch := e.Subscribe(eventTypes...)
	e.handlersWg.Add(1)
	go func() {
		defer e.handlersWg.Done()
		for evt := range ch {
			handler(evt)
		}
	}()
	return id
}

func (e *EventBus) Unsubscribe(id SubscriberID) {
	e.mu.Lock()
	var found *subscriber
	for t, subs := range e.subscribers {
		sub, ok := subs[id]
		if !ok {
			continue
		}
		found = sub
		delete(subs, id)
		if len(subs) == 0 {
			delete(e.subscribers, t)
		}
		if e.metrics != nil {
			e.metrics.subscribers.WithLabelValues(string(t)).Dec()
		}
	}
	e.mu.Unlock()
	if found != nil {
		found.close()
	}
}

// Publish delivers evt to every current subscriber of eventType, in the
// order Publish is called.
func (e *EventBus) Publish(eventType EventType, evt Event) {
	e.mu.RLock()
	subs := make([]*subscriber, 0, len(e.subscribers[eventType]))
	for _, sub := range e.subscribers[eventType] {
		subs = append(subs, sub)
	}
	e.mu.RUnlock()
	for _, sub := range subs {
		if !sub.deliver(evt) {
			e.logger.Warn("subscriber queue full, dropping event", "type", eventType)
			if e.metrics != nil {
				e.metrics.dropped.WithLabelValues(string(eventType)).Inc()
			}
		}
	}
	if e.metrics != nil {
		e.metrics.published.WithLabelValues(string(eventType)).Inc()
	}
}

// Stop closes every subscriber and waits for SubscribeFunc handlers to
// return. The bus may be subscribed to again afterwards.
func (e *EventBus) Stop() {
	e.mu.Lock()
	old := e.subscribers
	e.subscribers = make(map[EventType]map[SubscriberID]*subscriber)
	if e.metrics != nil {
		e.metrics.subscribers.Reset()
	}
	e.mu.Unlock()
	for _, subs := range old {
		for _, sub := range subs {
			sub.close()
		}
	}
	e.handlersWg.Wait()
}
