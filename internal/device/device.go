// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package device models the state the demo command table operates on:
// a small key/value register file, a status LED and the boot clock.
package device

import (
	"sort"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Error codes for device operations.
const (
	CodeInvalidKey     = "INVALID_KEY"
	CodeInvalidPattern = "INVALID_PATTERN"
	CodeStoreFull      = "STORE_FULL"
)

// MaxKeys bounds the register file; embedded targets have little RAM.
const MaxKeys = 64

// keySeparator splits dotted keys ("sensor.temp") into glob segments.
const keySeparator = '.'

// Register is one key/value pair.
type Register struct {
	Key   string
	Value string
}

// Store holds device state. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	led    bool
	booted time.Time
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store whose boot time is now.
func NewStore(opts ...Option) *Store {
	s := &Store{
		values: make(map[string]string),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.booted = s.now()
	return s
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return oops.Code(CodeInvalidKey).Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; !exists && len(s.values) >= MaxKeys {
		return oops.Code(CodeStoreFull).
			With("key", key).
			With("max", MaxKeys).
			Errorf("register file full (%d keys)", MaxKeys)
	}
	s.values[key] = value
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Match returns every register whose key matches pattern, sorted by key.
// Patterns use glob syntax with '.' as the segment separator, so
// "sensor.*" matches "sensor.temp" but not "sensor.temp.max".
func (s *Store) Match(pattern string) ([]Register, error) {
	g, err := glob.Compile(pattern, keySeparator)
	if err != nil {
		return nil, oops.Code(CodeInvalidPattern).
			With("pattern", pattern).
			Wrap(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Register
	for k, v := range s.values {
		if g.Match(k) {
			out = append(out, Register{Key: k, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// SetLED switches the status LED.
func (s *Store) SetLED(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.led = on
}

// ToggleLED flips the status LED and returns the new state.
func (s *Store) ToggleLED() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.led = !s.led
	return s.led
}

// LED reports whether the status LED is on.
func (s *Store) LED() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.led
}

// Uptime returns the time since the store was created.
func (s *Store) Uptime() time.Duration {
	return s.now().Sub(s.booted)
}
