package models

import (
	"sync"
	"time"
)

// Session holds the latest filtering pass for the folder being worked on.
// Passes are numbered; a pass that finishes after a newer one has been
// committed is discarded.
type Session struct {
	mu          sync.Mutex
	started     uint64
	applied     uint64
	selection   *Selection
	result      *FilterResult
	lastUpdated time.Time
}

// NewSession creates an empty Session
func NewSession() *Session {
	return &Session{}
}

// Begin allocates the generation number for a new pass
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

// Commit stores the outcome of pass gen. It returns false, leaving the
// session unchanged, when a newer pass has already been committed.
func (s *Session) Commit(gen uint64, sel *Selection, result *FilterResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.applied {
		return false
	}
	s.applied = gen
	s.selection = sel
	s.result = result
	s.lastUpdated = time.Now()
	return true
}

// Current returns the committed selection, result and generation
func (s *Session) Current() (*Selection, *FilterResult, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, s.result, s.applied
}

// LastUpdated returns when the session last accepted a pass
func (s *Session) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}
