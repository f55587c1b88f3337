package service

import (
	"sync"
	"time"
)

type SyncStatus struct {
	Syncing       bool       `json:"syncing"`
	PendingWrites int        `json:"pendingWrites"`
	LastSyncedAt  *time.Time `json:"lastSyncedAt,omitempty"`
}

// SyncIndicator is a cosmetic flag raised before a write is issued and
// cleared hold after the last outstanding write completes. Write outcomes
// are not reflected.
type SyncIndicator struct {
	hold time.Duration

	mu         sync.Mutex
	pending    int
	syncing    bool
	generation uint64
	lastSynced time.Time
	timer      *time.Timer
}

func NewSyncIndicator(hold time.Duration) *SyncIndicator {
	return &SyncIndicator{hold: hold}
}

// Begin marks a write as issued.
func (s *SyncIndicator) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending++
	s.syncing = true
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// End marks a write as completed, successful or not.
func (s *SyncIndicator) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
	}
	s.lastSynced = time.Now()

	if s.pending > 0 {
		return
	}
	if s.hold <= 0 {
		s.syncing = false
		return
	}

	gen := s.generation
	s.timer = time.AfterFunc(s.hold, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a Begin after this timer was armed owns the flag now
		if s.generation == gen && s.pending == 0 {
			s.syncing = false
		}
	})
}

func (s *SyncIndicator) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

func (s *SyncIndicator) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SyncStatus{Syncing: s.syncing, PendingWrites: s.pending}
	if !s.lastSynced.IsZero() {
		t := s.lastSynced
		st.LastSyncedAt = &t
	}
	return st
}

// Stop cancels a pending clear and drops the flag.
func (s *SyncIndicator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.syncing = false
}
