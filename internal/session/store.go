// Package session holds per-browser-session state: the farmer profile, the
// latest evaluation batch, and usage metrics. Everything lives in memory and
// dies with the process or the session TTL.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nitisetu/niti-setu/internal/domain"
)

// DashboardMetrics summarizes a session's evaluation activity for the UI.
type DashboardMetrics struct {
	SchemesAnalyzed    int     `json:"schemesAnalyzed"`
	ChecksPerformed    int     `json:"checksPerformed"`
	EligibleCount      int     `json:"eligibleCount"`
	AvgResponseSeconds float64 `json:"avgResponseSeconds"`
}

type session struct {
	profile    domain.FarmerProfile
	results    []domain.EligibilityResult
	evaluating bool
	lastSeen   time.Time

	checks        int
	eligible      int
	schemes       int
	totalEvalTime time.Duration
}

// Store is an in-memory session registry with TTL-based expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new empty session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{lastSeen: s.now()}
	s.mu.Unlock()
	return id
}

// Destroy removes the session and all its state.
func (s *Store) Destroy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("op=session.Destroy: %w", domain.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// get touches lastSeen. Callers hold s.mu.
func (s *Store) get(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// Profile returns the session's current profile.
func (s *Store) Profile(id string) (domain.FarmerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.FarmerProfile{}, err
	}
	return sess.profile, nil
}

// MergeProfile applies updates additively and returns the merged profile.
func (s *Store) MergeProfile(id string, updates domain.FarmerProfile) (domain.FarmerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return domain.FarmerProfile{}, err
	}
	sess.profile = sess.profile.Merge(updates)
	return sess.profile, nil
}

// SetProfile replaces the profile wholesale. Used when the caller resets the
// form rather than adding facts.
func (s *Store) SetProfile(id string, p domain.FarmerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.profile = p
	return nil
}

// TryBeginEvaluation takes the session's evaluation latch. A second call
// before EndEvaluation returns ErrEvaluationInFlight and must not trigger
// another model call.
func (s *Store) TryBeginEvaluation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	if sess.evaluating {
		return fmt.Errorf("op=session.TryBeginEvaluation: %w", domain.ErrEvaluationInFlight)
	}
	sess.evaluating = true
	return nil
}

// EndEvaluation releases the latch. On success the batch replaces the
// previous results wholesale and the dashboard counters advance; on failure
// the previous results are kept.
func (s *Store) EndEvaluation(id string, results []domain.EligibilityResult, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return
	}
	sess.evaluating = false
	if results == nil {
		return
	}
	sess.results = results
	sess.checks++
	sess.totalEvalTime += took
	sess.schemes = len(results)
	sess.eligible = 0
	for _, r := range results {
		if r.IsEligible {
			sess.eligible++
		}
	}
}

// Results returns the latest batch and whether an evaluation is running.
func (s *Store) Results(id string) ([]domain.EligibilityResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return nil, false, err
	}
	return sess.results, sess.evaluating, nil
}

// Metrics returns the session's dashboard summary.
func (s *Store) Metrics(id string) (DashboardMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.get(id)
	if err != nil {
		return DashboardMetrics{}, err
	}
	m := DashboardMetrics{
		SchemesAnalyzed: sess.schemes,
		ChecksPerformed: sess.checks,
		EligibleCount:   sess.eligible,
	}
	if sess.checks > 0 {
		m.AvgResponseSeconds = sess.totalEvalTime.Seconds() / float64(sess.checks)
	}
	return m, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reap drops sessions idle past the TTL and returns how many were removed.
func (s *Store) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run reaps expired sessions periodically until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Reap()
		}
	}
}
