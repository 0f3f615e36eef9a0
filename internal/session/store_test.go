package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitisetu/niti-setu/internal/domain"
)

func land(v float64) *float64 { return &v }

func TestStoreCreateAndDestroy(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Destroy(id))
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Destroy(id), domain.ErrNotFound)
}

func TestStoreUnknownSession(t *testing.T) {
	s := NewStore(time.Hour)
	_, err := s.Profile("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = s.Results("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.TryBeginEvaluation("nope"), domain.ErrNotFound)
}

func TestStoreMergeProfileIsAdditive(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()

	got, err := s.MergeProfile(id, domain.FarmerProfile{Name: "Ravi", State: "Karnataka"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)

	got, err = s.MergeProfile(id, domain.FarmerProfile{LandHolding: land(2.5)})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, "Karnataka", got.State)
	require.NotNil(t, got.LandHolding)
	assert.Equal(t, 2.5, *got.LandHolding)
}

func TestStoreEvaluationLatch(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()

	require.NoError(t, s.TryBeginEvaluation(id))
	err := s.TryBeginEvaluation(id)
	assert.ErrorIs(t, err, domain.ErrEvaluationInFlight)

	s.EndEvaluation(id, nil, 0)
	require.NoError(t, s.TryBeginEvaluation(id))
}

func TestStoreEndEvaluationStoresBatchAndMetrics(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()
	batch := []domain.EligibilityResult{
		{SchemeID: "pm-kisan", IsEligible: true},
		{SchemeID: "pm-kusum", IsEligible: false},
		{SchemeID: "agri-infra", IsEligible: true},
	}

	require.NoError(t, s.TryBeginEvaluation(id))
	s.EndEvaluation(id, batch, 6*time.Second)

	results, running, err := s.Results(id)
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, batch, results)

	m, err := s.Metrics(id)
	require.NoError(t, err)
	assert.Equal(t, 3, m.SchemesAnalyzed)
	assert.Equal(t, 1, m.ChecksPerformed)
	assert.Equal(t, 2, m.EligibleCount)
	assert.InDelta(t, 6.0, m.AvgResponseSeconds, 1e-9)
}

func TestStoreFailedEvaluationKeepsPreviousBatch(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()
	batch := []domain.EligibilityResult{{SchemeID: "pm-kisan", IsEligible: true}}

	require.NoError(t, s.TryBeginEvaluation(id))
	s.EndEvaluation(id, batch, time.Second)

	require.NoError(t, s.TryBeginEvaluation(id))
	s.EndEvaluation(id, nil, 0)

	results, running, err := s.Results(id)
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, batch, results)

	m, err := s.Metrics(id)
	require.NoError(t, err)
	assert.Equal(t, 1, m.ChecksPerformed)
}

func TestStoreResultsReportRunning(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create()
	require.NoError(t, s.TryBeginEvaluation(id))

	_, running, err := s.Results(id)
	require.NoError(t, err)
	assert.True(t, running)
}

func TestStoreReapExpiresIdleSessions(t *testing.T) {
	s := NewStore(time.Minute)
	base := time.Unix(1000, 0)
	s.now = func() time.Time { return base }

	stale := s.Create()
	base = base.Add(2 * time.Minute)
	fresh := s.Create()

	removed := s.Reap()
	assert.Equal(t, 1, removed)
	_, err := s.Profile(stale)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Profile(fresh)
	assert.NoError(t, err)
}
