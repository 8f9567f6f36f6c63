package quota_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prohair-dev/trichoscan/internal/quota"
	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore records SetQuota calls and implements the rest of store.Store
// with no-ops.
type mockStore struct {
	setQuotaCalls []setQuotaCall
	setQuotaErr   error
}

type setQuotaCall struct {
	apiKey     string
	quota      int
	cycleStart *time.Time
}

func (m *mockStore) Ping(_ context.Context) error { return nil }
func (m *mockStore) GetClinic(_ context.Context, _ string) (*models.Clinic, error) {
	return nil, store.ErrNotFound
}
func (m *mockStore) UpsertClinic(_ context.Context, _ string, _ *string, _ map[string]int) error {
	return nil
}
func (m *mockStore) SetQuota(_ context.Context, apiKey string, q int, cs *time.Time) error {
	m.setQuotaCalls = append(m.setQuotaCalls, setQuotaCall{apiKey, q, cs})
	return m.setQuotaErr
}
func (m *mockStore) DecrementQuota(_ context.Context, _ string) (bool, error) { return true, nil }
func (m *mockStore) ListClinics(_ context.Context) ([]*models.Clinic, error)  { return nil, nil }
func (m *mockStore) CreateAnalysis(_ context.Context, _ *models.Analysis) error {
	return nil
}
func (m *mockStore) ListAnalyses(_ context.Context, _ store.AnalysisFilter) ([]*models.Analysis, int, error) {
	return nil, 0, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestGate_FreshCycleNoReset(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-29 * 24 * time.Hour)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:            "CLINIC1",
		QuotaRemaining:    5,
		QuotaDefault:      intPtr(10),
		SubscriptionStart: timePtr(start),
	}

	got, err := m.Gate(context.Background(), clinic)
	require.NoError(t, err)
	assert.Equal(t, 5, got.QuotaRemaining)
	assert.Empty(t, st.setQuotaCalls, "no reset should be persisted")
}

func TestGate_ResetAfterCycleLapses(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-31 * 24 * time.Hour)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:            "CLINIC2",
		QuotaRemaining:    0,
		QuotaDefault:      intPtr(10),
		SubscriptionStart: timePtr(start),
	}

	got, err := m.Gate(context.Background(), clinic)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuotaRemaining)
	require.NotNil(t, got.SubscriptionStart)
	assert.Equal(t, now, *got.SubscriptionStart)

	require.Len(t, st.setQuotaCalls, 1)
	call := st.setQuotaCalls[0]
	assert.Equal(t, "CLINIC2", call.apiKey)
	assert.Equal(t, 10, call.quota)
	require.NotNil(t, call.cycleStart)
	assert.Equal(t, now, *call.cycleStart)
}

func TestGate_ResetDiscardsUnusedAllowance(t *testing.T) {
	// Unused quota never rolls over: a clinic with allowance left still gets
	// its counter set back to the default.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:            "CLINIC3",
		QuotaRemaining:    7,
		QuotaDefault:      intPtr(5),
		SubscriptionStart: timePtr(now.Add(-40 * 24 * time.Hour)),
	}

	got, err := m.Gate(context.Background(), clinic)
	require.NoError(t, err)
	assert.Equal(t, 5, got.QuotaRemaining)
}

func TestGate_ExactThirtyDayBoundaryResets(t *testing.T) {
	// The boundary is inclusive.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:            "CLINIC4",
		QuotaRemaining:    1,
		QuotaDefault:      intPtr(10),
		SubscriptionStart: timePtr(now.Add(-quota.CycleLength)),
	}

	got, err := m.Gate(context.Background(), clinic)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuotaRemaining)
	require.Len(t, st.setQuotaCalls, 1)
}

func TestGate_NeverStartedResets(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:       "CLINIC5",
		QuotaDefault: intPtr(10),
	}

	got, err := m.Gate(context.Background(), clinic)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuotaRemaining)
}

func TestGate_ResetWithoutDefaultFails(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{APIKey: "CLINIC6"}

	_, err := m.Gate(context.Background(), clinic)
	assert.ErrorIs(t, err, quota.ErrNotConfigured)
	assert.Empty(t, st.setQuotaCalls)
}

func TestGate_ExhaustedRejected(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:            "CLINIC7",
		QuotaRemaining:    0,
		QuotaDefault:      intPtr(10),
		SubscriptionStart: timePtr(now.Add(-24 * time.Hour)),
	}

	_, err := m.Gate(context.Background(), clinic)
	assert.ErrorIs(t, err, quota.ErrExhausted)
	assert.Empty(t, st.setQuotaCalls, "rejection must leave the counter untouched")
}

func TestGate_PersistFailurePropagates(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st := &mockStore{setQuotaErr: errors.New("write failed")}
	m := quota.NewManagerWithClock(st, fixedClock(now))

	clinic := &models.Clinic{
		APIKey:       "CLINIC8",
		QuotaDefault: intPtr(10),
	}

	_, err := m.Gate(context.Background(), clinic)
	require.Error(t, err)
	assert.NotErrorIs(t, err, quota.ErrExhausted)
}
