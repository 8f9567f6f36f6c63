package handler_test

import (
	"context"
	"time"

	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// mockStore backs the handler tests with an in-memory Store.
type mockStore struct {
	clinics  map[string]*models.Clinic
	analyses []*models.Analysis

	upsertErr error
	setQuota  []setQuotaCall
}

type setQuotaCall struct {
	apiKey     string
	quota      int
	cycleStart *time.Time
}

func newMockStore() *mockStore {
	return &mockStore{clinics: map[string]*models.Clinic{}}
}

func (m *mockStore) Ping(context.Context) error { return nil }

func (m *mockStore) GetClinic(_ context.Context, apiKey string) (*models.Clinic, error) {
	c, ok := m.clinics[apiKey]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockStore) UpsertClinic(_ context.Context, apiKey string, contactEmail *string, pricing map[string]int) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.clinics[apiKey] = &models.Clinic{APIKey: apiKey, ContactEmail: contactEmail, Pricing: pricing}
	return nil
}

func (m *mockStore) SetQuota(_ context.Context, apiKey string, quota int, cycleStart *time.Time) error {
	m.setQuota = append(m.setQuota, setQuotaCall{apiKey, quota, cycleStart})
	if c, ok := m.clinics[apiKey]; ok {
		c.QuotaRemaining = quota
	}
	return nil
}

func (m *mockStore) DecrementQuota(_ context.Context, apiKey string) (bool, error) {
	c, ok := m.clinics[apiKey]
	if !ok || c.QuotaRemaining <= 0 {
		return false, nil
	}
	c.QuotaRemaining--
	return true, nil
}

func (m *mockStore) ListClinics(context.Context) ([]*models.Clinic, error) {
	out := make([]*models.Clinic, 0, len(m.clinics))
	for _, c := range m.clinics {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockStore) CreateAnalysis(_ context.Context, a *models.Analysis) error {
	m.analyses = append(m.analyses, a)
	return nil
}

func (m *mockStore) ListAnalyses(context.Context, store.AnalysisFilter) ([]*models.Analysis, int, error) {
	return m.analyses, len(m.analyses), nil
}

var _ store.Store = (*mockStore)(nil)
