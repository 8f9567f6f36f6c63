// Package quota implements the 30-day allowance cycle for clinics.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// CycleLength is the rolling window after which a clinic's counter resets to
// its configured default. The boundary is inclusive: a request arriving at
// exactly 30 days triggers the reset.
const CycleLength = 30 * 24 * time.Hour

var (
	// ErrExhausted is returned when the clinic has no allowance left in the
	// current cycle.
	ErrExhausted = errors.New("analysis quota exhausted")
	// ErrNotConfigured is returned when a reset is due but the clinic has no
	// default quota to reset to; an operator must configure one.
	ErrNotConfigured = errors.New("quota is not defined for this clinic")
)

// Manager decides when a clinic's cycle resets and enforces the remaining
// count gate. It is stateless; all durable state lives in the store.
type Manager struct {
	store store.Store
	now   func() time.Time
}

// NewManager creates a Manager using the real clock.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s, now: time.Now}
}

// NewManagerWithClock creates a Manager with an injected clock for tests.
func NewManagerWithClock(s store.Store, now func() time.Time) *Manager {
	return &Manager{store: s, now: now}
}

// Gate evaluates the cycle transition for one clinic at the start of an
// analysis request and enforces the remaining-count gate. A clinic whose
// cycle has lapsed (or never started) gets a fresh window and its counter set
// back to the default, whether or not allowance was left over; unused quota
// never accumulates. Returns the clinic with any reset applied.
func (m *Manager) Gate(ctx context.Context, clinic *models.Clinic) (*models.Clinic, error) {
	now := m.now().UTC()

	if clinic.SubscriptionStart == nil || now.Sub(*clinic.SubscriptionStart) >= CycleLength {
		if clinic.QuotaDefault == nil {
			return nil, ErrNotConfigured
		}
		if err := m.store.SetQuota(ctx, clinic.APIKey, *clinic.QuotaDefault, &now); err != nil {
			return nil, fmt.Errorf("reset quota cycle: %w", err)
		}
		clinic.QuotaRemaining = *clinic.QuotaDefault
		clinic.SubscriptionStart = &now
	}

	if clinic.QuotaRemaining <= 0 {
		return nil, ErrExhausted
	}
	return clinic, nil
}
