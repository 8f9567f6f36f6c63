package store

import (
	"context"
	"errors"
	"time"

	"github.com/prohair-dev/trichoscan/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// SeedQuota is the allowance granted to a clinic created through the
// configuration flow. Observed deployments disagreed between 0 and 10; 10 is
// the documented choice so a fresh clinic can run the widget immediately.
const SeedQuota = 10

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetClinic(ctx context.Context, apiKey string) (*models.Clinic, error)
	UpsertClinic(ctx context.Context, apiKey string, contactEmail *string, pricing map[string]int) error
	SetQuota(ctx context.Context, apiKey string, quota int, cycleStart *time.Time) error
	DecrementQuota(ctx context.Context, apiKey string) (bool, error)
	ListClinics(ctx context.Context) ([]*models.Clinic, error)

	CreateAnalysis(ctx context.Context, a *models.Analysis) error
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*models.Analysis, int, error)
}

// AnalysisFilter narrows and paginates the admin analyses listing.
type AnalysisFilter struct {
	ClinicAPIKey string
	Page         int
	Limit        int
}
