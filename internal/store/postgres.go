package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Clinics ---

func (s *PostgresStore) GetClinic(ctx context.Context, apiKey string) (*models.Clinic, error) {
	var (
		c          models.Clinic
		pricingRaw []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT api_key, email_clinique, pricing, analysis_quota, default_quota, subscription_start
		 FROM clinics WHERE api_key = $1`, apiKey,
	).Scan(&c.APIKey, &c.ContactEmail, &pricingRaw, &c.QuotaRemaining, &c.QuotaDefault, &c.SubscriptionStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}

	c.Pricing = map[string]int{}
	if len(pricingRaw) > 0 {
		if err := json.Unmarshal(pricingRaw, &c.Pricing); err != nil {
			return nil, fmt.Errorf("decode clinic pricing: %w", err)
		}
	}
	return &c, nil
}

// UpsertClinic overwrites contact email and pricing for an existing clinic,
// or inserts a new one seeded with SeedQuota and a cycle starting now.
// Quota columns of an existing clinic are never touched here.
func (s *PostgresStore) UpsertClinic(ctx context.Context, apiKey string, contactEmail *string, pricing map[string]int) error {
	if pricing == nil {
		pricing = map[string]int{}
	}
	pricingRaw, err := json.Marshal(pricing)
	if err != nil {
		return fmt.Errorf("encode clinic pricing: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO clinics (api_key, email_clinique, pricing, analysis_quota, default_quota, subscription_start)
		 VALUES ($1, $2, $3, $4, $4, NOW())
		 ON CONFLICT (api_key) DO UPDATE SET
		   email_clinique = EXCLUDED.email_clinique,
		   pricing = EXCLUDED.pricing`,
		apiKey, contactEmail, pricingRaw, SeedQuota)
	if err != nil {
		return fmt.Errorf("upsert clinic: %w", err)
	}
	return nil
}

// SetQuota updates the remaining counter and, when cycleStart is non-nil, the
// cycle start in one statement. Unknown api keys affect zero rows and are not
// an error; callers validate existence via GetClinic first.
func (s *PostgresStore) SetQuota(ctx context.Context, apiKey string, quota int, cycleStart *time.Time) error {
	var err error
	if cycleStart != nil {
		_, err = s.pool.Exec(ctx,
			`UPDATE clinics SET analysis_quota = $2, subscription_start = $3 WHERE api_key = $1`,
			apiKey, quota, *cycleStart)
	} else {
		_, err = s.pool.Exec(ctx,
			`UPDATE clinics SET analysis_quota = $2 WHERE api_key = $1`,
			apiKey, quota)
	}
	if err != nil {
		return fmt.Errorf("set quota: %w", err)
	}
	return nil
}

// DecrementQuota spends one unit of allowance. The WHERE guard makes the
// decrement conditional so two concurrent requests cannot drive the counter
// negative; the boolean reports whether a unit was actually spent.
func (s *PostgresStore) DecrementQuota(ctx context.Context, apiKey string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE clinics SET analysis_quota = analysis_quota - 1
		 WHERE api_key = $1 AND analysis_quota > 0`, apiKey)
	if err != nil {
		return false, fmt.Errorf("decrement quota: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListClinics(ctx context.Context) ([]*models.Clinic, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT api_key, email_clinique, pricing, analysis_quota, default_quota, subscription_start
		 FROM clinics ORDER BY api_key`)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []*models.Clinic
	for rows.Next() {
		var (
			c          models.Clinic
			pricingRaw []byte
		)
		if err := rows.Scan(&c.APIKey, &c.ContactEmail, &pricingRaw,
			&c.QuotaRemaining, &c.QuotaDefault, &c.SubscriptionStart); err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		c.Pricing = map[string]int{}
		if len(pricingRaw) > 0 {
			if err := json.Unmarshal(pricingRaw, &c.Pricing); err != nil {
				return nil, fmt.Errorf("decode clinic pricing: %w", err)
			}
		}
		clinics = append(clinics, &c)
	}
	return clinics, rows.Err()
}

// --- Analyses ---

func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	resultRaw, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO analyses (clinic_api_key, client_email, result, timestamp)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		a.ClinicAPIKey, a.ClientEmail, resultRaw, a.Timestamp,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*models.Analysis, int, error) {
	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.ClinicAPIKey != "" {
		where = fmt.Sprintf("clinic_api_key = $%d", argIdx)
		args = append(args, filter.ClinicAPIKey)
		argIdx++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM analyses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(
		`SELECT id, clinic_api_key, client_email, result, timestamp
		 FROM analyses WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		var (
			a         models.Analysis
			resultRaw []byte
		)
		if err := rows.Scan(&a.ID, &a.ClinicAPIKey, &a.ClientEmail, &resultRaw, &a.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal(resultRaw, &a.Result); err != nil {
			return nil, 0, fmt.Errorf("decode analysis result: %w", err)
		}
		analyses = append(analyses, &a)
	}
	return analyses, total, rows.Err()
}
