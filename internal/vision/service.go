// Package vision orchestrates the photo-analysis pipeline around a
// swappable classification provider.
package vision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prohair-dev/trichoscan/internal/imaging"
	"github.com/prohair-dev/trichoscan/internal/mail"
	"github.com/prohair-dev/trichoscan/internal/pricing"
	"github.com/prohair-dev/trichoscan/internal/quota"
	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// AnalyzeParams holds validated parameters for one analysis request.
type AnalyzeParams struct {
	APIKey      string
	ClientEmail string
	Views       [][]byte // front, top, side, back in that order
}

// AnalysisService runs the full pipeline: clinic lookup, quota gate, grid
// composition, classification, price overlay, decrement, audit record, and
// notification dispatch.
type AnalysisService struct {
	provider models.VisionProvider
	store    store.Store
	quota    *quota.Manager
	notifier *mail.Dispatcher
	timeout  time.Duration
	now      func() time.Time
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(provider models.VisionProvider, st store.Store, qm *quota.Manager, notifier *mail.Dispatcher, timeout time.Duration) *AnalysisService {
	return &AnalysisService{
		provider: provider,
		store:    st,
		quota:    qm,
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Analyze processes one submission. The returned result already carries the
// clinic's price overlay. Errors keep their sentinel identity
// (store.ErrNotFound, quota.ErrExhausted, quota.ErrNotConfigured,
// ErrInvalidResponse, ErrInferenceTimeout) so the handler can translate them
// exactly once.
func (s *AnalysisService) Analyze(ctx context.Context, params AnalyzeParams) (models.ClassificationResult, error) {
	var zero models.ClassificationResult

	clinic, err := s.store.GetClinic(ctx, params.APIKey)
	if err != nil {
		return zero, err
	}

	clinic, err = s.quota.Gate(ctx, clinic)
	if err != nil {
		return zero, err
	}

	grid, err := imaging.ComposeGrid(params.Views)
	if err != nil {
		return zero, fmt.Errorf("compose grid: %w", err)
	}

	classifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.provider.Classify(classifyCtx, models.ClassificationRequest{GridJPEG: grid})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return zero, ErrInferenceTimeout
		}
		return zero, err
	}

	result = pricing.Resolve(result, clinic.Pricing)

	// Conditional decrement; losing the race to the last unit counts as
	// exhaustion even though classification already ran.
	spent, err := s.store.DecrementQuota(ctx, params.APIKey)
	if err != nil {
		return zero, fmt.Errorf("decrement quota: %w", err)
	}
	if !spent {
		return zero, quota.ErrExhausted
	}

	record := &models.Analysis{
		ClinicAPIKey: params.APIKey,
		ClientEmail:  params.ClientEmail,
		Result:       result,
		Timestamp:    s.now().UTC(),
	}
	if err := s.store.CreateAnalysis(ctx, record); err != nil {
		return zero, fmt.Errorf("record analysis: %w", err)
	}

	s.notify(clinic, params.ClientEmail, result)

	return result, nil
}

// notify dispatches the two best-effort messages: one to the clinic contact
// (when configured) and one to the client.
func (s *AnalysisService) notify(clinic *models.Clinic, clientEmail string, result models.ClassificationResult) {
	if clinic.ContactEmail != nil && *clinic.ContactEmail != "" {
		s.notifier.Dispatch(mail.Message{
			To:      *clinic.ContactEmail,
			Subject: fmt.Sprintf("New analysis for %s", clientEmail),
			Body: fmt.Sprintf(
				"A client completed an analysis.\n\nClient: %s\nStage: %s\nPrice range: %s\nDetails: %s\nEvaluation: %s\n",
				clientEmail, result.Stage, result.PriceRange, result.Details, result.Evaluation),
		})
	}

	s.notifier.Dispatch(mail.Message{
		To:      clientEmail,
		Subject: "Your hair analysis result",
		Body: fmt.Sprintf(
			"Thank you for using the analysis service.\n\nStage: %s\nIndicative price: %s\n\n%s\n\n%s\n",
			result.Stage, result.PriceRange, result.Details, result.Evaluation),
	})
}
