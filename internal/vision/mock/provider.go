// Package mock provides a configurable vision provider for tests.
package mock

import (
	"context"

	"github.com/prohair-dev/trichoscan/internal/vision"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// MockProvider satisfies models.VisionProvider for testing.
type MockProvider struct {
	Name_        string
	ClassifyFunc func(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, req)
	}
	return models.ClassificationResult{}, nil
}

// NewMockProvider returns a MockProvider with a sensible default response.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		ClassifyFunc: func(_ context.Context, _ models.ClassificationRequest) (models.ClassificationResult, error) {
			return models.ClassificationResult{
				Stage:      "4",
				PriceRange: "2500-4000€",
				Details:    "Simulated frontal recession with vertex thinning",
				Evaluation: "Simulated assessment from mock provider",
			}, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		ClassifyFunc: func(_ context.Context, _ models.ClassificationRequest) (models.ClassificationResult, error) {
			return models.ClassificationResult{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		ClassifyFunc: func(ctx context.Context, _ models.ClassificationRequest) (models.ClassificationResult, error) {
			<-ctx.Done()
			return models.ClassificationResult{}, vision.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements VisionProvider.
var _ models.VisionProvider = (*MockProvider)(nil)
