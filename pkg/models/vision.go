package models

import "context"

// ClassificationResult is the normalized output of a vision provider. The
// wire name "stade" is what the embeddable widget has always consumed, so it
// stays even though it is French.
type ClassificationResult struct {
	Stage      string `json:"stade"`
	PriceRange string `json:"price_range"`
	Details    string `json:"details"`
	Evaluation string `json:"evaluation"`
}

// ClassificationRequest is the input to a vision provider. GridJPEG is a
// single 1024x1024 JPEG compositing the four uploaded views.
type ClassificationRequest struct {
	GridJPEG []byte
}

// VisionProvider is the core interface every classification backend must
// implement. Never call a specific provider directly, always inject this
// interface.
type VisionProvider interface {
	// Classify turns the composited photo grid into a Norwood stage estimate.
	Classify(ctx context.Context, req ClassificationRequest) (ClassificationResult, error)
	// Name returns the provider identifier (e.g., "openai", "heuristic").
	Name() string
}
