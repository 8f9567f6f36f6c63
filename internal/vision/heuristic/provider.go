// Package heuristic implements a fully local vision provider. It replaces
// the paid model with a deterministic scalp-exposure score so the rest of the
// pipeline can run without network access or an API key.
package heuristic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"

	"github.com/prohair-dev/trichoscan/internal/vision/norwood"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// Provider implements models.VisionProvider with a local luminance heuristic.
type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "heuristic" }

// Classify scores scalp exposure from the top half of the grid (the front and
// top views) and maps the score through the fixed stage table. Bright pixels
// in those views read as exposed skin.
func (p *Provider) Classify(_ context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	img, _, err := image.Decode(bytes.NewReader(req.GridJPEG))
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("decode grid: %w", err)
	}

	score := exposureScore(img)
	profile := norwood.ProfileFromScore(score)

	return models.ClassificationResult{
		Stage:      profile.Stage,
		PriceRange: profile.PriceRange,
		Details:    profile.Details,
		Evaluation: profile.Evaluation,
	}, nil
}

// exposureScore returns the mean luminance of the upper half of the image,
// normalized to [0, 1].
func exposureScore(img image.Image) float64 {
	b := img.Bounds()
	half := b.Min.Y + b.Dy()/2

	var sum, n uint64
	for y := b.Min.Y; y < half; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channels.
			luma := (299*uint64(r) + 587*uint64(g) + 114*uint64(bl)) / 1000
			sum += luma
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum/n) / 0xffff
}

var _ models.VisionProvider = (*Provider)(nil)
