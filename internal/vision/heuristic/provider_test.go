package heuristic_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/prohair-dev/trichoscan/internal/vision/heuristic"
	"github.com/prohair-dev/trichoscan/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidGrid(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestClassify_BrightScalpScoresHighest(t *testing.T) {
	p := heuristic.NewProvider()

	result, err := p.Classify(context.Background(), models.ClassificationRequest{
		GridJPEG: solidGrid(t, color.White),
	})
	require.NoError(t, err)
	assert.Equal(t, "7", result.Stage)
	assert.NotEmpty(t, result.PriceRange)
	assert.NotEmpty(t, result.Details)
	assert.NotEmpty(t, result.Evaluation)
}

func TestClassify_DarkHairScoresLowest(t *testing.T) {
	p := heuristic.NewProvider()

	result, err := p.Classify(context.Background(), models.ClassificationRequest{
		GridJPEG: solidGrid(t, color.Black),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", result.Stage)
}

func TestClassify_Deterministic(t *testing.T) {
	p := heuristic.NewProvider()
	grid := solidGrid(t, color.Gray{Y: 0x90})

	first, err := p.Classify(context.Background(), models.ClassificationRequest{GridJPEG: grid})
	require.NoError(t, err)
	second, err := p.Classify(context.Background(), models.ClassificationRequest{GridJPEG: grid})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassify_RejectsUndecodableInput(t *testing.T) {
	p := heuristic.NewProvider()

	_, err := p.Classify(context.Background(), models.ClassificationRequest{
		GridJPEG: []byte("not an image"),
	})
	assert.Error(t, err)
}
