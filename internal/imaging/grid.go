// Package imaging composes the four uploaded views into the single grid
// image the vision providers consume.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	tileSize    = 512
	gridSize    = 2 * tileSize
	jpegQuality = 75
)

// ComposeGrid decodes the four views (front, top, side, back), scales each to
// a 512x512 tile, and pastes them into a 1024x1024 JPEG in reading order.
// Exactly four images are required.
func ComposeGrid(views [][]byte) ([]byte, error) {
	if len(views) != 4 {
		return nil, fmt.Errorf("compose grid: expected 4 views, got %d", len(views))
	}

	grid := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))
	offsets := [4]image.Point{
		{0, 0},
		{tileSize, 0},
		{0, tileSize},
		{tileSize, tileSize},
	}

	for i, raw := range views {
		src, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode view %d: %w", i, err)
		}
		dst := image.Rect(offsets[i].X, offsets[i].Y, offsets[i].X+tileSize, offsets[i].Y+tileSize)
		xdraw.BiLinear.Scale(grid, dst, src, src.Bounds(), xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, grid, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode grid: %w", err)
	}
	return buf.Bytes(), nil
}
