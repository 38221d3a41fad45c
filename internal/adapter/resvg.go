//go:build cgo

package adapter

import (
	"image"

	"github.com/xo/resvg"
)

// ResvgClient rasterizes SVG documents
//
//go:generate mockgen -source=resvg.go -destination=../mocks/resvg.go -package=mocks -mock_names=ResvgClient=MockResvgClient
type ResvgClient interface {
	// Render rasterizes svg at the given width (0 keeps the document size), preserving aspect ratio
	Render(svg []byte, width int) (image.Image, error)
}

// RealResvgClient implements ResvgClient using the actual resvg library
type RealResvgClient struct{}

// NewResvgClient creates a new real resvg client
func NewResvgClient() ResvgClient {
	return &RealResvgClient{}
}

func (c *RealResvgClient) Render(svg []byte, width int) (image.Image, error) {
	opts := []resvg.Option{resvg.WithScaleMode(resvg.ScaleBestFit)}
	if width > 0 {
		opts = append(opts, resvg.WithWidth(width))
	}
	return resvg.Render(svg, opts...)
}
