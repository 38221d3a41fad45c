//go:build cgo

package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

type resvgRasterizer struct {
	resvgClient  adapter.ResvgClient
	imageEncoder adapter.ImageEncoder
	width        int
}

// NewRasterizer creates a resvg-backed rasterizer; width 0 keeps the document size
func NewRasterizer(resvgClient adapter.ResvgClient, imageEncoder adapter.ImageEncoder, width int) Rasterizer {
	return &resvgRasterizer{
		resvgClient:  resvgClient,
		imageEncoder: imageEncoder,
		width:        width,
	}
}

// NewDefaultRasterizer wires the real resvg library
func NewDefaultRasterizer(width int) Rasterizer {
	return NewRasterizer(adapter.NewResvgClient(), adapter.NewImageEncoder(), width)
}

func (r *resvgRasterizer) Rasterize(ctx context.Context, svg []byte) ([]byte, error) {
	img, err := r.resvgClient.Render(svg, r.width)
	if err != nil {
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}

	bounds := img.Bounds()
	logger.DebugCtx(ctx, "SVG rendered",
		zap.Int("renderedWidth", bounds.Dx()),
		zap.Int("renderedHeight", bounds.Dy()))

	data, err := r.imageEncoder.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return data, nil
}
