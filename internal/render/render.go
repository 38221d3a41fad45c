package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const (
	MimeTypeSVG = "image/svg+xml"
	MimeTypePNG = "image/png"
)

// CardInput holds what is drawn on a card
type CardInput struct {
	Address  string
	Nickname string
	Role     string
	Bio      string
	// ProfileImage is the raw uploaded picture
	ProfileImage []byte
	// PreviousImageURI is the card image being replaced; its picture is reused
	// when ProfileImage is empty, otherwise a placeholder is drawn
	PreviousImageURI string
}

// Image is a rendered card artifact
type Image struct {
	Data     []byte
	MimeType string
}

// Renderer draws the card image
//
//go:generate mockgen -source=render.go -destination=../mocks/render.go -package=mocks -mock_names=Renderer=MockRenderer,Rasterizer=MockRasterizer
type Renderer interface {
	Render(ctx context.Context, input CardInput) (*Image, error)
}

// Rasterizer converts an SVG document to PNG
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte) ([]byte, error)
}

var avatarHref = regexp.MustCompile(`<image[^>]*\shref="data:(image/[a-z0-9.+-]+);base64,([A-Za-z0-9+/=]+)"`)

type cardRenderer struct {
	rasterizer Rasterizer
	http       adapter.HTTPClient
}

// NewRenderer creates a card renderer; a nil rasterizer publishes the SVG itself
func NewRenderer(rasterizer Rasterizer, httpClient adapter.HTTPClient) Renderer {
	return &cardRenderer{rasterizer: rasterizer, http: httpClient}
}

func (r *cardRenderer) Render(ctx context.Context, input CardInput) (*Image, error) {
	if len(input.ProfileImage) == 0 && input.PreviousImageURI != "" {
		input.ProfileImage = r.previousPicture(ctx, input.PreviousImageURI)
	}

	svg, err := BuildSVG(input)
	if err != nil {
		return nil, err
	}

	if r.rasterizer == nil {
		return &Image{Data: svg, MimeType: MimeTypeSVG}, nil
	}

	png, err := r.rasterizer.Rasterize(ctx, svg)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize card: %w", err)
	}

	logger.DebugCtx(ctx, "Card rendered", zap.Int("svgSize", len(svg)), zap.Int("pngSize", len(png)))
	return &Image{Data: png, MimeType: MimeTypePNG}, nil
}

// previousPicture recovers the picture embedded in an earlier SVG card.
// Rasterized cards carry no separable picture.
func (r *cardRenderer) previousPicture(ctx context.Context, uri string) []byte {
	if r.http == nil || !strings.HasPrefix(uri, "http") {
		return nil
	}

	data, err := r.http.GetRaw(ctx, uri, nil)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch previous card image", zap.String("uri", uri), zap.Error(err))
		return nil
	}

	match := avatarHref.FindSubmatch(data)
	if match == nil {
		logger.DebugCtx(ctx, "Previous card image has no embedded picture", zap.String("uri", uri))
		return nil
	}

	picture, err := base64.StdEncoding.DecodeString(string(match[2]))
	if err != nil {
		logger.WarnCtx(ctx, "Failed to decode previous card picture", zap.String("uri", uri), zap.Error(err))
		return nil
	}
	return picture
}
