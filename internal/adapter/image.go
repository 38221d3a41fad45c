package adapter

import (
	"bytes"
	"image"
	"image/png"
)

// ImageEncoder encodes rasterized card images
//
//go:generate mockgen -source=image.go -destination=../mocks/image.go -package=mocks -mock_names=ImageEncoder=MockImageEncoder
type ImageEncoder interface {
	// EncodePNG encodes an image to PNG bytes
	EncodePNG(img image.Image) ([]byte, error)
}

// RealImageEncoder implements ImageEncoder using image/png
type RealImageEncoder struct{}

// NewImageEncoder creates a new real image encoder
func NewImageEncoder() ImageEncoder {
	return &RealImageEncoder{}
}

func (e *RealImageEncoder) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
