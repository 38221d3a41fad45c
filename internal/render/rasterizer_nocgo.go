//go:build !cgo

package render

// NewDefaultRasterizer returns nil without cgo, so cards are published as SVG
func NewDefaultRasterizer(_ int) Rasterizer {
	return nil
}
