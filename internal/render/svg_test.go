package render_test

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/render"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// wellFormed reports whether doc parses as XML
func wellFormed(doc []byte) error {
	d := xml.NewDecoder(strings.NewReader(string(doc)))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func TestBuildSVG(t *testing.T) {
	svg, err := render.BuildSVG(render.CardInput{
		Address:  "0x00000000000000000000000000000000000000aa",
		Nickname: `<alice & "bob">`,
		Role:     "builder",
		Bio:      "gm",
	})
	require.NoError(t, err)
	require.NoError(t, wellFormed(svg))

	doc := string(svg)
	assert.Contains(t, doc, "&lt;alice &amp; &#34;bob&#34;&gt;")
	assert.Contains(t, doc, ">builder<")
	assert.Contains(t, doc, "0x0000…00aa")
	// placeholder instead of an image
	assert.NotContains(t, doc, "<image")
}

func TestBuildSVG_EmbedsProfileImage(t *testing.T) {
	svg, err := render.BuildSVG(render.CardInput{Nickname: "alice", ProfileImage: pngHeader})
	require.NoError(t, err)
	require.NoError(t, wellFormed(svg))
	assert.Contains(t, string(svg), `href="data:image/png;base64,`)
}

func TestBuildSVG_RejectsNonImage(t *testing.T) {
	_, err := render.BuildSVG(render.CardInput{Nickname: "alice", ProfileImage: []byte("%PDF-1.7\n")})
	assert.ErrorIs(t, err, render.ErrUnsupportedImage)
}

func TestBuildSVG_WrapsLongBio(t *testing.T) {
	bio := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	svg, err := render.BuildSVG(render.CardInput{Nickname: "alice", Bio: bio})
	require.NoError(t, err)

	doc := string(svg)
	assert.Equal(t, 4, strings.Count(doc, `font-size="22"`))
	assert.Contains(t, doc, "…</text>")
}

func TestRenderer_WithoutRasterizerPublishesSVG(t *testing.T) {
	img, err := render.NewRenderer(nil, nil).Render(context.Background(), render.CardInput{Nickname: "alice"})
	require.NoError(t, err)
	assert.Equal(t, render.MimeTypeSVG, img.MimeType)
	assert.True(t, strings.HasPrefix(string(img.Data), "<?xml"))
}

func TestRenderer_Rasterizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	rasterizer := mocks.NewMockRasterizer(ctrl)
	renderer := render.NewRenderer(rasterizer, nil)
	ctx := context.Background()

	rasterizer.EXPECT().Rasterize(ctx, gomock.Any()).Return(pngHeader, nil)
	img, err := renderer.Render(ctx, render.CardInput{Nickname: "alice"})
	require.NoError(t, err)
	assert.Equal(t, render.MimeTypePNG, img.MimeType)
	assert.Equal(t, pngHeader, img.Data)

	rasterizer.EXPECT().Rasterize(ctx, gomock.Any()).Return(nil, errors.New("resvg: parse error"))
	_, err = renderer.Render(ctx, render.CardInput{Nickname: "alice"})
	assert.Error(t, err)
}

func TestRenderer_ReusesPreviousPicture(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	renderer := render.NewRenderer(nil, httpClient)
	ctx := context.Background()

	previous, err := render.BuildSVG(render.CardInput{Nickname: "alice", ProfileImage: pngHeader})
	require.NoError(t, err)

	uri := "https://gateway.pinata.cloud/ipfs/QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	httpClient.EXPECT().GetRaw(ctx, uri, nil).Return(previous, nil)

	img, err := renderer.Render(ctx, render.CardInput{Nickname: "alice.base", PreviousImageURI: uri})
	require.NoError(t, err)
	assert.Contains(t, string(img.Data), `href="data:image/png;base64,`)
	assert.Contains(t, string(img.Data), ">alice.base<")
}

func TestRenderer_PreviousPictureUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	renderer := render.NewRenderer(nil, httpClient)
	ctx := context.Background()

	httpClient.EXPECT().GetRaw(ctx, "https://gw/ipfs/a", nil).Return(nil, errors.New("timeout"))
	img, err := renderer.Render(ctx, render.CardInput{Nickname: "alice", PreviousImageURI: "https://gw/ipfs/a"})
	require.NoError(t, err)
	assert.NotContains(t, string(img.Data), "<image")

	// rasterized cards carry no separable picture
	httpClient.EXPECT().GetRaw(ctx, "https://gw/ipfs/b", nil).Return(pngHeader, nil)
	img, err = renderer.Render(ctx, render.CardInput{Nickname: "alice", PreviousImageURI: "https://gw/ipfs/b"})
	require.NoError(t, err)
	assert.NotContains(t, string(img.Data), "<image")
}
