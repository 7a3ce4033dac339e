package covercolor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"bookshelf/internal/download"
	"bookshelf/internal/metrics"
)

// ErrUnsupportedImage is returned when a cover is not in a decodable image format.
var ErrUnsupportedImage = errors.New("covercolor: unsupported image format")

// Sampler derives a cover colour by downloading the cover and averaging its pixels.
type Sampler struct {
	client  *download.Client
	metrics *metrics.Metrics
}

// NewSampler returns a Sampler fetching through client (nil uses download defaults).
func NewSampler(client *download.Client, m *metrics.Metrics) *Sampler {
	if client == nil {
		client = download.New(0)
	}
	return &Sampler{client: client, metrics: m}
}

// Resolve implements Resolver.
func (s *Sampler) Resolve(ctx context.Context, url string) (color.RGBA, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveSample(time.Since(start)) }()

	p, err := s.client.Fetch(ctx, url)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("covercolor: %w", err)
	}
	img, err := Decode(p.Data)
	if err != nil {
		return color.RGBA{}, err
	}
	return Average(img), nil
}

// Decode decodes a JPEG, PNG, GIF, BMP or WebP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedImage
	}
	if err != nil {
		return nil, fmt.Errorf("covercolor: decode: %w", err)
	}
	return img, nil
}

// Average returns the mean colour of img as an opaque colour.
func Average(img image.Image) color.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return Fallback
	}
	px := transform.Resize(img, 1, 1, transform.Box)
	c := px.RGBAAt(0, 0)
	c.A = 0xff
	return c
}
