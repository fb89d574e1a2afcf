// Package palette derives a small set of dominant colors from a poster
// image for UI theming.
//
// Pixels are grouped into 64 buckets by quantized luma, hue and
// lightness. Each bucket reports the mean color of its pixels, and
// buckets are ranked by the share of the image they cover.
package palette

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxColors is the palette size returned by Extract.
	MaxColors = 6

	maxImageBytes = 10 << 20
	maxSampleSide = 256
)

// Color is one palette entry.
type Color struct {
	Hex        string
	Proportion float64
}

// Extractor downloads images and computes their palettes.
type Extractor struct {
	http *http.Client
}

// NewExtractor creates an Extractor whose downloads are bounded by timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		http: &http.Client{Timeout: timeout},
	}
}

// Extract returns up to MaxColors hex colors for the image at imageURL,
// most prevalent first. Any failure is logged and yields an empty slice.
func (e *Extractor) Extract(ctx context.Context, imageURL string) []string {
	img, err := e.fetch(ctx, imageURL)
	if err != nil {
		slog.Warn("color extraction failed", "url", imageURL, "error", err)
		return []string{}
	}

	colors := Palette(img, MaxColors)
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		out = append(out, c.Hex)
	}
	return out
}

func (e *Extractor) fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image server returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

type bucket struct {
	key     int
	r, g, b int
	count   int
}

// Palette returns at most n dominant colors of img. Ties in coverage are
// broken by bucket key so the result is stable for identical input.
func Palette(img image.Image, n int) []Color {
	if n <= 0 {
		return nil
	}
	img = downscale(img)

	var buckets [64]bucket
	total := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.A == 0 {
				continue
			}
			k := bucketKey(px)
			b := &buckets[k]
			b.key = k
			b.r += int(px.R)
			b.g += int(px.G)
			b.b += int(px.B)
			b.count++
			total++
		}
	}
	if total == 0 {
		return []Color{}
	}

	ranked := make([]bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.count > 0 {
			ranked = append(ranked, b)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]Color, 0, len(ranked))
	for _, b := range ranked {
		c := colorful.Color{
			R: float64(b.r) / float64(b.count) / 255,
			G: float64(b.g) / float64(b.count) / 255,
			B: float64(b.b) / float64(b.count) / 255,
		}
		out = append(out, Color{
			Hex:        c.Hex(),
			Proportion: float64(b.count) / float64(total),
		})
	}
	return out
}

// bucketKey packs the top two bits of luma, hue and lightness.
func bucketKey(px color.NRGBA) int {
	luma := int(0.2126*float64(px.R) + 0.7152*float64(px.G) + 0.0722*float64(px.B))

	h, _, l := colorful.Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
	}.Hsl()
	hue := int(h / 360 * 256)
	light := int(l * 255)

	return clamp2(luma)<<4 | clamp2(hue)<<2 | clamp2(light)
}

func clamp2(v int) int {
	v >>= 6
	if v < 0 {
		return 0
	}
	if v > 3 {
		return 3
	}
	return v
}

// downscale shrinks large images so sampling cost stays bounded.
func downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSampleSide && h <= maxSampleSide {
		return img
	}

	scale := float64(maxSampleSide) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale))
	dh := max(1, int(float64(h)*scale))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
