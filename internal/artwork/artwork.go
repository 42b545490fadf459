// Package artwork fetches playlist covers and draws them in the terminal.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"

	"karolbroda.com/moosic/internal/theme"
)

const maxImageBytes = 8 << 20

type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Gradient  []string
}

// Fetch downloads and decodes a jpeg or png cover. file:// urls are read
// from disk.
func Fetch(ctx context.Context, client *http.Client, coverURL string) (image.Image, error) {
	if coverURL == "" {
		return nil, errors.New("empty cover url")
	}

	if path, ok := strings.CutPrefix(coverURL, "file://"); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cover file: %w", err)
		}
		defer f.Close()
		return decode(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover fetch returned status %d", resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, maxImageBytes))
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}
	return img, nil
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   theme.ColorPrimary,
		Secondary: theme.ColorSecondary,
		Accent:    theme.ColorAccent,
		Gradient:  theme.Gradient(theme.ColorPrimary, theme.ColorSecondary, 20),
	}
}

type scored struct {
	hex        string
	saturation float64
	brightness float64
}

// ExtractPalette picks three accent colors from the dominant k-means
// clusters of img, preferring saturated mid-bright colors. Images that are
// too flat to yield three usable colors get the default palette.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	items, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(items) < 3 {
		return DefaultPalette()
	}

	var candidates []scored
	for _, it := range items {
		r, g, b := float64(it.Color.R)/255, float64(it.Color.G)/255, float64(it.Color.B)/255
		hi := math.Max(math.Max(r, g), b)
		lo := math.Min(math.Min(r, g), b)
		sat := 0.0
		if hi > 0 {
			sat = (hi - lo) / hi
		}
		if hi < 0.25 || sat < 0.1 {
			continue
		}
		candidates = append(candidates, scored{
			hex:        lift(it.Color.R, it.Color.G, it.Color.B, hi),
			saturation: sat,
			brightness: hi,
		})
	}
	if len(candidates) < 3 {
		return DefaultPalette()
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) > score(candidates[j])
	})

	p := &Palette{
		Primary:   candidates[0].hex,
		Accent:    candidates[1].hex,
		Secondary: candidates[2].hex,
	}
	p.Gradient = theme.Gradient(p.Primary, p.Secondary, 20)
	return p
}

func score(c scored) float64 {
	return c.saturation * (1 - math.Abs(c.brightness-0.6))
}

// lift brightens dark colors so they stay readable on a dark terminal.
func lift(r, g, b uint32, brightness float64) string {
	if brightness < 0.4 {
		factor := math.Min(0.4/brightness, 2.5)
		r = uint32(math.Min(255, float64(r)*factor))
		g = uint32(math.Min(255, float64(g)*factor))
		b = uint32(math.Min(255, float64(b)*factor))
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RenderHalfBlock draws img with "▀" cells, two pixels per cell: the
// foreground is the top pixel and the background the bottom one.
func RenderHalfBlock(img image.Image, width, height int) []string {
	if img == nil || width < 4 || height < 2 {
		return nil
	}

	resized := resize.Resize(uint(width), uint(height*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var line strings.Builder
		top := bounds.Min.Y + y*2
		bottom := top + 1

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr, tg, tb, ta := resized.At(x, top).RGBA()
			br, bg, bb, ba := tr, tg, tb, ta
			if bottom < bounds.Max.Y {
				br, bg, bb, ba = resized.At(x, bottom).RGBA()
			}

			if ta>>8 < 128 && ba>>8 < 128 {
				line.WriteByte(' ')
				continue
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", tr>>8, tg>>8, tb>>8))).
				Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", br>>8, bg>>8, bb>>8)))
			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}
	return lines
}
