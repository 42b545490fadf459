package terminal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

const kittyChunk = 4096

// cell size in pixels assumed when scaling for the kitty protocol
const (
	cellWidth  = 10
	cellHeight = 20
)

// KittyImage encodes img as a kitty graphics escape sequence that fills at
// most cols x rows cells, preserving the aspect ratio.
func KittyImage(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	w, h := fit(b.Dx(), b.Dy(), cols*cellWidth, rows*cellHeight)
	scaled := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return ""
	}
	payload := base64.StdEncoding.EncodeToString(buf.Bytes())

	var out strings.Builder
	for start := 0; start < len(payload); start += kittyChunk {
		end := min(start+kittyChunk, len(payload))
		more := 0
		if end < len(payload) {
			more = 1
		}
		if start == 0 {
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,c=%d,r=%d,m=%d;%s\x1b\\", cols, rows, more, payload[start:end])
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d;%s\x1b\\", more, payload[start:end])
		}
	}
	return out.String()
}

func fit(srcW, srcH, maxW, maxH int) (int, int) {
	ratio := float64(srcW) / float64(srcH)
	w, h := maxW, maxH
	if ratio > float64(maxW)/float64(maxH) {
		h = int(float64(maxW) / ratio)
	} else {
		w = int(float64(maxH) * ratio)
	}
	return max(w, 10), max(h, 10)
}
