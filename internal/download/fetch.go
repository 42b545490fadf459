// Package download saves catalog audio to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

const partSuffix = ".part"

var ErrNoURL = errors.New("track has no playback url")

// Progress is called as bytes arrive. total is -1 when the server did not
// send a length.
type Progress func(done, total int64)

// ProgressText renders a progress line such as "1.2 MB / 4.8 MB (25%)".
func ProgressText(done, total int64) string {
	if total <= 0 {
		return humanize.Bytes(uint64(max(done, 0)))
	}
	pct := float64(done) / float64(total) * 100
	return fmt.Sprintf("%s / %s (%.0f%%)", humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)), pct)
}

// Fetcher streams remote audio to local files.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// Fetch writes the body of url to dst. The data lands in dst+".part" first
// and is renamed once complete, so dst never holds a partial file.
func (f *Fetcher) Fetch(ctx context.Context, url, dst string, progress Progress) (int64, error) {
	if url == "" {
		return 0, ErrNoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build download request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	// the cdn refuses hotlinked requests without these
	req.Header.Set("Referer", "https://vk.com/")
	req.Header.Set("Origin", "https://vk.com")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create download directory: %w", err)
		}
	}

	partPath := dst + partSuffix
	file, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	var w io.Writer = file
	if progress != nil {
		w = &countingWriter{w: file, total: resp.ContentLength, progress: progress}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		file.Close()
		_ = os.Remove(partPath)
		return 0, fmt.Errorf("download interrupted: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(partPath)
		return 0, err
	}

	if err := os.Rename(partPath, dst); err != nil {
		_ = os.Remove(partPath)
		return 0, err
	}
	return n, nil
}

type countingWriter struct {
	w        io.Writer
	done     int64
	total    int64
	progress Progress
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.done += int64(n)
	c.progress(c.done, c.total)
	return n, err
}
