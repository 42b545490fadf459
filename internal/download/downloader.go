package download

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"karolbroda.com/moosic/internal/library"
	"karolbroda.com/moosic/internal/track"
)

type Status int

const (
	StatusDone Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

type Result struct {
	Track  track.Track
	Path   string
	Size   int64
	Status Status
	Err    error
}

// Downloader saves tracks into Dir and records them in the library. A nil
// Index disables the library bookkeeping.
type Downloader struct {
	Fetcher *Fetcher
	Dir     string
	Index   *library.Index
	NoTags  bool

	mu      sync.Mutex
	claimed map[string]bool
}

// claimPath picks a free path for name that no concurrent download of this
// Downloader is already writing to.
func (d *Downloader) claimPath(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.claimed == nil {
		d.claimed = make(map[string]bool)
	}
	path := uniquePath(d.Dir, name, func(p string) bool {
		return d.claimed[p] || exists(p)
	})
	d.claimed[path] = true
	return path
}

func (d *Downloader) release(path string) {
	d.mu.Lock()
	delete(d.claimed, path)
	d.mu.Unlock()
}

// Track downloads one track. A track already recorded in the library whose
// file still exists is skipped and its recorded path returned.
func (d *Downloader) Track(ctx context.Context, t track.Track, progress Progress) Result {
	res := Result{Track: t}

	if d.Index != nil {
		if entry, err := d.Index.Get(&t); err == nil && entry.Exists() {
			res.Path = entry.Path
			res.Size = entry.Size
			res.Status = StatusSkipped
			return res
		}
	}

	if !t.Playable() {
		res.Status = StatusSkipped
		res.Err = ErrNoURL
		return res
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	path := d.claimPath(FileName(&t))
	defer d.release(path)

	n, err := d.Fetcher.Fetch(ctx, t.URL, path, progress)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Path = path
	res.Size = n

	if !d.NoTags {
		if err := Tag(path, &t); err != nil {
			slog.Warn("failed to tag download", "path", path, "error", err)
		} else if info, err := os.Stat(path); err == nil {
			res.Size = info.Size()
		}
	}

	if d.Index != nil {
		if _, err := d.Index.Put(&t, path, res.Size); err != nil {
			slog.Warn("failed to record download", "path", path, "error", err)
		}
	}

	slog.Debug("downloaded track", "track", t.DisplayName(), "path", path, "bytes", res.Size)
	res.Status = StatusDone
	return res
}

// All downloads tracks with at most workers in flight. Per-track failures
// are reported in the results, which keep the input order; the returned
// error is only set when ctx ends the batch early. onResult, when set, is
// called once per finished track; calls never overlap.
func (d *Downloader) All(ctx context.Context, tracks []track.Track, workers int, onResult func(Result)) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}

	// tracks never started keep the cancelled result
	results := make([]Result, len(tracks))
	for i := range tracks {
		results[i] = Result{Track: tracks[i], Status: StatusFailed, Err: context.Canceled}
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range tracks {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Track: tracks[i], Status: StatusFailed, Err: err}
				return err
			}

			res := d.Track(gctx, tracks[i], nil)
			results[i] = res

			if onResult != nil {
				mu.Lock()
				onResult(res)
				mu.Unlock()
			}

			if res.Err != nil && errors.Is(res.Err, context.Canceled) {
				return res.Err
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

// Summary counts results by status.
func Summary(results []Result) (done, skipped, failed int) {
	for _, r := range results {
		switch r.Status {
		case StatusDone:
			done++
		case StatusSkipped:
			skipped++
		default:
			failed++
		}
	}
	return done, skipped, failed
}
