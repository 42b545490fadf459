package playlist

import (
	"context"
	"fmt"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

type StrategyFunc func(ctx context.Context, l Lister, s catalog.Session, req Request) ([]track.Track, error)

type Strategy struct {
	Name string
	// Applies reports whether the strategy can run for req. nil means always.
	Applies func(req Request) bool
	Run     StrategyFunc
}

// ScanPageSize is the page size of the unscoped owner listing, the largest
// page audio.get serves.
const ScanPageSize = catalog.MaxAudioCount

// maxScanPages stops the walk if the catalog keeps answering full pages.
const maxScanPages = 100

func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "direct", Run: Direct},
		{Name: "access-key", Applies: hasAccessKey, Run: WithAccessKey},
		{Name: "scan", Run: Scan},
	}
}

func hasAccessKey(req Request) bool {
	return req.AccessKey != ""
}

// Direct lists the owner's audio scoped to the playlist.
func Direct(ctx context.Context, l Lister, s catalog.Session, req Request) ([]track.Track, error) {
	tracks, err := l.Audio(ctx, s, catalog.AudioQuery{
		OwnerID: req.OwnerID,
		AlbumID: req.PlaylistID,
	})
	if err != nil {
		return nil, fmt.Errorf("direct playlist lookup: %w", err)
	}
	return tracks, nil
}

// WithAccessKey repeats the scoped listing with the access key of a
// privately shared playlist.
func WithAccessKey(ctx context.Context, l Lister, s catalog.Session, req Request) ([]track.Track, error) {
	if req.AccessKey == "" {
		return nil, nil
	}
	tracks, err := l.Audio(ctx, s, catalog.AudioQuery{
		OwnerID:   req.OwnerID,
		AlbumID:   req.PlaylistID,
		AccessKey: req.AccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("access key playlist lookup: %w", err)
	}
	return tracks, nil
}

// Scan lists the owner's whole audio and keeps the tracks grouped under the
// playlist id. Order of the listing is preserved.
func Scan(ctx context.Context, l Lister, s catalog.Session, req Request) ([]track.Track, error) {
	return ScanPages(ScanPageSize)(ctx, l, s, req)
}

// ScanPages returns a scan that reads the owner's listing pageSize tracks at
// a time until a page comes back empty. The catalog may serve fewer tracks
// than asked for, so a short page does not end the listing.
func ScanPages(pageSize int) StrategyFunc {
	if pageSize <= 0 {
		pageSize = ScanPageSize
	}
	return func(ctx context.Context, l Lister, s catalog.Session, req Request) ([]track.Track, error) {
		var all []track.Track
		for page := 0; page < maxScanPages; page++ {
			batch, err := l.Audio(ctx, s, catalog.AudioQuery{
				OwnerID: req.OwnerID,
				Count:   pageSize,
				Offset:  len(all),
			})
			if err != nil {
				return nil, fmt.Errorf("owner audio scan at offset %d: %w", len(all), err)
			}
			if len(batch) == 0 {
				break
			}
			all = append(all, batch...)
		}
		return FilterByGroup(all, req.PlaylistID), nil
	}
}

func FilterByGroup(tracks []track.Track, playlistID string) []track.Track {
	var out []track.Track
	for _, t := range tracks {
		if t.AlbumID.IsZero() {
			continue
		}
		if t.AlbumID.Matches(playlistID) {
			out = append(out, t)
		}
	}
	return out
}
