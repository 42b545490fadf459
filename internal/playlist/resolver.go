// Package playlist resolves a playlist to its ordered list of tracks.
//
// The catalog does not answer playlist listings the same way for every
// account and every kind of playlist, so the resolver walks an ordered chain
// of request strategies and returns the first non-empty result.
package playlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

var ErrNoPlaylistID = errors.New("playlist id is required")

// Lister is the single catalog call the strategies need.
type Lister interface {
	Audio(ctx context.Context, s catalog.Session, q catalog.AudioQuery) ([]track.Track, error)
}

// Request identifies one playlist lookup. OwnerID 0 means the session user.
type Request struct {
	PlaylistID string
	OwnerID    int64
	AccessKey  string
}

type Resolver struct {
	lister     Lister
	strategies []Strategy
}

func NewResolver(lister Lister) *Resolver {
	return &Resolver{
		lister:     lister,
		strategies: DefaultStrategies(),
	}
}

// WithStrategies replaces the chain, mostly for tests.
func (r *Resolver) WithStrategies(strategies ...Strategy) *Resolver {
	r.strategies = strategies
	return r
}

// Resolve runs the strategies in order. The first non-empty list wins; if
// every strategy comes back empty the result is an empty list and no error.
// Any strategy error stops the chain.
func (r *Resolver) Resolve(ctx context.Context, s catalog.Session, req Request) ([]track.Track, error) {
	req.PlaylistID = strings.TrimSpace(req.PlaylistID)
	if req.PlaylistID == "" {
		return nil, ErrNoPlaylistID
	}
	if !s.HasToken() {
		return nil, catalog.ErrNoToken
	}
	if req.OwnerID == 0 {
		req.OwnerID = s.UserID
	}

	for _, strategy := range r.strategies {
		if strategy.Applies != nil && !strategy.Applies(req) {
			slog.Debug("skipping strategy", "strategy", strategy.Name, "playlist_id", req.PlaylistID)
			continue
		}

		slog.Debug("trying strategy", "strategy", strategy.Name, "playlist_id", req.PlaylistID, "owner_id", req.OwnerID)

		tracks, err := strategy.Run(ctx, r.lister, s, req)
		if err != nil {
			return nil, err
		}
		if len(tracks) > 0 {
			slog.Debug("strategy resolved playlist", "strategy", strategy.Name, "tracks", len(tracks))
			return tracks, nil
		}
	}

	slog.Debug("no strategy found tracks", "playlist_id", req.PlaylistID)
	return []track.Track{}, nil
}
