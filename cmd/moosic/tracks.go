package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

var (
	tracksOwner    int64
	tracksDownload bool
	tracksLimit    int
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "browse your tracks or those of another owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		tracks, err := state.ownerTracks(ctx, s, tracksOwner, tracksLimit)
		if err != nil {
			return err
		}
		if tracksDownload {
			return state.downloadAll(ctx, "", tracks, 0)
		}
		return state.browse(ctx, "my music", tracks)
	},
}

func (a *app) ownerTracks(ctx context.Context, s catalog.Session, owner int64, limit int) ([]track.Track, error) {
	if limit <= 0 {
		limit = a.cfg.PageSize
	}
	var tracks []track.Track
	err := a.withSpinner(ctx, "loading tracks...", func(ctx context.Context) error {
		var err error
		tracks, err = a.client.Audio(ctx, s, catalog.AudioQuery{OwnerID: owner, Count: limit})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return tracks, nil
}

func init() {
	rootCmd.AddCommand(tracksCmd)

	tracksCmd.Flags().Int64Var(&tracksOwner, "owner", 0, "owner id (default: you)")
	tracksCmd.Flags().BoolVar(&tracksDownload, "download", false, "download all listed tracks")
	tracksCmd.Flags().IntVarP(&tracksLimit, "limit", "n", 0, "number of tracks to load (default MOOSIC_PAGE_SIZE)")
}
