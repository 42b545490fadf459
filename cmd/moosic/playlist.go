package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/artwork"
	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/playlist"
	"karolbroda.com/moosic/internal/terminal"
	"karolbroda.com/moosic/internal/theme"
	"karolbroda.com/moosic/internal/track"
)

var (
	playlistOwner     int64
	playlistAccessKey string
	playlistWorkers   int
	playlistNoCover   bool
)

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"playlists"},
	Short:   "list, browse and download playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "list playlists of you or another owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		playlists, err := state.playlists(ctx, s, playlistOwner)
		if err != nil {
			return err
		}
		if len(playlists) == 0 {
			printInfo("no playlists found")
			return nil
		}
		printPlaylists(os.Stdout, playlists)
		return nil
	},
}

var playlistTracksCmd = &cobra.Command{
	Use:   "tracks <playlist-id>",
	Short: "browse the tracks of a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		req := playlistRequest(args[0])
		tracks, err := state.resolve(ctx, s, req)
		if err != nil {
			return err
		}
		return state.browse(ctx, "playlist "+req.PlaylistID, tracks)
	},
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <playlist-id>",
	Short: "show playlist details and cover art",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		p, err := state.client.Playlist(ctx, s, playlistOwner, args[0])
		if err != nil {
			return err
		}
		showPlaylist(ctx, p)
		return nil
	},
}

var playlistDownloadCmd = &cobra.Command{
	Use:   "download <playlist-id>",
	Short: "download every track of a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		req := playlistRequest(args[0])
		tracks, err := state.resolve(ctx, s, req)
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			printInfo("playlist has no tracks available")
			return nil
		}

		name := "playlist " + req.PlaylistID
		if p, err := state.client.Playlist(ctx, s, req.OwnerID, req.PlaylistID); err == nil {
			name = p.DisplayTitle()
		}
		return state.downloadAll(ctx, name, tracks, playlistWorkers)
	},
}

// playlistRequest accepts "id", "owner_id" or "owner_id_id_accesskey" as
// printed in share links, with flags taking precedence.
func playlistRequest(arg string) playlist.Request {
	req := playlist.Request{PlaylistID: strings.TrimSpace(arg)}

	parts := strings.Split(req.PlaylistID, "_")
	if len(parts) >= 2 {
		if owner, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
			req.OwnerID = owner
			req.PlaylistID = parts[1]
			if len(parts) >= 3 {
				req.AccessKey = parts[2]
			}
		}
	}

	if playlistOwner != 0 {
		req.OwnerID = playlistOwner
	}
	if playlistAccessKey != "" {
		req.AccessKey = playlistAccessKey
	}
	return req
}

// playlistURL is the web page of a playlist, used when the catalog will not
// list it for this token.
func playlistURL(req playlist.Request) string {
	id := fmt.Sprintf("%d_%s", req.OwnerID, strings.TrimSpace(req.PlaylistID))
	if req.AccessKey != "" {
		id += "_" + req.AccessKey
	}
	return "https://vk.com/music/playlist/" + id
}

func (a *app) resolve(ctx context.Context, s catalog.Session, req playlist.Request) ([]track.Track, error) {
	var tracks []track.Track
	err := a.withSpinner(ctx, "loading playlist...", func(ctx context.Context) error {
		var err error
		tracks, err = a.resolver().Resolve(ctx, s, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist %s: %w", req.PlaylistID, err)
	}
	return tracks, nil
}

func (a *app) playlists(ctx context.Context, s catalog.Session, owner int64) ([]track.Playlist, error) {
	var playlists []track.Playlist
	err := a.withSpinner(ctx, "loading playlists...", func(ctx context.Context) error {
		var err error
		playlists, err = a.client.Playlists(ctx, s, owner, catalog.DefaultPlaylistCount)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}
	return playlists, nil
}

func showPlaylist(ctx context.Context, p *track.Playlist) {
	palette := artwork.DefaultPalette()
	var cover []string

	caps := terminal.DetectCapabilities()
	if url := p.CoverURL(); url != "" && !playlistNoCover && caps.Interactive {
		img, err := artwork.Fetch(ctx, state.client.HTTPClient(), url)
		if err != nil {
			printWarning("cover unavailable: " + err.Error())
		} else {
			palette = artwork.ExtractPalette(img)
			if caps.KittyGraphics {
				fmt.Println(terminal.KittyImage(img, 24, 12))
			} else {
				cover = artwork.RenderHalfBlock(img, 24, 12)
			}
		}
	}

	title := theme.GradientText(p.DisplayTitle(), palette.Gradient, true)
	details := []string{
		title,
		"",
		theme.KeyValue("id", fmt.Sprintf("%d_%d", p.OwnerID, p.ID), 10),
		theme.KeyValue("tracks", fmt.Sprint(p.Count), 10),
		theme.KeyValue("followers", humanize.Comma(int64(p.Followers)), 10),
		theme.KeyValue("plays", humanize.Comma(int64(p.Plays)), 10),
	}
	if p.AccessKey != "" {
		details = append(details, theme.KeyValue("access key", p.AccessKey, 10))
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		details = append(details, "", theme.DimStyle.Width(50).Render(d))
	}

	info := strings.Join(details, "\n")
	if len(cover) > 0 {
		fmt.Println(joinColumns(strings.Join(cover, "\n"), theme.Box(info)))
		return
	}
	fmt.Println(theme.Box(info))
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistTracksCmd)
	playlistCmd.AddCommand(playlistShowCmd)
	playlistCmd.AddCommand(playlistDownloadCmd)

	playlistCmd.PersistentFlags().Int64Var(&playlistOwner, "owner", 0, "owner id of the playlist (default: you)")
	playlistTracksCmd.Flags().StringVar(&playlistAccessKey, "access-key", "", "access key of a privately shared playlist")
	playlistDownloadCmd.Flags().StringVar(&playlistAccessKey, "access-key", "", "access key of a privately shared playlist")
	playlistDownloadCmd.Flags().IntVarP(&playlistWorkers, "workers", "w", 0, "parallel downloads (default MOOSIC_DOWNLOAD_WORKERS)")
	playlistShowCmd.Flags().BoolVar(&playlistNoCover, "no-cover", false, "do not fetch the cover image")
}
