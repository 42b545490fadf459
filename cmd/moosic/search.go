package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

var (
	searchPopular bool
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "search tracks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}
		return state.search(ctx, s, strings.Join(args, " "), searchPopular)
	},
}

var recommendationsCmd = &cobra.Command{
	Use:     "recommendations",
	Aliases: []string{"recs"},
	Short:   "browse recommended tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}
		return state.recommendations(ctx, s)
	},
}

func (a *app) search(ctx context.Context, s catalog.Session, query string, popular bool) error {
	var res *catalog.SearchResult
	err := a.withSpinner(ctx, "searching...", func(ctx context.Context) error {
		var err error
		res, err = a.client.Search(ctx, s, catalog.SearchQuery{Query: query, Count: searchLimit, Popular: popular})
		return err
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(res.Tracks) > 0 {
		printInfo(fmt.Sprintf("found %s tracks, showing %d", humanize.Comma(int64(res.Total)), len(res.Tracks)))
	}
	return a.browse(ctx, "search: "+query, res.Tracks)
}

func (a *app) recommendations(ctx context.Context, s catalog.Session) error {
	var (
		tracks []track.Track
		query  string
	)
	err := a.withSpinner(ctx, "loading recommendations...", func(ctx context.Context) error {
		var err error
		tracks, query, err = a.client.Discover(ctx, s, catalog.DefaultSearchCount)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load recommendations: %w", err)
	}

	title := "recommendations"
	if query != "" {
		printWarning(fmt.Sprintf("recommendations unavailable, showing popular results for %q", query))
		title = "popular: " + query
	}
	return a.browse(ctx, title, tracks)
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recommendationsCmd)

	searchCmd.Flags().BoolVarP(&searchPopular, "popular", "p", false, "sort results by popularity")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", catalog.DefaultSearchCount, "number of results")
}
