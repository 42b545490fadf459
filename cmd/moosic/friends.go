package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "list friends and browse their music",
}

var friendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "list your friends",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		friends, err := state.friends(ctx, s)
		if err != nil {
			return err
		}
		if len(friends) == 0 {
			printInfo("no friends found")
			return nil
		}
		printUsers(os.Stdout, friends)
		return nil
	},
}

var friendsTracksCmd = &cobra.Command{
	Use:   "tracks <friend-id>",
	Short: "browse a friend's tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid friend id %q", args[0])
		}

		ctx := cmd.Context()
		s, err := state.requireSession(ctx)
		if err != nil {
			return err
		}

		tracks, err := state.ownerTracks(ctx, s, id, 0)
		if err != nil {
			return err
		}
		return state.browse(ctx, fmt.Sprintf("music of %d", id), tracks)
	},
}

func (a *app) friends(ctx context.Context, s catalog.Session) ([]track.User, error) {
	var friends []track.User
	err := a.withSpinner(ctx, "loading friends...", func(ctx context.Context) error {
		var err error
		friends, err = a.client.Friends(ctx, s, catalog.DefaultFriendCount)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	return friends, nil
}

func init() {
	rootCmd.AddCommand(friendsCmd)

	friendsCmd.AddCommand(friendsListCmd)
	friendsCmd.AddCommand(friendsTracksCmd)
}
