package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/library"
	"karolbroda.com/moosic/internal/track"
)

var (
	// flags for library list
	librarySortBy  string
	libraryConfirm bool
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "manage the index of downloaded tracks",
	Long:  `view and maintain the index of downloaded tracks used to skip repeated downloads.`,
}

var libraryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show library statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := state.library()

		st, err := idx.Stats()
		if err != nil {
			return fmt.Errorf("failed to get library stats: %w", err)
		}

		fmt.Println("library statistics:")
		fmt.Printf("  location: %s\n", idx.Path())
		fmt.Printf("  tracks:   %d\n", st.Entries)
		fmt.Printf("  missing:  %d\n", st.Missing)
		fmt.Printf("  audio:    %s\n", humanize.Bytes(uint64(st.MediaBytes)))
		fmt.Printf("  index:    %s\n", humanize.Bytes(uint64(st.IndexBytes)))

		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "list downloaded tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := state.library().ListAll()
		if err != nil {
			return fmt.Errorf("failed to list library: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("library is empty")
			return nil
		}

		sortEntries(entries, librarySortBy)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tARTIST\tTITLE\tDURATION\tSIZE\tDOWNLOADED")

		for _, e := range entries {
			size := humanize.Bytes(uint64(e.Size))
			if !e.Exists() {
				size = "missing"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Key(), e.Artist, e.Title, track.FormatDuration(e.Duration), size,
				humanize.Time(time.Unix(e.DownloadedAt, 0)))
		}

		w.Flush()

		fmt.Printf("\ntotal: %d tracks\n", len(entries))

		return nil
	},
}

var libraryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "forget all downloaded tracks",
	Long:  `remove every library entry. downloaded files stay on disk. use --confirm to skip the prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !libraryConfirm {
			fmt.Print("are you sure you want to clear the library index? (y/n): ")
			var response string
			fmt.Scanln(&response)
			if r := strings.ToLower(response); r != "y" && r != "yes" {
				fmt.Println("cancelled")
				return nil
			}
		}

		if err := state.library().Clear(); err != nil {
			return fmt.Errorf("failed to clear library: %w", err)
		}

		fmt.Println("library cleared")
		return nil
	},
}

var libraryPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "drop entries whose file is gone",
	RunE: func(cmd *cobra.Command, args []string) error {
		pruned, err := state.library().Prune()
		if err != nil {
			return fmt.Errorf("failed to prune library: %w", err)
		}

		fmt.Printf("removed %d stale entries\n", pruned)
		return nil
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "remove one track from the library",
	Long:  `remove a track from the library by its key (owner_id) as shown by 'library list'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		idx := state.library()

		entry, err := idx.GetKey(key)
		if err != nil {
			if suggestions := findSimilarEntries(idx, key); len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "track not found in library\n\ndid you mean one of these?\n")
				for _, s := range suggestions {
					fmt.Fprintf(os.Stderr, "  %s  %s - %s\n", s.Key(), s.Artist, s.Title)
				}
			}
			return fmt.Errorf("track %s not found in library: %w", key, err)
		}

		if err := idx.Delete(key); err != nil {
			return fmt.Errorf("failed to delete from library: %w", err)
		}

		fmt.Printf("deleted '%s - %s' from library\n", entry.Artist, entry.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)

	libraryCmd.AddCommand(libraryStatsCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryClearCmd)
	libraryCmd.AddCommand(libraryPruneCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)

	libraryListCmd.Flags().StringVar(&librarySortBy, "sort", "date", "sort by: date, artist, title")
	libraryClearCmd.Flags().BoolVar(&libraryConfirm, "confirm", false, "skip confirmation prompt")
}

func sortEntries(entries []*library.Entry, sortBy string) {
	switch sortBy {
	case "artist":
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Artist) < strings.ToLower(entries[j].Artist)
		})
	case "title":
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		})
	}
}

// findSimilarEntries suggests up to five entries whose key, artist or title
// contains the query.
func findSimilarEntries(idx *library.Index, query string) []*library.Entry {
	all, err := idx.ListAll()
	if err != nil {
		return nil
	}

	q := strings.ToLower(query)
	var matches []*library.Entry
	for _, e := range all {
		if strings.Contains(e.Key(), q) ||
			strings.Contains(strings.ToLower(e.Artist), q) ||
			strings.Contains(strings.ToLower(e.Title), q) {
			matches = append(matches, e)
			if len(matches) == 5 {
				break
			}
		}
	}
	return matches
}
