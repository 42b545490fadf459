package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/download"
	"karolbroda.com/moosic/internal/theme"
	"karolbroda.com/moosic/internal/track"
)

func printSuccess(msg string)     { fmt.Println(theme.Success(msg)) }
func printInfo(msg string)        { fmt.Println(theme.Info(msg)) }
func printWarning(msg string)     { fmt.Fprintln(os.Stderr, theme.Warning(msg)) }
func printDownloading(msg string) { fmt.Println(theme.Downloading(msg)) }
func printHeader(title string)    { fmt.Println(theme.Header(title)) }

func printError(err error) {
	fmt.Fprintln(os.Stderr, theme.Error(err.Error()))
	if hint := catalog.Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, theme.DimStyle.Render("hint: "+hint))
	}
}

func printTracks(w io.Writer, tracks []track.Track) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tARTIST\tTITLE\tDURATION\tID")
	for i, t := range tracks {
		mark := ""
		if !t.Playable() {
			mark = " (no url)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\n", i+1, t.Artist, t.Title, track.FormatDuration(t.Duration), t.Key(), mark)
	}
	tw.Flush()

	fmt.Fprintf(w, "\ntotal: %d tracks, %s\n", len(tracks), track.FormatDuration(track.TotalDuration(tracks)))
}

func printPlaylists(w io.Writer, playlists []track.Playlist) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTRACKS\tPLAYS\tACCESS KEY")
	for _, p := range playlists {
		key := p.AccessKey
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", p.ID, p.DisplayTitle(), p.Count, humanize.Comma(int64(p.Plays)), key)
	}
	tw.Flush()

	fmt.Fprintf(w, "\ntotal: %d playlists\n", len(playlists))
}

func printUsers(w io.Writer, users []track.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME")
	for i, u := range users {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", i+1, u.ID, u.FullName())
	}
	tw.Flush()

	fmt.Fprintf(w, "\ntotal: %d friends\n", len(users))
}

func printResult(n, total int, r download.Result) {
	prefix := fmt.Sprintf("[%d/%d] %s", n, total, r.Track.DisplayName())
	switch r.Status {
	case download.StatusDone:
		fmt.Println(theme.Success(fmt.Sprintf("%s (%s)", prefix, humanize.Bytes(uint64(r.Size)))))
	case download.StatusSkipped:
		reason := "already downloaded"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		fmt.Println(theme.DimStyle.Render(fmt.Sprintf("- %s: %s", prefix, reason)))
	default:
		fmt.Println(theme.Error(fmt.Sprintf("%s: %v", prefix, r.Err)))
	}
}

func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}
