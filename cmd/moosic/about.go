package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/theme"
)

var features = []string{
	"my music",
	"friends' music",
	"playlists with cover art",
	"track search",
	"recommendations and popular music",
	"downloads with id3 tags",
	"token from file, environment or manual input",
}

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "show program information",
	RunE: func(cmd *cobra.Command, args []string) error {
		printAbout()
		return nil
	},
}

func printAbout() {
	fmt.Println(theme.Banner("moosic"))
	fmt.Println()

	info := strings.Join([]string{
		theme.KeyValue("version", version, 9),
		theme.KeyValue("about", "console client for vk music", 9),
		theme.KeyValue("go", runtime.Version(), 9),
		theme.KeyValue("platform", runtime.GOOS+"/"+runtime.GOARCH, 9),
		theme.KeyValue("time", time.Now().Format("2006-01-02 15:04:05"), 9),
	}, "\n")
	fmt.Println(theme.Box(info))

	fmt.Println()
	fmt.Println(theme.InfoStyle.Render("features:"))
	for i, f := range features {
		style := theme.TextStyle
		if i%2 == 1 {
			style = theme.DimStyle
		}
		fmt.Println(style.Render("  • " + f))
	}
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}
