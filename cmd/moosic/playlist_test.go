package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"karolbroda.com/moosic/internal/auth"
	"karolbroda.com/moosic/internal/catalog"

	"karolbroda.com/moosic/internal/playlist"
	"karolbroda.com/moosic/internal/track"
)

func TestPlaylistRequest(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		owner     int64
		accessKey string
		want      playlist.Request
	}{
		{name: "bare id", arg: "42", want: playlist.Request{PlaylistID: "42"}},
		{name: "trimmed", arg: " 42 ", want: playlist.Request{PlaylistID: "42"}},
		{name: "owner and id", arg: "-100_42", want: playlist.Request{PlaylistID: "42", OwnerID: -100}},
		{name: "share link form", arg: "7_42_abc", want: playlist.Request{PlaylistID: "42", OwnerID: 7, AccessKey: "abc"}},
		{name: "non numeric owner kept as id", arg: "x_42", want: playlist.Request{PlaylistID: "x_42"}},
		{name: "flags win", arg: "7_42_abc", owner: 9, accessKey: "key", want: playlist.Request{PlaylistID: "42", OwnerID: 9, AccessKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			playlistOwner, playlistAccessKey = tt.owner, tt.accessKey
			t.Cleanup(func() { playlistOwner, playlistAccessKey = 0, "" })

			if got := playlistRequest(tt.arg); got != tt.want {
				t.Errorf("playlistRequest(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestFriendName(t *testing.T) {
	friends := []track.User{{ID: 1, FirstName: "Ann", LastName: "Lee"}}

	if got := friendName(friends, 1); got != "Ann Lee" {
		t.Errorf("friendName(1) = %q", got)
	}
	if got := friendName(friends, 5); got != "5" {
		t.Errorf("friendName(5) = %q", got)
	}
}

func TestPlaylistURL(t *testing.T) {
	tests := []struct {
		req  playlist.Request
		want string
	}{
		{req: playlist.Request{PlaylistID: "42", OwnerID: 100}, want: "https://vk.com/music/playlist/100_42"},
		{req: playlist.Request{PlaylistID: " 42 ", OwnerID: -7, AccessKey: "abc"}, want: "https://vk.com/music/playlist/-7_42_abc"},
	}

	for _, tt := range tests {
		if got := playlistURL(tt.req); got != tt.want {
			t.Errorf("playlistURL(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}

func TestPrintMethodReport(t *testing.T) {
	statuses := []auth.MethodStatus{
		{Method: auth.Methods[0]},
		{Method: auth.Methods[1], Err: &catalog.APIError{Code: catalog.CodePermissionDenied, Message: "Access denied"}},
		{Method: auth.Methods[3], Err: errors.New("connection reset")},
	}

	var buf bytes.Buffer
	printMethodReport(&buf, statuses)
	out := buf.String()

	for _, want := range []string{
		"friends' music",
		"my music",
		"no access",
		"request failed",
		`needs the "audio" permission`,
		"replaced by popular music",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
