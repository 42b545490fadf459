package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bogem/id3v2"

	"karolbroda.com/moosic/internal/library"
	"karolbroda.com/moosic/internal/track"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "AC/DC - Back In Black", want: "AC_DC - Back In Black"},
		{in: `What? "Yes": <No> | *`, want: `What_ 'Yes'_ _No_ _ _`},
		{in: "  spaced \t out\n ", want: "spaced out"},
		{in: "...", want: "track"},
		{in: "", want: "track"},
		{in: "Кино - Группа крови", want: "Кино - Группа крови"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeName_Truncates(t *testing.T) {
	got := SanitizeName(strings.Repeat("я", 200))
	if len(got) > maxNameLength {
		t.Errorf("len = %d, want <= %d", len(got), maxNameLength)
	}
	if !strings.HasPrefix(strings.Repeat("я", 200), got) {
		t.Error("truncation split a rune")
	}
}

func TestFileName(t *testing.T) {
	got := FileName(&track.Track{Artist: "Kino", Title: "Zvezda/Sun"})
	if got != "Kino - Zvezda_Sun.mp3" {
		t.Errorf("got %q", got)
	}
	if got := FileName(&track.Track{}); got != "Unknown Artist - Unknown Title.mp3" {
		t.Errorf("got %q", got)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	first := UniquePath(dir, "a.mp3")
	if first != filepath.Join(dir, "a.mp3") {
		t.Fatalf("got %q", first)
	}
	for _, name := range []string{"a.mp3", "a (1).mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := UniquePath(dir, "a.mp3"); got != filepath.Join(dir, "a (2).mp3") {
		t.Errorf("got %q", got)
	}
}

func TestProgressText(t *testing.T) {
	if got := ProgressText(500, 1000); got != "500 B / 1.0 kB (50%)" {
		t.Errorf("got %q", got)
	}
	if got := ProgressText(0, -1); got != "0 B" {
		t.Errorf("got %q", got)
	}
}

func audioServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.Header.Get("Referer") != "https://vk.com/" || r.Header.Get("Origin") != "https://vk.com" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("fake audio payload"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := audioServer(t, nil)
	dst := filepath.Join(t.TempDir(), "sub", "out.mp3")

	var last int64
	f := &Fetcher{Client: srv.Client(), UserAgent: "test"}
	n, err := f.Fetch(context.Background(), srv.URL+"/a.mp3", dst, func(done, total int64) { last = done })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len("fake audio payload")) || last != n {
		t.Errorf("n = %d, last progress = %d", n, last)
	}

	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "fake audio payload" {
		t.Errorf("unexpected content %q, err %v", data, err)
	}
	if _, err := os.Stat(dst + partSuffix); !os.IsNotExist(err) {
		t.Error("part file left behind")
	}
}

func TestFetch_Errors(t *testing.T) {
	srv := audioServer(t, nil)
	dst := filepath.Join(t.TempDir(), "out.mp3")
	f := &Fetcher{Client: srv.Client()}

	if _, err := f.Fetch(context.Background(), "", dst, nil); !errors.Is(err, ErrNoURL) {
		t.Errorf("expected ErrNoURL, got %v", err)
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing", dst, nil); err == nil {
		t.Error("expected status error")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("failed download must not create the file")
	}
}

func TestTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("fake audio payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	trk := &track.Track{
		Artist:  "Кино",
		Title:   "Группа крови",
		Date:    567993600, // 1988
		GenreID: 1,
		Album:   &track.Album{Title: "Группа крови"},
	}
	if err := Tag(path, trk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Title() != "Группа крови" || tag.Artist() != "Кино" || tag.Album() != "Группа крови" {
		t.Errorf("unexpected tags: %q %q %q", tag.Title(), tag.Artist(), tag.Album())
	}
	if tag.Year() != "1988" {
		t.Errorf("Year() = %q", tag.Year())
	}
}

func newDownloader(t *testing.T, srv *httptest.Server) (*Downloader, *library.Index) {
	t.Helper()
	root := t.TempDir()
	idx, err := library.Open(filepath.Join(root, "index"))
	if err != nil {
		t.Fatal(err)
	}
	return &Downloader{
		Fetcher: &Fetcher{Client: srv.Client()},
		Dir:     filepath.Join(root, "music"),
		Index:   idx,
	}, idx
}

func TestDownloader_Track(t *testing.T) {
	var hits atomic.Int32
	srv := audioServer(t, &hits)
	d, idx := newDownloader(t, srv)

	trk := track.Track{ID: 1, OwnerID: 100, Artist: "A", Title: "T", URL: srv.URL + "/a.mp3"}

	res := d.Track(context.Background(), trk, nil)
	if res.Status != StatusDone || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if filepath.Base(res.Path) != "A - T.mp3" {
		t.Errorf("path = %q", res.Path)
	}
	if _, err := idx.Get(&trk); err != nil {
		t.Errorf("expected library entry, got %v", err)
	}

	again := d.Track(context.Background(), trk, nil)
	if again.Status != StatusSkipped || again.Path != res.Path {
		t.Errorf("expected skip of known track, got %+v", again)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}

	// once the file is gone the track downloads again
	if err := os.Remove(res.Path); err != nil {
		t.Fatal(err)
	}
	if third := d.Track(context.Background(), trk, nil); third.Status != StatusDone {
		t.Errorf("expected re-download, got %+v", third)
	}
}

func TestDownloader_TrackWithoutURL(t *testing.T) {
	srv := audioServer(t, nil)
	d, _ := newDownloader(t, srv)

	res := d.Track(context.Background(), track.Track{ID: 2, Artist: "A", Title: "T"}, nil)
	if res.Status != StatusSkipped || !errors.Is(res.Err, ErrNoURL) {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDownloader_All(t *testing.T) {
	var hits atomic.Int32
	srv := audioServer(t, &hits)
	d, _ := newDownloader(t, srv)
	d.NoTags = true

	tracks := []track.Track{
		{ID: 1, Artist: "A", Title: "one", URL: srv.URL + "/1.mp3"},
		{ID: 2, Artist: "A", Title: "two"},
		{ID: 3, Artist: "A", Title: "three", URL: srv.URL + "/missing"},
		{ID: 4, Artist: "A", Title: "four", URL: srv.URL + "/4.mp3"},
		{ID: 5, Artist: "A", Title: "four", URL: srv.URL + "/5.mp3"},
	}

	var reported atomic.Int32
	results, err := d.All(context.Background(), tracks, 2, func(Result) { reported.Add(1) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(tracks) || reported.Load() != int32(len(tracks)) {
		t.Fatalf("results = %d, reported = %d", len(results), reported.Load())
	}
	for i := range tracks {
		if results[i].Track.ID != tracks[i].ID {
			t.Errorf("results[%d] is track %d, want input order", i, results[i].Track.ID)
		}
	}

	done, skipped, failed := Summary(results)
	if done != 3 || skipped != 1 || failed != 1 {
		t.Errorf("done=%d skipped=%d failed=%d", done, skipped, failed)
	}
	if results[3].Path == results[4].Path {
		t.Error("same-named tracks must get distinct paths")
	}
}

func TestDownloader_AllCancelled(t *testing.T) {
	srv := audioServer(t, nil)
	d, _ := newDownloader(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := d.All(ctx, []track.Track{{ID: 1, Artist: "A", Title: "T", URL: srv.URL + "/1.mp3"}}, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if results[0].Status != StatusFailed {
		t.Errorf("unexpected result %+v", results[0])
	}
}
