package track

import (
	"fmt"
	"strings"
	"time"
)

// Track is a single audio record as returned by the catalog.
type Track struct {
	ID       int64   `json:"id"`
	OwnerID  int64   `json:"owner_id"`
	Artist   string  `json:"artist"`
	Title    string  `json:"title"`
	Duration int     `json:"duration"`
	URL      string  `json:"url"`
	AlbumID  GroupID `json:"album_id"`
	GenreID  int     `json:"genre_id"`
	Date     int64   `json:"date"`
	Album    *Album  `json:"album,omitempty"`
}

// Album is the optional album block attached to a track.
type Album struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	Title     string `json:"title"`
	AccessKey string `json:"access_key"`
	Thumb     *Thumb `json:"thumb,omitempty"`
}

// Thumb holds cover image urls at a few sizes.
type Thumb struct {
	Photo68  string `json:"photo_68"`
	Photo135 string `json:"photo_135"`
	Photo300 string `json:"photo_300"`
	Photo600 string `json:"photo_600"`
}

// Largest returns the biggest available cover url.
func (t *Thumb) Largest() string {
	if t == nil {
		return ""
	}
	for _, u := range []string{t.Photo600, t.Photo300, t.Photo135, t.Photo68} {
		if u != "" {
			return u
		}
	}
	return ""
}

func (t *Track) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" && t.Artist != ""
}

// Playable reports whether the catalog handed out a stream url for the track.
// Geo or licensing restricted tracks come back without one.
func (t *Track) Playable() bool {
	return t != nil && t.URL != ""
}

func (t *Track) IsSameTrack(other *Track) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.ID != 0 && other.ID != 0 {
		return t.ID == other.ID && t.OwnerID == other.OwnerID
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

// Key identifies the track across listings.
func (t *Track) Key() string {
	return Key(t.OwnerID, t.ID)
}

func Key(ownerID, id int64) string {
	return fmt.Sprintf("%d_%d", ownerID, id)
}

func (t *Track) DisplayName() string {
	artist := strings.TrimSpace(t.Artist)
	if artist == "" {
		artist = "Unknown Artist"
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Unknown Title"
	}
	return artist + " - " + title
}

func (t *Track) AlbumTitle() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Title
}

func (t *Track) Genre() string {
	return GenreName(t.GenreID)
}

// Year is the upload year reported by the catalog, zero when unknown.
func (t *Track) Year() int {
	if t.Date <= 0 {
		return 0
	}
	return time.Unix(t.Date, 0).UTC().Year()
}

func FormatDuration(seconds int) string {
	if seconds < 0 {
		return "0:00"
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TotalDuration sums durations of the given tracks in seconds.
func TotalDuration(tracks []Track) int {
	total := 0
	for i := range tracks {
		if tracks[i].Duration > 0 {
			total += tracks[i].Duration
		}
	}
	return total
}
