package download

import (
	"fmt"
	"strconv"

	"github.com/bogem/id3v2"

	"karolbroda.com/moosic/internal/track"
)

// Tag writes title, artist, album, year and genre frames to the file at path.
func Tag(path string, t *track.Track) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.Title != "" {
		tag.SetTitle(t.Title)
	}
	if t.Artist != "" {
		tag.SetArtist(t.Artist)
	}
	if album := t.AlbumTitle(); album != "" {
		tag.SetAlbum(album)
	}
	if year := t.Year(); year > 0 {
		tag.SetYear(strconv.Itoa(year))
	}
	if genre := t.Genre(); genre != "" {
		tag.SetGenre(genre)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}
