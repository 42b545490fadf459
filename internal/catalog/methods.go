package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strconv"
	"strings"

	"karolbroda.com/moosic/internal/config"
	"karolbroda.com/moosic/internal/track"
)

const (
	DefaultAudioCount    = 100
	MaxAudioCount        = 6000
	DefaultPlaylistCount = 50
	DefaultSearchCount   = 50
	DefaultFriendCount   = 100

	maxPlaylistPages = 40
)

type items[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// AudioQuery selects audio of one owner. AlbumID scopes the listing to a
// playlist; AccessKey is required for playlists shared privately.
type AudioQuery struct {
	OwnerID   int64
	AlbumID   string
	AccessKey string
	Count     int
	Offset    int
}

type SearchQuery struct {
	Query   string
	Count   int
	Offset  int
	Popular bool
}

type SearchResult struct {
	Total  int
	Tracks []track.Track
}

// Users returns the account that owns the token.
func (c *Client) Users(ctx context.Context, s Session) (*track.User, error) {
	params := url.Values{}
	params.Set("fields", "first_name,last_name,photo_100")

	var users []track.User
	if err := c.Call(ctx, s, "users.get", params, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("users.get returned no user")
	}
	return &users[0], nil
}

func (c *Client) Friends(ctx context.Context, s Session, count int) ([]track.User, error) {
	if s.UserID == 0 {
		return nil, ErrNoUserID
	}
	if count <= 0 {
		count = DefaultFriendCount
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("fields", "first_name,last_name,photo_100")
	params.Set("order", "name")

	var res items[track.User]
	if err := c.Call(ctx, s, "friends.get", params, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Audio lists tracks of an owner, defaulting to the session user.
func (c *Client) Audio(ctx context.Context, s Session, q AudioQuery) ([]track.Track, error) {
	owner := q.OwnerID
	if owner == 0 {
		owner = s.UserID
	}
	if owner == 0 {
		return nil, ErrNoUserID
	}
	count := q.Count
	if count <= 0 {
		count = DefaultAudioCount
	}

	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(owner, 10))
	params.Set("count", strconv.Itoa(count))
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.AlbumID != "" {
		params.Set("album_id", q.AlbumID)
	}
	if q.AccessKey != "" {
		params.Set("access_key", q.AccessKey)
	}

	var res items[track.Track]
	if err := c.Call(ctx, s, "audio.get", params, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) Playlists(ctx context.Context, s Session, ownerID int64, count int) ([]track.Playlist, error) {
	res, err := c.playlistPage(ctx, s, ownerID, count, 0)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) playlistPage(ctx context.Context, s Session, ownerID int64, count, offset int) (*items[track.Playlist], error) {
	if ownerID == 0 {
		ownerID = s.UserID
	}
	if ownerID == 0 {
		return nil, ErrNoUserID
	}
	if count <= 0 {
		count = DefaultPlaylistCount
	}

	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("count", strconv.Itoa(count))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var res items[track.Playlist]
	if err := c.Call(ctx, s, "audio.getPlaylists", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Playlist looks up a single playlist by id, paging through the owner's
// listing until it is found or the listing ends.
func (c *Client) Playlist(ctx context.Context, s Session, ownerID int64, playlistID string) (*track.Playlist, error) {
	want := strings.TrimSpace(playlistID)

	offset := 0
	for page := 0; page < maxPlaylistPages; page++ {
		res, err := c.playlistPage(ctx, s, ownerID, DefaultPlaylistCount, offset)
		if err != nil {
			return nil, err
		}
		for i := range res.Items {
			if strconv.FormatInt(res.Items[i].ID, 10) == want {
				return &res.Items[i], nil
			}
		}
		offset += len(res.Items)
		if len(res.Items) == 0 || offset >= res.Count {
			break
		}
	}
	return nil, fmt.Errorf("playlist %s: %w", want, ErrPlaylistNotFound)
}

func (c *Client) Search(ctx context.Context, s Session, q SearchQuery) (*SearchResult, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return &SearchResult{}, nil
	}
	count := q.Count
	if count <= 0 {
		count = DefaultSearchCount
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("auto_complete", "1")
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Popular {
		params.Set("sort", "2")
	}

	var res items[track.Track]
	if err := c.Call(ctx, s, "audio.search", params, &res); err != nil {
		return nil, err
	}
	return &SearchResult{Total: res.Count, Tracks: res.Items}, nil
}

func (c *Client) Recommendations(ctx context.Context, s Session, count int) ([]track.Track, error) {
	if count <= 0 {
		count = DefaultSearchCount
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("shuffle", "1")

	var res items[track.Track]
	if err := c.Call(ctx, s, "audio.getRecommendations", params, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Discover returns recommendations, or when the catalog refuses them for the
// account, the popular results of a random seed query. The query used is
// returned so callers can tell the user; it is empty when recommendations
// were served.
func (c *Client) Discover(ctx context.Context, s Session, count int) ([]track.Track, string, error) {
	tracks, err := c.Recommendations(ctx, s, count)
	if err == nil {
		return tracks, "", nil
	}
	if !IsAPIError(err) {
		return nil, "", err
	}

	query := config.PopularQueries[rand.Intn(len(config.PopularQueries))]
	slog.Warn("recommendations unavailable, falling back to popular search", "error", err, "query", query)

	res, err := c.Search(ctx, s, SearchQuery{Query: query, Count: count, Popular: true})
	if err != nil {
		return nil, query, err
	}
	return res.Tracks, query, nil
}
