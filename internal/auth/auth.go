package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/track"
)

// AuthorizeURL opens the implicit grant flow of the Kate Mobile app. After
// login the browser lands on blank.html with the token in the fragment.
const AuthorizeURL = "https://oauth.vk.com/authorize?client_id=2685278&scope=1073737727&redirect_uri=https://oauth.vk.com/blank.html&display=page&response_type=token&revoke=1"

var ErrEmptyToken = errors.New("token is empty")

// ParseToken builds a session from a raw token. Tokens of the form
// "<user id>.<secret>" carry a provisional user id; Validate replaces it
// with the one the catalog reports.
func ParseToken(token string) catalog.Session {
	token = strings.TrimSpace(token)
	s := catalog.Session{Token: token}

	prefix, _, found := strings.Cut(token, ".")
	if !found {
		return s
	}
	if id, err := strconv.ParseInt(prefix, 10, 64); err == nil && id > 0 {
		s.UserID = id
	}
	return s
}

// ExtractToken accepts either a bare token or the whole redirect url copied
// from the browser address bar and returns the access token.
func ExtractToken(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyToken
	}
	if !strings.Contains(input, "access_token=") {
		return input, nil
	}

	raw := input
	if _, fragment, ok := strings.Cut(input, "#"); ok {
		raw = fragment
	} else if _, query, ok := strings.Cut(input, "?"); ok {
		raw = query
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect url: %w", err)
	}
	token := strings.TrimSpace(values.Get("access_token"))
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyToken)
	}
	return token, nil
}

// SaveToken writes the token readable by the current user only.
func SaveToken(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// Validate asks the catalog who owns the token. The returned session carries
// the authoritative user id.
func Validate(ctx context.Context, client *catalog.Client, s catalog.Session) (catalog.Session, *track.User, error) {
	if !s.HasToken() {
		return s, nil, catalog.ErrNoToken
	}

	user, err := client.Users(ctx, s)
	if err != nil {
		return s, nil, fmt.Errorf("token check failed: %w", err)
	}

	s.UserID = user.ID
	return s, user, nil
}
