package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"karolbroda.com/moosic/internal/catalog"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantUserID int64
	}{
		{name: "numeric prefix", token: "12345.abcdef", wantUserID: 12345},
		{name: "surrounding space", token: "  77.x \n", wantUserID: 77},
		{name: "no dot", token: "vk1.a.abcdef", wantUserID: 0},
		{name: "plain", token: "abcdef", wantUserID: 0},
		{name: "negative prefix", token: "-5.abc", wantUserID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseToken(tt.token)
			if s.UserID != tt.wantUserID {
				t.Errorf("UserID = %d, want %d", s.UserID, tt.wantUserID)
			}
			if !s.HasToken() {
				t.Error("expected session to carry the token")
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare token", input: " abc123 ", want: "abc123"},
		{
			name:  "redirect url",
			input: "https://oauth.vk.com/blank.html#access_token=vk1.a.xyz&expires_in=0&user_id=42",
			want:  "vk1.a.xyz",
		},
		{name: "fragment only", input: "access_token=tok&expires_in=86400", want: "tok"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "empty token in url", input: "https://x/#access_token=&expires_in=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vk_token.txt")

	if err := SaveToken(path, " 100.secret\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "100.secret" {
		t.Errorf("got %q", got)
	}
}

func TestLoadToken_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadToken(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(empty); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken, got %v", err)
	}

	if err := SaveToken(filepath.Join(dir, "x"), ""); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken on save, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") == "bad" {
			w.Write([]byte(`{"error":{"error_code":5,"error_msg":"User authorization failed: invalid access_token"}}`))
			return
		}
		w.Write([]byte(`{"response":[{"id":555,"first_name":"Anna","last_name":"K"}]}`))
	}))
	defer srv.Close()

	client, err := catalog.New(catalog.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	s, user, err := Validate(context.Background(), client, ParseToken("1.good"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UserID != 555 {
		t.Errorf("UserID = %d, want the id reported by the catalog", s.UserID)
	}
	if user.FullName() != "Anna K" {
		t.Errorf("unexpected user %+v", user)
	}

	_, _, err = Validate(context.Background(), client, ParseToken("bad"))
	var apiErr *catalog.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != catalog.CodeAuthFailed {
		t.Errorf("expected auth api error, got %v", err)
	}

	if _, _, err := Validate(context.Background(), client, catalog.Session{}); !errors.Is(err, catalog.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestCheckMethods(t *testing.T) {
	var searched string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("count") != "1" {
			t.Errorf("%s called with count %q", r.URL.Path, r.URL.Query().Get("count"))
		}
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "audio.get":
			w.Write([]byte(`{"error":{"error_code":15,"error_msg":"Access denied"}}`))
		case "audio.getRecommendations":
			w.Write([]byte(`{"error":{"error_code":6,"error_msg":"Too many requests per second"}}`))
		case "audio.search":
			searched = r.URL.Query().Get("q")
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"response":{"count":0,"items":[]}}`))
		}
	}))
	defer srv.Close()

	client, err := catalog.New(catalog.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	statuses, err := CheckMethods(context.Background(), client, catalog.Session{Token: "tok", UserID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != len(Methods) {
		t.Fatalf("got %d statuses, want %d", len(statuses), len(Methods))
	}

	want := map[string]struct {
		available bool
		reason    string
		hint      string
	}{
		"friends.get":              {available: true},
		"audio.get":                {reason: "no access", hint: `my music needs the "audio" permission`},
		"audio.getPlaylists":       {available: true},
		"audio.getRecommendations": {reason: "error 6", hint: "too many requests"},
		"audio.search":             {reason: "request failed"},
	}
	for _, st := range statuses {
		w, ok := want[st.Name]
		if !ok {
			t.Errorf("unexpected method %s", st.Name)
			continue
		}
		if st.Available() != w.available {
			t.Errorf("%s available = %v, want %v (err %v)", st.Name, st.Available(), w.available, st.Err)
		}
		if st.Reason() != w.reason {
			t.Errorf("%s reason = %q, want %q", st.Name, st.Reason(), w.reason)
		}
		if !strings.HasPrefix(st.Hint(), w.hint) {
			t.Errorf("%s hint = %q, want prefix %q", st.Name, st.Hint(), w.hint)
		}
	}
	if searched == "" {
		t.Error("audio.search checked without a query")
	}

	if _, err := CheckMethods(context.Background(), client, catalog.Session{}); !errors.Is(err, catalog.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}
