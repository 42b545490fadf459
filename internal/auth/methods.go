package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/config"
)

// Method is a catalog method the client depends on, with the token scope
// it needs.
type Method struct {
	Name    string
	Feature string
	Scope   string
}

// Methods are checked in menu order.
var Methods = []Method{
	{Name: "friends.get", Feature: "friends' music", Scope: "friends"},
	{Name: "audio.get", Feature: "my music", Scope: "audio"},
	{Name: "audio.getPlaylists", Feature: "playlists", Scope: "audio"},
	{Name: "audio.getRecommendations", Feature: "recommendations", Scope: "audio"},
	{Name: "audio.search", Feature: "search", Scope: "audio"},
}

// MethodStatus is the outcome of one method call made with count=1.
type MethodStatus struct {
	Method
	Err error
}

func (m MethodStatus) Available() bool {
	return m.Err == nil
}

// Reason describes why the method is unavailable, or "" when it works.
func (m MethodStatus) Reason() string {
	if m.Err == nil {
		return ""
	}
	var apiErr *catalog.APIError
	if !errors.As(m.Err, &apiErr) {
		return "request failed"
	}
	if apiErr.Code == catalog.CodePermissionDenied {
		return "no access"
	}
	return fmt.Sprintf("error %d", apiErr.Code)
}

// Hint suggests how to regain access to the method.
func (m MethodStatus) Hint() string {
	if m.Err == nil {
		return ""
	}
	var apiErr *catalog.APIError
	if errors.As(m.Err, &apiErr) && apiErr.Code == catalog.CodePermissionDenied {
		return fmt.Sprintf("%s needs the %q permission, request a new token", m.Feature, m.Scope)
	}
	return catalog.Hint(m.Err)
}

// CheckMethods calls every entry of Methods once with count=1. A method that
// fails is reported in its status; only cancellation aborts the check.
func CheckMethods(ctx context.Context, client *catalog.Client, s catalog.Session) ([]MethodStatus, error) {
	if !s.HasToken() {
		return nil, catalog.ErrNoToken
	}

	statuses := make([]MethodStatus, 0, len(Methods))
	for _, m := range Methods {
		params := url.Values{}
		params.Set("count", "1")
		switch m.Name {
		case "audio.get":
			if s.UserID != 0 {
				params.Set("owner_id", strconv.FormatInt(s.UserID, 10))
			}
		case "audio.search":
			params.Set("q", config.PopularQueries[0])
		}

		err := client.Call(ctx, s, m.Name, params, nil)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return statuses, ctxErr
		}
		statuses = append(statuses, MethodStatus{Method: m, Err: err})
	}
	return statuses, nil
}
