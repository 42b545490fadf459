package track

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// GroupID is the playlist or album a track was tagged with. The catalog sends
// it as a number for some accounts and as a string for others, and omits it
// for most tracks, so decoding never fails: anything that is not a scalar
// becomes the empty id.
type GroupID string

func (g *GroupID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*g = ""
			return nil
		}
		*g = GroupID(strings.TrimSpace(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*g = ""
			return nil
		}
		*g = GroupID(n.String())
	default:
		*g = ""
	}
	return nil
}

func (g GroupID) IsZero() bool {
	return g == ""
}

func (g GroupID) String() string {
	return string(g)
}

// Matches compares the id with a playlist id after coercing both sides:
// numeric ids compare by value ("42" == "042" == 42.0), anything else by
// exact string. An empty id never matches.
func (g GroupID) Matches(id string) bool {
	left := strings.TrimSpace(string(g))
	right := strings.TrimSpace(id)
	if left == "" || right == "" {
		return false
	}
	if left == right {
		return true
	}

	ln, lok := asInteger(left)
	rn, rok := asInteger(right)
	return lok && rok && ln == rn
}

func asInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
