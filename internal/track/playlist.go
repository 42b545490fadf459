package track

// Playlist is a read-only snapshot of a playlist as listed by the catalog.
type Playlist struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Followers   int     `json:"followers"`
	Plays       int     `json:"plays"`
	AccessKey   string  `json:"access_key"`
	Photo       *Thumb  `json:"photo,omitempty"`
	Thumbs      []Thumb `json:"thumbs,omitempty"`
}

// CoverURL picks the playlist photo, falling back to the first track thumb.
func (p *Playlist) CoverURL() string {
	if u := p.Photo.Largest(); u != "" {
		return u
	}
	for i := range p.Thumbs {
		if u := p.Thumbs[i].Largest(); u != "" {
			return u
		}
	}
	return ""
}

func (p *Playlist) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}

// User is a catalog account, used both for the session owner and friends.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo     string `json:"photo_100"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
