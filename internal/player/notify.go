package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/moosic/internal/track"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = notifyService + ".Notify"

	appName       = "moosic"
	appIcon       = "audio-x-generic"
	expireTimeout = int32(5000)
)

// Notifier posts "now playing" desktop notifications. Each new notification
// replaces the previous one.
type Notifier struct {
	bus    *dbus.Conn
	mu     sync.Mutex
	lastID uint32
}

func NewNotifier(bus *dbus.Conn) (*Notifier, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	return &Notifier{bus: bus}, nil
}

// ConnectNotifier opens the session bus. Callers treat an error as
// "notifications unavailable".
func ConnectNotifier() (*Notifier, error) {
	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewNotifier(bus)
}

func (n *Notifier) NowPlaying(t track.Track) error {
	body := t.Artist
	if album := t.AlbumTitle(); album != "" {
		body += " · " + album
	}
	if t.Duration > 0 {
		body += " (" + track.FormatDuration(t.Duration) + ")"
	}
	summary := t.Title
	if summary == "" {
		summary = "Unknown Title"
	}
	return n.Send(summary, body)
}

func (n *Notifier) Send(summary, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	obj := n.bus.Object(notifyService, notifyPath)
	call := obj.Call(notifyMethod, 0,
		appName,
		n.lastID,
		appIcon,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"category": dbus.MakeVariant("x-gnome.music"),
		},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("notify failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("failed to read notification id: %w", err)
	}
	n.lastID = id
	return nil
}

func (n *Notifier) Close() error {
	return n.bus.Close()
}
