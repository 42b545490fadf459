// Package library keeps an index of downloaded tracks on disk so repeated
// downloads of the same track are skipped and the user can list what they
// already have.
package library

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"karolbroda.com/moosic/internal/track"
)

const (
	indexVersion = 1
	dataDirName  = "moosic"
	indexDirName = "library"
	entrySuffix  = ".bin"
)

var (
	ErrMiss    = errors.New("not in library")
	ErrCorrupt = errors.New("library entry corrupt")
)

type Entry struct {
	Version      uint8
	TrackID      int64
	OwnerID      int64
	Artist       string
	Title        string
	Album        string
	Duration     int
	Path         string
	Size         int64
	DownloadedAt int64
}

func (e *Entry) Key() string {
	return track.Key(e.OwnerID, e.TrackID)
}

// Exists reports whether the downloaded file is still where it was saved.
func (e *Entry) Exists() bool {
	if e.Path == "" {
		return false
	}
	info, err := os.Stat(e.Path)
	return err == nil && info.Mode().IsRegular()
}

// Index is a directory of gob files, one per track, with an in-memory front.
// An Index with an empty base path keeps entries in memory only.
type Index struct {
	basePath string
	mu       sync.RWMutex
	mem      map[string]*Entry
}

// Open returns the index stored in dir, creating it if needed.
func Open(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Index{
		basePath: dir,
		mem:      make(map[string]*Entry),
	}, nil
}

// OpenDefault opens the index under the user's data directory. If that fails
// the returned index is memory-only and the error is reported alongside.
func OpenDefault() (*Index, error) {
	dir, err := DataDir()
	if err == nil {
		var idx *Index
		idx, err = Open(filepath.Join(dir, indexDirName))
		if err == nil {
			return idx, nil
		}
	}
	return &Index{mem: make(map[string]*Entry)}, err
}

func DataDir() (string, error) {
	// xdg data home takes priority
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func (x *Index) Path() string {
	return x.basePath
}

func fileKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:12])
}

func (x *Index) filePath(key string) string {
	if x.basePath == "" {
		return ""
	}
	return filepath.Join(x.basePath, fileKey(key)+entrySuffix)
}

func (x *Index) Get(t *track.Track) (*Entry, error) {
	if t == nil || t.ID == 0 {
		return nil, ErrMiss
	}
	return x.GetKey(t.Key())
}

func (x *Index) GetKey(key string) (*Entry, error) {
	x.mu.RLock()
	entry, ok := x.mem[key]
	x.mu.RUnlock()
	if ok {
		return entry, nil
	}

	if x.basePath == "" {
		return nil, ErrMiss
	}

	entry, err := readEntry(x.filePath(key))
	if err != nil {
		return nil, err
	}

	x.mu.Lock()
	x.mem[key] = entry
	x.mu.Unlock()

	return entry, nil
}

// Put records a finished download of t at path.
func (x *Index) Put(t *track.Track, path string, size int64) (*Entry, error) {
	if t == nil || t.ID == 0 || path == "" {
		return nil, errors.New("invalid library entry")
	}

	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}

	entry := &Entry{
		Version:      indexVersion,
		TrackID:      t.ID,
		OwnerID:      t.OwnerID,
		Artist:       t.Artist,
		Title:        t.Title,
		Album:        t.AlbumTitle(),
		Duration:     t.Duration,
		Path:         path,
		Size:         size,
		DownloadedAt: time.Now().Unix(),
	}

	key := entry.Key()
	x.mu.Lock()
	x.mem[key] = entry
	x.mu.Unlock()

	if x.basePath == "" {
		return entry, nil
	}
	return entry, writeEntry(x.filePath(key), entry)
}

func readEntry(path string) (*Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	defer file.Close()

	var entry Entry
	if err := gob.NewDecoder(file).Decode(&entry); err != nil {
		return nil, ErrCorrupt
	}

	// older format
	if entry.Version != indexVersion {
		_ = os.Remove(path)
		return nil, ErrCorrupt
	}

	return &entry, nil
}

func writeEntry(path string, entry *Entry) error {
	// temp file then rename so a crash never leaves half an entry
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(entry); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

func (x *Index) entryFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(x.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, d := range dirEntries {
		if d.IsDir() || !strings.HasSuffix(d.Name(), entrySuffix) {
			continue
		}
		paths = append(paths, filepath.Join(x.basePath, d.Name()))
	}
	return paths, nil
}

// ListAll returns every readable entry, newest download first.
func (x *Index) ListAll() ([]*Entry, error) {
	var result []*Entry

	if x.basePath == "" {
		x.mu.RLock()
		for _, e := range x.mem {
			result = append(result, e)
		}
		x.mu.RUnlock()
	} else {
		paths, err := x.entryFiles()
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			entry, err := readEntry(p)
			if err != nil {
				continue
			}
			result = append(result, entry)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DownloadedAt != result[j].DownloadedAt {
			return result[i].DownloadedAt > result[j].DownloadedAt
		}
		return result[i].Key() < result[j].Key()
	})
	return result, nil
}

type Stats struct {
	Entries    int
	Missing    int
	MediaBytes int64
	IndexBytes int64
}

func (x *Index) Stats() (Stats, error) {
	var st Stats

	entries, err := x.ListAll()
	if err != nil {
		return st, err
	}
	for _, e := range entries {
		st.Entries++
		if e.Exists() {
			st.MediaBytes += e.Size
		} else {
			st.Missing++
		}
	}

	if x.basePath == "" {
		return st, nil
	}
	paths, err := x.entryFiles()
	if err != nil {
		return st, err
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			st.IndexBytes += info.Size()
		}
	}
	return st, nil
}

// Prune drops entries that cannot be read or whose file is gone.
func (x *Index) Prune() (int, error) {
	pruned := 0

	x.mu.Lock()
	for key, e := range x.mem {
		if !e.Exists() {
			delete(x.mem, key)
			if x.basePath == "" {
				pruned++
			}
		}
	}
	x.mu.Unlock()

	if x.basePath == "" {
		return pruned, nil
	}

	paths, err := x.entryFiles()
	if err != nil {
		return 0, err
	}
	for _, p := range paths {
		entry, err := readEntry(p)
		if err != nil || !entry.Exists() {
			_ = os.Remove(p)
			pruned++
		}
	}
	return pruned, nil
}

func (x *Index) Delete(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("invalid library key")
	}

	x.mu.Lock()
	delete(x.mem, key)
	x.mu.Unlock()

	if x.basePath == "" {
		return nil
	}

	if err := os.Remove(x.filePath(key)); err != nil {
		if os.IsNotExist(err) {
			return ErrMiss
		}
		return err
	}
	return nil
}

// Clear forgets every entry. Downloaded files are left in place.
func (x *Index) Clear() error {
	x.mu.Lock()
	x.mem = make(map[string]*Entry)
	x.mu.Unlock()

	if x.basePath == "" {
		return nil
	}

	paths, err := x.entryFiles()
	if err != nil {
		return err
	}
	for _, p := range paths {
		_ = os.Remove(p)
	}
	return nil
}
