package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"karolbroda.com/moosic/internal/track"
)

func newIndex(t *testing.T) (*Index, string) {
	t.Helper()
	root := t.TempDir()
	idx, err := Open(filepath.Join(root, "index"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return idx, root
}

func writeMedia(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIndex_PutGet(t *testing.T) {
	idx, root := newIndex(t)
	trk := &track.Track{ID: 1, OwnerID: 100, Artist: "Kino", Title: "Gruppa krovi", Duration: 285}
	path := writeMedia(t, root, "a.mp3", 10)

	if _, err := idx.Put(trk, path, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a fresh index over the same directory only sees the disk copy
	reopened, err := Open(idx.Path())
	if err != nil {
		t.Fatal(err)
	}
	entry, err := reopened.Get(trk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Title != "Gruppa krovi" || entry.Size != 10 || entry.Path != path {
		t.Errorf("unexpected entry %+v", entry)
	}
	if !entry.Exists() {
		t.Error("expected file to exist")
	}
	if entry.Key() != trk.Key() {
		t.Errorf("Key() = %q, want %q", entry.Key(), trk.Key())
	}
}

func TestIndex_GetMiss(t *testing.T) {
	idx, _ := newIndex(t)

	if _, err := idx.Get(&track.Track{ID: 5, OwnerID: 1}); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
	if _, err := idx.Get(nil); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss for nil track, got %v", err)
	}
	if _, err := idx.Put(&track.Track{}, "x", 0); err == nil {
		t.Error("expected error for track without id")
	}
}

func TestIndex_CorruptEntry(t *testing.T) {
	idx, _ := newIndex(t)
	key := track.Key(1, 2)

	if err := os.WriteFile(idx.filePath(key), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.GetKey(key); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestIndex_ListAllAndStats(t *testing.T) {
	idx, root := newIndex(t)

	kept := writeMedia(t, root, "kept.mp3", 100)
	gone := writeMedia(t, root, "gone.mp3", 50)

	if _, err := idx.Put(&track.Track{ID: 1, OwnerID: 1, Artist: "A", Title: "kept"}, kept, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Put(&track.Track{ID: 2, OwnerID: 1, Artist: "B", Title: "gone"}, gone, 50); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	entries, err := idx.ListAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	st, err := idx.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Entries != 2 || st.Missing != 1 || st.MediaBytes != 100 {
		t.Errorf("unexpected stats %+v", st)
	}
	if st.IndexBytes <= 0 {
		t.Error("expected index files to take space")
	}
}

func TestIndex_Prune(t *testing.T) {
	idx, root := newIndex(t)

	kept := writeMedia(t, root, "kept.mp3", 1)
	gone := writeMedia(t, root, "gone.mp3", 1)
	keptTrack := &track.Track{ID: 1, OwnerID: 1, Artist: "A", Title: "kept"}
	goneTrack := &track.Track{ID: 2, OwnerID: 1, Artist: "B", Title: "gone"}

	if _, err := idx.Put(keptTrack, kept, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Put(goneTrack, gone, 1); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(idx.Path(), "broken"+entrySuffix), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	pruned, err := idx.Prune()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}
	if _, err := idx.Get(goneTrack); !errors.Is(err, ErrMiss) {
		t.Errorf("expected pruned entry to be gone, got %v", err)
	}
	if _, err := idx.Get(keptTrack); err != nil {
		t.Errorf("expected kept entry, got %v", err)
	}
}

func TestIndex_DeleteAndClear(t *testing.T) {
	idx, root := newIndex(t)
	path := writeMedia(t, root, "a.mp3", 1)
	trk := &track.Track{ID: 1, OwnerID: 1, Artist: "A", Title: "T"}

	if _, err := idx.Put(trk, path, 1); err != nil {
		t.Fatal(err)
	}
	if err := idx.Delete(trk.Key()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Delete(trk.Key()); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss on second delete, got %v", err)
	}
	if err := idx.Delete(" "); err == nil {
		t.Error("expected error for empty key")
	}

	if _, err := idx.Put(trk, path, 1); err != nil {
		t.Fatal(err)
	}
	if err := idx.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := idx.ListAll()
	if len(entries) != 0 {
		t.Errorf("expected empty index, got %d entries", len(entries))
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("clear must not remove downloaded files")
	}
}

func TestOpenDefault_UsesXDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	idx, err := OpenDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "moosic", "library")
	if idx.Path() != want {
		t.Errorf("Path() = %q, want %q", idx.Path(), want)
	}
}
