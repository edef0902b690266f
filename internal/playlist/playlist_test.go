package playlist

import (
	"testing"
)

func sampleTracks() []Track {
	return []Track{
		{Title: "A", Artist: "X", Source: "music/a.mp3", Duration: 10},
		{Title: "B", Artist: "Y", Source: "music/b.mp3", Duration: 20},
	}
}

func TestLoadReplacesContents(t *testing.T) {
	pl := NewPlaylist()
	if err := pl.Load(sampleTracks()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if pl.Length() != 2 {
		t.Fatalf("Length() = %d, want 2", pl.Length())
	}

	if err := pl.Load([]Track{{Title: "C", Source: "c.mp3"}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tracks := pl.GetAll()
	if len(tracks) != 1 || tracks[0].Title != "C" {
		t.Errorf("GetAll() = %+v, want only C", tracks)
	}
}

func TestLoadRejectsInvalidTrack(t *testing.T) {
	pl := NewPlaylist()
	pl.Load(sampleTracks())
	version := pl.GetVersion()

	err := pl.Load([]Track{{Title: "no source"}})
	if err == nil {
		t.Fatal("Load() should fail for a track without source")
	}
	if pl.Length() != 2 {
		t.Errorf("failed Load changed the playlist: Length() = %d", pl.Length())
	}
	if pl.GetVersion() != version {
		t.Errorf("failed Load bumped the version")
	}
}

func TestGetBounds(t *testing.T) {
	pl := NewPlaylist()
	pl.Load(sampleTracks())

	tests := []struct {
		index   int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{2, true},
	}
	for _, tt := range tests {
		_, err := pl.Get(tt.index)
		if (err != nil) != tt.wantErr {
			t.Errorf("Get(%d) error = %v, wantErr %v", tt.index, err, tt.wantErr)
		}
		if pl.Contains(tt.index) == tt.wantErr {
			t.Errorf("Contains(%d) = %v", tt.index, !tt.wantErr)
		}
	}
}

func TestGetAllReturnsCopy(t *testing.T) {
	pl := NewPlaylist()
	pl.Load(sampleTracks())

	tracks := pl.GetAll()
	tracks[0].Title = "mutated"

	got, _ := pl.Get(0)
	if got.Title != "A" {
		t.Errorf("playlist was modified through GetAll copy: %q", got.Title)
	}
}

func TestClearAndChanges(t *testing.T) {
	pl := NewPlaylist()
	pl.Load(sampleTracks())
	loaded := pl.GetVersion()

	changes := pl.GetChangesSince(0)
	if len(changes) != 2 || changes[1].Track.Title != "B" {
		t.Fatalf("GetChangesSince(0) = %+v, want two load events", changes)
	}
	if got := pl.GetChangesSince(loaded); got != nil {
		t.Errorf("GetChangesSince(current) = %+v, want nil", got)
	}

	pl.Clear()
	if pl.Length() != 0 {
		t.Errorf("Length() after Clear = %d", pl.Length())
	}
	changes = pl.GetChangesSince(loaded)
	if len(changes) != 1 || changes[0].Operation != "clear" {
		t.Errorf("GetChangesSince after Clear = %+v", changes)
	}
}
