package player

import (
	"encoding/json"
	"testing"
)

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RepeatMode
		wantErr bool
	}{
		{"off", RepeatOff, false},
		{"", RepeatOff, false},
		{"ALL", RepeatAll, false},
		{" one ", RepeatOne, false},
		{"shuffle", RepeatOff, true},
	}

	for _, tt := range tests {
		got, err := ParseRepeatMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepeatMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRepeatMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRepeatModeNext(t *testing.T) {
	mode := RepeatOff
	var seen []string
	for i := 0; i < 4; i++ {
		mode = mode.Next()
		seen = append(seen, mode.String())
	}
	want := []string{"all", "one", "off", "all"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestStateJSON(t *testing.T) {
	s := State{
		CurrentIndex: 2,
		Volume:       0.5,
		Repeat:       RepeatOne,
		Drag:         DragVolume,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if fields["repeat"] != "one" || fields["drag"] != "volume" {
		t.Errorf("unexpected encoding: %s", data)
	}

	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal into State failed: %v", err)
	}
	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}

func TestDisplayVolume(t *testing.T) {
	s := State{Volume: 0.6}
	if got := s.DisplayVolume(); got != 0.6 {
		t.Errorf("DisplayVolume() = %v, want 0.6", got)
	}
	s.Muted = true
	if got := s.DisplayVolume(); got != 0 {
		t.Errorf("muted DisplayVolume() = %v, want 0", got)
	}
}
