package scores

import (
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestBoard_AddRanksByWave(t *testing.T) {
	b := NewBoard(nil)

	tests := []struct {
		name     string
		player   string
		wave     int
		wantRank int
	}{
		{"首条记录", "alice", 10, 1},
		{"更高波次排在前面", "bob", 20, 1},
		{"最低波次排在最后", "carol", 5, 3},
		{"同波次排在先记录者之后", "dave", 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := b.Add(Entry{MatchID: uuid.New(), PlayerName: tt.player, MapName: "meadow", WaveReached: tt.wave})
			if rank != tt.wantRank {
				t.Errorf("Add() rank = %d, want %d", rank, tt.wantRank)
			}
		})
	}

	want := []string{"bob", "alice", "dave", "carol"}
	top := b.Top(0)
	if len(top) != len(want) {
		t.Fatalf("Top(0) returned %d entries, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Errorf("Top(0)[%d] = %s, want %s", i, top[i].PlayerName, name)
		}
	}
}

func TestBoard_CapacityAndHighScore(t *testing.T) {
	b := NewBoard(nil)
	for i := 0; i < MaxEntries; i++ {
		b.Add(Entry{PlayerName: "p", WaveReached: 10})
	}

	if b.Len() != MaxEntries {
		t.Fatalf("Len() = %d, want %d", b.Len(), MaxEntries)
	}
	if b.IsHighScore(10) {
		t.Error("IsHighScore(10) should be false on a full board of 10s")
	}
	if !b.IsHighScore(11) {
		t.Error("IsHighScore(11) should be true")
	}
	if rank := b.Add(Entry{PlayerName: "late", WaveReached: 10}); rank != 0 {
		t.Errorf("Add() of a tying score on a full board = %d, want 0", rank)
	}
	if rank := b.Add(Entry{PlayerName: "best", WaveReached: 50}); rank != 1 {
		t.Errorf("Add() rank = %d, want 1", rank)
	}
	if b.Len() != MaxEntries {
		t.Errorf("Len() = %d after overflow, want %d", b.Len(), MaxEntries)
	}
	if got := len(b.Top(3)); got != 3 {
		t.Errorf("len(Top(3)) = %d, want 3", got)
	}
}

func TestBoard_TopReturnsCopy(t *testing.T) {
	b := NewBoard(nil)
	b.Add(Entry{PlayerName: "alice", WaveReached: 3})

	top := b.Top(1)
	top[0].PlayerName = "mallory"
	if b.Top(1)[0].PlayerName != "alice" {
		t.Error("modifying Top() result changed the board")
	}
}

func TestBoard_SaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	manager, err := OpenStorage("test_tdsim_scores")
	if err != nil {
		t.Fatalf("OpenStorage() error: %v", err)
	}

	b := NewBoard(manager)
	if b.Len() != 0 {
		t.Fatalf("new board should be empty, got %d entries", b.Len())
	}
	id := uuid.New()
	b.Add(Entry{MatchID: id, PlayerName: "alice", MapName: "canyon", WaveReached: 42})
	b.Add(Entry{PlayerName: "bob", MapName: "meadow", WaveReached: 7})
	if err := b.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewBoard(manager)
	top := reloaded.Top(0)
	if len(top) != 2 {
		t.Fatalf("reloaded board has %d entries, want 2", len(top))
	}
	if top[0].MatchID != id || top[0].MapName != "canyon" || top[0].WaveReached != 42 {
		t.Errorf("reloaded first entry = %+v", top[0])
	}
}

func TestBoard_NilManagerSaveIsNoop(t *testing.T) {
	b := NewBoard(nil)
	b.Add(Entry{PlayerName: "alice", WaveReached: 1})
	if err := b.Save(); err != nil {
		t.Errorf("Save() in degraded mode error = %v", err)
	}
	if err := b.Load(); err != nil {
		t.Errorf("Load() in degraded mode error = %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("Load() in degraded mode should reset to empty, got %d", b.Len())
	}
}
