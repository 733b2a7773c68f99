package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"rps_arena/internal/game"
)

func TestQuickMatchCreatesThenPairs(t *testing.T) {
	d := NewDirectory(time.Hour)

	s1, joined := d.QuickMatch(1)
	if joined {
		t.Fatal("first quick match should create, not join")
	}
	if s1.Status() != StatusWaiting {
		t.Fatalf("status = %s, want waiting", s1.Status())
	}

	s2, joined := d.QuickMatch(2)
	if !joined {
		t.Fatal("second quick match should pair with the waiting session")
	}
	if s2.ID != s1.ID {
		t.Fatalf("paired into %s, want %s", s2.ID, s1.ID)
	}
	if s2.Status() != StatusActive {
		t.Fatalf("status = %s, want active", s2.Status())
	}
}

func TestQuickMatchNeverSelfPairs(t *testing.T) {
	d := NewDirectory(time.Hour)

	s1, _ := d.QuickMatch(1)
	s2, joined := d.QuickMatch(1)
	if joined {
		t.Fatal("quick match paired an account with itself")
	}
	if s2.ID == s1.ID {
		t.Fatal("quick match returned the requester's own waiting session")
	}
}

func TestQuickMatchConcurrentStorm(t *testing.T) {
	d := NewDirectory(time.Hour)
	const players = 40

	var wg sync.WaitGroup
	results := make([]*Session, players)

	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = d.QuickMatch(int64(i + 1))
		}(i)
	}
	wg.Wait()

	// every account landed in exactly one slot
	slots := make(map[int64]string)
	for _, s := range results {
		snap := s.Snapshot()
		for _, acc := range []int64{snap.SlotA, snap.SlotB} {
			if acc == 0 {
				continue
			}
			if prev, ok := slots[acc]; ok && prev != snap.ID {
				t.Fatalf("account %d bound to sessions %s and %s", acc, prev, snap.ID)
			}
			slots[acc] = snap.ID
		}
	}
	if len(slots) != players {
		t.Fatalf("%d accounts bound, want %d", len(slots), players)
	}

	// an even number of players pairs off completely
	active, waiting := 0, 0
	seen := make(map[string]bool)
	for _, s := range results {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		switch s.Status() {
		case StatusActive:
			active++
		case StatusWaiting:
			waiting++
		}
	}
	if waiting != 0 || active != players/2 {
		t.Fatalf("sessions: %d active, %d waiting; want %d active, 0 waiting", active, waiting, players/2)
	}
}

func TestRematch(t *testing.T) {
	d := NewDirectory(time.Hour)

	prev, _ := d.QuickMatch(1)
	d.QuickMatch(2)
	prev.SubmitMove(1, game.MoveRock)
	prev.SubmitMove(2, game.MoveScissors)

	next, err := d.Rematch(prev.ID, 2)
	if err != nil {
		t.Fatalf("Rematch: %v", err)
	}

	snap := next.Snapshot()
	if snap.Status != StatusActive {
		t.Fatalf("status = %s, want active", snap.Status)
	}
	if snap.RematchOf != prev.ID {
		t.Fatalf("rematchOf = %s, want %s", snap.RematchOf, prev.ID)
	}
	if snap.SlotA != 1 || snap.SlotB != 2 {
		t.Fatalf("slots = (%d, %d), want (1, 2)", snap.SlotA, snap.SlotB)
	}

	if _, err := d.Get(next.ID); err != nil {
		t.Fatalf("rematch session not in directory: %v", err)
	}
}

func TestRematchGuards(t *testing.T) {
	d := NewDirectory(time.Hour)

	if _, err := d.Rematch("missing", 1); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	open, _ := d.QuickMatch(1)
	d.QuickMatch(2)

	if _, err := d.Rematch(open.ID, 1); !errors.Is(err, ErrNotActive) {
		t.Fatalf("rematch of running session err = %v, want ErrNotActive", err)
	}

	open.SubmitMove(1, game.MoveRock)
	open.SubmitMove(2, game.MovePaper)

	if _, err := d.Rematch(open.ID, 99); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("stranger rematch err = %v, want ErrUnknownParticipant", err)
	}
}

func TestFindOpenByAccount(t *testing.T) {
	d := NewDirectory(time.Hour)

	s, _ := d.QuickMatch(1)
	d.QuickMatch(2)

	if got := d.FindOpenByAccount(1); len(got) != 1 || got[0].ID != s.ID {
		t.Fatalf("FindOpenByAccount(1) = %v, want [%s]", got, s.ID)
	}
	if got := d.FindOpenByAccount(99); got != nil {
		t.Fatalf("FindOpenByAccount(99) = %v, want nil", got)
	}

	s.SubmitMove(1, game.MoveRock)
	s.SubmitMove(2, game.MoveRock)
	if got := d.FindOpenByAccount(1); got != nil {
		t.Fatalf("completed session still reported open: %v", got)
	}
}

func TestCleanupDropsOnlyStaleTerminal(t *testing.T) {
	d := NewDirectory(time.Hour)

	open, _ := d.QuickMatch(1)
	d.QuickMatch(2)

	done, _ := d.QuickMatch(3)
	d.QuickMatch(4)
	done.SubmitMove(3, game.MoveRock)
	done.SubmitMove(4, game.MovePaper)

	d.cleanupStale(0)

	if _, err := d.Get(open.ID); err != nil {
		t.Fatal("cleanup removed a live session")
	}
	if _, err := d.Get(done.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("cleanup kept a stale terminal session")
	}
}
