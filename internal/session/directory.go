package session

import (
	"sync"
	"time"

	"rps_arena/internal/logger"

	"github.com/google/uuid"
)

// Directory is the single source of truth for live sessions. The matchmaking
// scan-and-bind holds the directory lock for its full duration so two
// concurrent quick-match requests can neither double-book a waiting slot nor
// create redundant sessions.
type Directory struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	turnTimeout time.Duration
	expire      ExpireFunc
}

func NewDirectory(turnTimeout time.Duration) *Directory {
	return &Directory{
		sessions:    make(map[string]*Session),
		turnTimeout: turnTimeout,
	}
}

// SetExpireFunc installs the turn-timer callback. Must be called before any
// session is activated.
func (d *Directory) SetExpireFunc(f ExpireFunc) {
	d.expire = f
}

func (d *Directory) Get(id string) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// QuickMatch pairs accountID with any open waiting session not created by
// itself, or creates a new waiting session. joined reports whether an
// existing session was joined (and is now active).
func (d *Directory) QuickMatch(accountID int64) (s *Session, joined bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, cand := range d.sessions {
		if !cand.CanJoin(accountID) {
			continue
		}
		if err := cand.Join(accountID, d.turnTimeout, d.expire); err != nil {
			// lost a race we cannot see from here, keep scanning
			continue
		}
		logger.Debug("quick match paired", "session", cand.ID, "account", accountID)
		return cand, true
	}

	s = New(uuid.NewString(), accountID)
	d.sessions[s.ID] = s
	logger.Debug("quick match waiting", "session", s.ID, "account", accountID)
	return s, false
}

// Join binds accountID to an existing waiting session (direct-link join).
func (d *Directory) Join(s *Session, accountID int64) error {
	return s.Join(accountID, d.turnTimeout, d.expire)
}

// Rematch creates a new active session pre-bound to the participants of a
// completed one, linked through RematchOf.
func (d *Directory) Rematch(prevID string, requester int64) (*Session, error) {
	prev, err := d.Get(prevID)
	if err != nil {
		return nil, err
	}
	if !prev.HasParticipant(requester) {
		return nil, ErrUnknownParticipant
	}

	old := prev.Snapshot()
	if old.Status != StatusCompleted {
		return nil, ErrNotActive
	}

	next := New(uuid.NewString(), old.SlotA)
	next.slotB = old.SlotB
	next.rematchOf = old.ID
	next.activate(d.turnTimeout, d.expire)

	d.mu.Lock()
	d.sessions[next.ID] = next
	d.mu.Unlock()

	logger.Debug("rematch created", "session", next.ID, "of", old.ID)
	return next, nil
}

// FindOpenByAccount returns every non-terminal session accountID occupies.
func (d *Directory) FindOpenByAccount(accountID int64) []*Session {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var res []*Session
	for _, s := range d.sessions {
		st := s.Status()
		if st != StatusWaiting && st != StatusActive {
			continue
		}
		if s.HasParticipant(accountID) {
			res = append(res, s)
		}
	}
	return res
}

func (d *Directory) Remove(id string) {
	d.mu.Lock()
	delete(d.sessions, id)
	d.mu.Unlock()
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// StartCleanup periodically drops terminal sessions that are past the rematch
// window, so completed entries stay resolvable for a while but do not leak.
func (d *Directory) StartCleanup(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			d.cleanupStale(maxAge)
		}
	}()
}

func (d *Directory) cleanupStale(maxAge time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, s := range d.sessions {
		snap := s.Snapshot()
		if snap.Status != StatusCompleted && snap.Status != StatusCancelled {
			continue
		}
		ref := snap.CompletedAt
		if ref.IsZero() {
			ref = snap.CreatedAt
		}
		if now.Sub(ref) > maxAge {
			delete(d.sessions, id)
			logger.Debug("cleaned up stale session", "session", id)
		}
	}
}
