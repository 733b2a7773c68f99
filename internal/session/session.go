package session

import (
	"sync"
	"time"

	"rps_arena/internal/game"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Slot is one of the two participant positions in a session.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

// ExpireFunc is invoked from a turn timer goroutine when a slot's deadline
// passes. The callee must go through ExpireTimer, which re-checks state under
// the session lock: a timer that lost the race against a submitted move is a
// no-op.
type ExpireFunc func(s *Session, slot Slot)

// Session is the authoritative state machine for one two-player match.
// All mutation happens under mu; once the status is terminal the session is
// immutable apart from the rating deltas written by the completion finalizer.
type Session struct {
	ID string

	// seq orders the session's outbound fan-out; see Sequenced.
	seq sync.Mutex

	mu          sync.Mutex
	slotA       int64
	slotB       int64 // 0 while waiting
	status      Status
	moveA       game.Move
	moveB       game.Move
	winner      game.Winner
	timedOut    bool
	deltaA      int
	deltaB      int
	rematchOf   string
	createdAt   time.Time
	completedAt time.Time
	deadline    time.Time
	timers      [2]*time.Timer
}

// Snapshot is a point-in-time value copy used outside the critical section.
type Snapshot struct {
	ID          string
	SlotA       int64
	SlotB       int64
	Status      Status
	MoveA       game.Move
	MoveB       game.Move
	Winner      game.Winner
	TimedOut    bool
	DeltaA      int
	DeltaB      int
	RematchOf   string
	CreatedAt   time.Time
	CompletedAt time.Time
	Deadline    time.Time
}

// WinnerAccount returns the winning account id, or nil on a tie.
func (s Snapshot) WinnerAccount() *int64 {
	switch s.Winner {
	case game.WinnerA:
		return &s.SlotA
	case game.WinnerB:
		return &s.SlotB
	default:
		return nil
	}
}

// LoserAccount returns the losing account id, or nil on a tie.
func (s Snapshot) LoserAccount() *int64 {
	switch s.Winner {
	case game.WinnerA:
		return &s.SlotB
	case game.WinnerB:
		return &s.SlotA
	default:
		return nil
	}
}

func New(id string, creator int64) *Session {
	return &Session{
		ID:        id,
		slotA:     creator,
		status:    StatusWaiting,
		createdAt: time.Now(),
	}
}

// Join binds accountID to slot B and activates the session, arming one turn
// timer per slot. Fails with ErrAlreadyActive on a non-waiting session.
func (s *Session) Join(accountID int64, turnTimeout time.Duration, expire ExpireFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return ErrAlreadyActive
	}

	s.slotB = accountID
	s.status = StatusActive
	s.armTimers(turnTimeout, expire)
	return nil
}

// activate is the rematch path: both slots pre-bound, no waiting step.
func (s *Session) activate(turnTimeout time.Duration, expire ExpireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusActive
	s.armTimers(turnTimeout, expire)
}

func (s *Session) armTimers(turnTimeout time.Duration, expire ExpireFunc) {
	s.deadline = time.Now().Add(turnTimeout)
	if expire == nil {
		return
	}
	s.timers[SlotA] = time.AfterFunc(turnTimeout, func() { expire(s, SlotA) })
	s.timers[SlotB] = time.AfterFunc(turnTimeout, func() { expire(s, SlotB) })
}

// SubmitMove records the account's move into its slot. If both slots are now
// set the session completes; completed reports whether this call performed
// the terminal transition.
func (s *Session) SubmitMove(accountID int64, m game.Move) (snap Snapshot, completed bool, err error) {
	if !game.ValidMove(m) {
		return Snapshot{}, false, ErrInvalidMove
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return s.snapshotLocked(), false, ErrNotActive
	}

	slot, ok := s.slotOf(accountID)
	if !ok {
		return s.snapshotLocked(), false, ErrUnknownParticipant
	}

	if s.moveOf(slot) != game.MoveNone {
		return s.snapshotLocked(), false, ErrAlreadyChosen
	}

	s.setMove(slot, m)
	s.stopTimer(slot)

	if s.moveA != game.MoveNone && s.moveB != game.MoveNone {
		s.completeLocked()
		completed = true
	}
	return s.snapshotLocked(), completed, nil
}

// ExpireTimer handles a fired turn timer for slot. It is a no-op when the
// slot's move was already recorded or the session is no longer active, which
// resolves the submit/expire race: whoever takes the lock first wins.
func (s *Session) ExpireTimer(slot Slot) (snap Snapshot, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive || s.moveOf(slot) != game.MoveNone {
		return s.snapshotLocked(), false
	}

	s.setMove(slot, game.MoveTimeout)

	if s.moveA != game.MoveNone && s.moveB != game.MoveNone {
		s.completeLocked()
		completed = true
	}
	return s.snapshotLocked(), completed
}

// Cancel transitions a waiting or active session to Cancelled and disarms all
// timers. It reports false on an already-terminal session.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted || s.status == StatusCancelled {
		return false
	}

	s.stopTimer(SlotA)
	s.stopTimer(SlotB)
	s.status = StatusCancelled
	return true
}

// completeLocked performs the single Completed transition. Callers hold mu
// and have verified status == StatusActive, so the transition fires exactly
// once per session regardless of submit/expire interleaving.
func (s *Session) completeLocked() {
	s.stopTimer(SlotA)
	s.stopTimer(SlotB)

	switch {
	case s.moveA == game.MoveTimeout && s.moveB == game.MoveTimeout:
		s.winner = game.WinnerTie
		s.timedOut = true
	case s.moveA == game.MoveTimeout:
		s.winner = game.WinnerB
		s.timedOut = true
	case s.moveB == game.MoveTimeout:
		s.winner = game.WinnerA
		s.timedOut = true
	default:
		s.winner = game.Resolve(s.moveA, s.moveB)
	}

	s.status = StatusCompleted
	s.completedAt = time.Now()
}

// Sequenced runs fn under the session's fan-out lock. A transition and the
// events it broadcasts must run inside one Sequenced call, so that the order
// events are enqueued for delivery matches the transition order. The lock is
// independent of the state mutex and may be held across the completion
// finalizer's rating reads.
func (s *Session) Sequenced(fn func()) {
	s.seq.Lock()
	defer s.seq.Unlock()
	fn()
}

// SetDeltas stores the rating deltas computed by the completion finalizer.
func (s *Session) SetDeltas(deltaA, deltaB int) {
	s.mu.Lock()
	s.deltaA = deltaA
	s.deltaB = deltaB
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.ID,
		SlotA:       s.slotA,
		SlotB:       s.slotB,
		Status:      s.status,
		MoveA:       s.moveA,
		MoveB:       s.moveB,
		Winner:      s.winner,
		TimedOut:    s.timedOut,
		DeltaA:      s.deltaA,
		DeltaB:      s.deltaB,
		RematchOf:   s.rematchOf,
		CreatedAt:   s.createdAt,
		CompletedAt: s.completedAt,
		Deadline:    s.deadline,
	}
}

// HasParticipant reports whether accountID is bound to either slot.
func (s *Session) HasParticipant(accountID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slotOf(accountID)
	return ok
}

// Opponent returns the other participant's account id, or 0.
func (s *Session) Opponent(accountID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch accountID {
	case s.slotA:
		return s.slotB
	case s.slotB:
		return s.slotA
	default:
		return 0
	}
}

// CanJoin reports whether accountID may bind to slot B right now.
func (s *Session) CanJoin(accountID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusWaiting && s.slotB == 0 && s.slotA != accountID
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) slotOf(accountID int64) (Slot, bool) {
	switch {
	case accountID == s.slotA:
		return SlotA, true
	case accountID != 0 && accountID == s.slotB:
		return SlotB, true
	default:
		return 0, false
	}
}

func (s *Session) moveOf(slot Slot) game.Move {
	if slot == SlotA {
		return s.moveA
	}
	return s.moveB
}

func (s *Session) setMove(slot Slot, m game.Move) {
	if slot == SlotA {
		s.moveA = m
	} else {
		s.moveB = m
	}
}

func (s *Session) stopTimer(slot Slot) {
	if t := s.timers[slot]; t != nil {
		t.Stop()
		s.timers[slot] = nil
	}
}
