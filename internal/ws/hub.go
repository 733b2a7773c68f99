package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
	"rps_arena/internal/logger"
	"rps_arena/internal/repository"
	"rps_arena/internal/session"
)

const persistTimeout = 5 * time.Second

// Accounts is the read side of the persistence collaborator: current ratings
// and display names at completion time.
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// Store commits one terminal session record, with any rating adjustments, in
// a single transaction.
type Store interface {
	SaveTerminal(ctx context.Context, m *domain.Match, updates []repository.AccountUpdate) error
}

// Hub is the connection-event dispatcher. It translates inbound events into
// calls against the session directory and fans resulting state changes out to
// the affected rooms. Guard failures are acknowledged to the originating
// connection only and never tear down the dispatch loop.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Client

	presence  *Registry
	directory *session.Directory
	store     Store
	accounts  Accounts
}

func NewHub(dir *session.Directory, presence *Registry, store Store, accounts Accounts) *Hub {
	h := &Hub{
		conns:     make(map[string]*Client),
		presence:  presence,
		directory: dir,
		store:     store,
		accounts:  accounts,
	}
	dir.SetExpireFunc(h.handleExpire)
	return h
}

func (h *Hub) Connect(c *Client) {
	h.mu.Lock()
	h.conns[c.ConnID] = c
	h.mu.Unlock()

	h.presence.Connect(c.ConnID, c.AccountID)
	Connections.Inc()
	logger.Debug("client connected", "conn", c.ConnID, "account", c.AccountID)
}

// OnDisconnect cancels every open session the account occupies, notifies the
// remaining participant, and destroys the presence entry.
func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.conns[c.ConnID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.ConnID)
	h.mu.Unlock()

	room := h.presence.Room(c.ConnID)
	h.presence.Disconnect(c.ConnID)
	Connections.Dec()

	if room == RoomLobby {
		h.broadcastRoom(RoomLobby, EvtUserLeftLobby, LobbyUserPayload{AccountID: c.AccountID, Name: c.Name}, 0)
	}

	for _, s := range h.directory.FindOpenByAccount(c.AccountID) {
		s.Sequenced(func() {
			if !s.Cancel() {
				return
			}
			snap := s.Snapshot()
			logger.Info("session cancelled on disconnect", "session", snap.ID, "account", c.AccountID)

			h.broadcastRoom(SessionRoom(snap.ID), EvtOpponentDisconnected,
				OpponentDisconnectedPayload{Message: "Your opponent disconnected."}, c.AccountID)

			ActiveSessions.Dec()
			SessionsFinished.WithLabelValues("cancelled").Inc()
			h.directory.Remove(snap.ID)

			go h.persist(snap, nil)
		})
	}

	logger.Debug("client disconnected", "conn", c.ConnID, "account", c.AccountID)
}

// HandleMessage dispatches one inbound frame.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(c, "malformed message")
		return
	}

	switch env.Type {
	case EvtJoinLobby:
		h.joinLobby(c)
	case EvtLeaveLobby:
		h.leaveLobby(c)
	case EvtJoinSession:
		var p JoinSessionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == "" {
			h.sendError(c, "malformed payload")
			return
		}
		h.joinSession(c, p)
	case EvtSubmitMove:
		var p SubmitMovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == "" {
			h.sendError(c, "malformed payload")
			return
		}
		h.submitMove(c, p)
	case EvtRequestRematch:
		var p RematchPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.SessionID == "" {
			h.sendError(c, "malformed payload")
			return
		}
		h.requestRematch(c, p)
	default:
		h.sendError(c, "unknown event type")
	}
}

func (h *Hub) joinLobby(c *Client) {
	h.presence.SetRoom(c.ConnID, RoomLobby)
	h.broadcastRoom(RoomLobby, EvtUserJoinedLobby, LobbyUserPayload{AccountID: c.AccountID, Name: c.Name}, 0)
}

func (h *Hub) leaveLobby(c *Client) {
	if h.presence.Room(c.ConnID) != RoomLobby {
		return
	}
	h.presence.SetRoom(c.ConnID, RoomNone)
	h.broadcastRoom(RoomLobby, EvtUserLeftLobby, LobbyUserPayload{AccountID: c.AccountID, Name: c.Name}, 0)
}

func (h *Hub) joinSession(c *Client, p JoinSessionPayload) {
	s, err := h.directory.Get(p.SessionID)
	if err != nil {
		h.sendError(c, "session not found")
		return
	}

	s.Sequenced(func() {
		if !s.HasParticipant(c.AccountID) {
			// direct-link join: bind the open slot of a waiting session
			if err := h.directory.Join(s, c.AccountID); err != nil {
				h.sendError(c, "session is not available")
				return
			}
		}

		h.presence.SetRoom(c.ConnID, SessionRoom(s.ID))

		snap := s.Snapshot()
		switch snap.Status {
		case session.StatusWaiting:
			h.sendEvent(c, EvtWaitingForOpponent, WaitingPayload{Message: "Waiting for another player to join..."})
		case session.StatusActive:
			deadline := int(time.Until(snap.Deadline).Seconds())
			if deadline < 0 {
				deadline = 0
			}
			h.broadcastRoom(SessionRoom(s.ID), EvtPlayerJoined, PlayerJoinedPayload{
				AccountID:       c.AccountID,
				Name:            c.Name,
				OpponentName:    h.accountName(s.Opponent(c.AccountID)),
				Active:          true,
				DeadlineSeconds: deadline,
			}, 0)
		default:
			// rejoining a finished session: nothing to announce
		}
	})
}

func (h *Hub) submitMove(c *Client, p SubmitMovePayload) {
	s, err := h.directory.Get(p.SessionID)
	if err != nil {
		h.sendError(c, "session not found")
		return
	}

	s.Sequenced(func() {
		snap, completed, err := s.SubmitMove(c.AccountID, game.Move(p.Move))
		if err != nil {
			h.sendError(c, guardMessage(err))
			return
		}

		if completed {
			h.finalize(s, snap)
			return
		}

		// opponent learns a choice landed, never its content
		h.broadcastRoom(SessionRoom(s.ID), EvtChoiceMade, ChoiceMadePayload{AccountID: c.AccountID}, c.AccountID)
	})
}

func (h *Hub) requestRematch(c *Client, p RematchPayload) {
	next, err := h.directory.Rematch(p.SessionID, c.AccountID)
	if err != nil {
		h.sendError(c, guardMessage(err))
		return
	}

	ActiveSessions.Inc()
	h.broadcastRoom(SessionRoom(p.SessionID), EvtNewGameCreated, NewGameCreatedPayload{SessionID: next.ID}, 0)
}

// handleExpire is the turn-timer callback. ExpireTimer re-checks state under
// the session lock, so a timer that raced a submitted move is a no-op here.
func (h *Hub) handleExpire(s *session.Session, slot session.Slot) {
	s.Sequenced(func() {
		snap, completed := s.ExpireTimer(slot)
		if completed {
			logger.Info("session completed by deadline", "session", snap.ID)
			h.finalize(s, snap)
		}
	})
}

// finalize runs after the Completed transition, outside the session state
// mutex but still inside the caller's Sequenced block, so the result event
// lands in the room stream after every earlier broadcast: read pre-match
// ratings, apply the rating engine, fan out the result, then hand the record
// to the store fire-and-report.
func (h *Hub) finalize(s *session.Session, snap session.Snapshot) {
	room := SessionRoom(snap.ID)

	var updates []repository.AccountUpdate
	deltaA, deltaB := 0, 0

	// a simultaneous double timeout is a tie with no rating change
	doubleTimeout := snap.MoveA == game.MoveTimeout && snap.MoveB == game.MoveTimeout
	if !doubleTimeout {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		accA, errA := h.accounts.GetByID(ctx, snap.SlotA)
		accB, errB := h.accounts.GetByID(ctx, snap.SlotB)
		cancel()

		if errA != nil || errB != nil {
			logger.Error("rating lookup failed for completed session",
				"session", snap.ID, "error_a", errA, "error_b", errB)
			h.broadcastRoom(room, EvtPersistenceDegraded,
				ErrorPayload{Message: "result recorded locally; ratings could not be updated"}, 0)
		} else {
			_, _, deltaA, deltaB = game.UpdateRatings(accA.Rating, accB.Rating, snap.Winner)
			updates = counterUpdates(snap, deltaA, deltaB)
		}
	}

	s.SetDeltas(deltaA, deltaB)
	snap.DeltaA, snap.DeltaB = deltaA, deltaB

	if snap.TimedOut {
		h.broadcastRoom(room, EvtGameTimeout, GameTimeoutPayload{
			WinnerAccountID: snap.WinnerAccount(),
			LoserAccountID:  snap.LoserAccount(),
			DeltaA:          deltaA,
			DeltaB:          deltaB,
		}, 0)
		SessionsFinished.WithLabelValues("timeout").Inc()
	} else {
		outcome := "win"
		if snap.Winner == game.WinnerTie {
			outcome = "tie"
		}
		h.broadcastRoom(room, EvtGameResult, GameResultPayload{
			MoveA:           string(snap.MoveA),
			MoveB:           string(snap.MoveB),
			WinnerAccountID: snap.WinnerAccount(),
			DeltaA:          deltaA,
			DeltaB:          deltaB,
		}, 0)
		SessionsFinished.WithLabelValues(outcome).Inc()
	}

	ActiveSessions.Dec()

	go h.persist(snap, updates)
}

func counterUpdates(snap session.Snapshot, deltaA, deltaB int) []repository.AccountUpdate {
	updA := repository.AccountUpdate{AccountID: snap.SlotA, RatingDelta: deltaA}
	updB := repository.AccountUpdate{AccountID: snap.SlotB, RatingDelta: deltaB}

	switch snap.Winner {
	case game.WinnerA:
		updA.Wins, updB.Losses = 1, 1
	case game.WinnerB:
		updB.Wins, updA.Losses = 1, 1
	default:
		updA.Ties, updB.Ties = 1, 1
	}
	return []repository.AccountUpdate{updA, updB}
}

// persist commits the terminal record. The in-memory result is already
// authoritative for the live experience, so a failure is reported as a soft
// warning rather than rolled back.
func (h *Hub) persist(snap session.Snapshot, updates []repository.AccountUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := h.store.SaveTerminal(ctx, matchFromSnapshot(snap), updates); err != nil {
		logger.Error("match persistence failed", "session", snap.ID, "error", err)
		h.broadcastRoom(SessionRoom(snap.ID), EvtPersistenceDegraded,
			ErrorPayload{Message: "result shown may not have been recorded"}, 0)
	}
}

func matchFromSnapshot(snap session.Snapshot) *domain.Match {
	m := &domain.Match{
		ID:        snap.ID,
		PlayerAID: snap.SlotA,
		MoveA:     string(snap.MoveA),
		MoveB:     string(snap.MoveB),
		DeltaA:    snap.DeltaA,
		DeltaB:    snap.DeltaB,
		CreatedAt: snap.CreatedAt,
	}
	if snap.SlotB != 0 {
		b := snap.SlotB
		m.PlayerBID = &b
	}
	if snap.RematchOf != "" {
		of := snap.RematchOf
		m.RematchOf = &of
	}
	if snap.Status == session.StatusCompleted {
		m.Status = domain.MatchCompleted
		m.WinnerID = snap.WinnerAccount()
		at := snap.CompletedAt
		m.CompletedAt = &at
	} else {
		m.Status = domain.MatchCancelled
	}
	return m
}

func guardMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrInvalidMove):
		return "invalid move"
	case errors.Is(err, session.ErrNotActive):
		return "session is not active"
	case errors.Is(err, session.ErrAlreadyActive):
		return "session is already active"
	case errors.Is(err, session.ErrAlreadyChosen):
		return "move already recorded"
	case errors.Is(err, session.ErrUnknownParticipant):
		return "you are not part of this session"
	case errors.Is(err, session.ErrSessionNotFound):
		return "session not found"
	default:
		return "request failed"
	}
}

func (h *Hub) accountName(accountID int64) string {
	if accountID == 0 {
		return "Unknown"
	}

	h.mu.RLock()
	for _, c := range h.conns {
		if c.AccountID == accountID {
			h.mu.RUnlock()
			return c.Name
		}
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	acc, err := h.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "Unknown"
	}
	return acc.Name
}

func (h *Hub) sendEvent(c *Client, evtType string, payload any) {
	data, err := json.Marshal(Event{Type: evtType, Payload: payload})
	if err != nil {
		logger.Error("event marshal failed", "type", evtType, "error", err)
		return
	}
	if !c.enqueue(data) {
		EventsDropped.Inc()
		logger.Warn("dropped event for slow client", "conn", c.ConnID, "type", evtType)
	}
}

func (h *Hub) sendError(c *Client, msg string) {
	h.sendEvent(c, EvtError, ErrorPayload{Message: msg})
}

// broadcastRoom fans an event out to every connection in room, skipping
// connections of exceptAccount. Delivery is fire-and-forget per connection.
func (h *Hub) broadcastRoom(room Room, evtType string, payload any, exceptAccount int64) {
	data, err := json.Marshal(Event{Type: evtType, Payload: payload})
	if err != nil {
		logger.Error("event marshal failed", "type", evtType, "error", err)
		return
	}

	for _, connID := range h.presence.ListRoom(room) {
		h.mu.RLock()
		c, ok := h.conns[connID]
		h.mu.RUnlock()
		if !ok {
			continue
		}
		if exceptAccount != 0 && c.AccountID == exceptAccount {
			continue
		}
		if !c.enqueue(data) {
			EventsDropped.Inc()
			logger.Warn("dropped event for slow client", "conn", c.ConnID, "type", evtType)
		}
	}
}
