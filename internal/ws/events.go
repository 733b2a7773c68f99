package ws

import "encoding/json"

// client -> server
const (
	EvtJoinLobby      = "join_lobby"
	EvtLeaveLobby     = "leave_lobby"
	EvtJoinSession    = "join_session"
	EvtSubmitMove     = "submit_move"
	EvtRequestRematch = "request_rematch"
)

// server -> client
const (
	EvtUserJoinedLobby      = "user_joined_lobby"
	EvtUserLeftLobby        = "user_left_lobby"
	EvtPlayerJoined         = "player_joined"
	EvtWaitingForOpponent   = "waiting_for_opponent"
	EvtChoiceMade           = "choice_made"
	EvtGameResult           = "game_result"
	EvtGameTimeout          = "game_timeout"
	EvtOpponentDisconnected = "opponent_disconnected"
	EvtNewGameCreated       = "new_game_created"
	EvtPersistenceDegraded  = "persistence_degraded"
	EvtError                = "error"
)

// Envelope is the inbound wire frame.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is the outbound wire frame.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client -> server payloads

type JoinSessionPayload struct {
	SessionID string `json:"session_id"`
}

type SubmitMovePayload struct {
	SessionID string `json:"session_id"`
	Move      string `json:"move"` // rock | paper | scissors
}

type RematchPayload struct {
	SessionID string `json:"session_id"`
}

// server -> client payloads

type LobbyUserPayload struct {
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
}

type PlayerJoinedPayload struct {
	AccountID       int64  `json:"account_id"`
	Name            string `json:"name"`
	OpponentName    string `json:"opponent_name"`
	Active          bool   `json:"active"`
	DeadlineSeconds int    `json:"deadline_seconds"`
}

type WaitingPayload struct {
	Message string `json:"message"`
}

type ChoiceMadePayload struct {
	AccountID int64 `json:"account_id"`
}

type GameResultPayload struct {
	MoveA           string `json:"move_a"`
	MoveB           string `json:"move_b"`
	WinnerAccountID *int64 `json:"winner_account_id"`
	DeltaA          int    `json:"delta_a"`
	DeltaB          int    `json:"delta_b"`
}

type GameTimeoutPayload struct {
	WinnerAccountID *int64 `json:"winner_account_id"`
	LoserAccountID  *int64 `json:"loser_account_id"`
	DeltaA          int    `json:"delta_a"`
	DeltaB          int    `json:"delta_b"`
}

type OpponentDisconnectedPayload struct {
	Message string `json:"message"`
}

type NewGameCreatedPayload struct {
	SessionID string `json:"session_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
