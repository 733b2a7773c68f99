package game

// Move is a player's choice in a round.
type Move string

const (
	MoveNone     Move = ""
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"

	// MoveTimeout is recorded for a slot whose deadline expired. It is never
	// passed to Resolve; a timeout short-circuits resolution entirely.
	MoveTimeout Move = "timeout"
)

// Winner identifies which slot won a resolved round.
type Winner int

const (
	WinnerTie Winner = iota
	WinnerA
	WinnerB
)

// ValidMove reports whether m is a playable move.
func ValidMove(m Move) bool {
	return m == MoveRock || m == MovePaper || m == MoveScissors
}

// beats maps each move to the move it defeats.
var beats = map[Move]Move{
	MoveRock:     MoveScissors,
	MovePaper:    MoveRock,
	MoveScissors: MovePaper,
}

// Resolve decides the outcome of moveA against moveB.
// Both arguments must be playable moves.
func Resolve(moveA, moveB Move) Winner {
	if moveA == moveB {
		return WinnerTie
	}
	if beats[moveA] == moveB {
		return WinnerA
	}
	return WinnerB
}
