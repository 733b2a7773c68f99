package game

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		a, b Move
		want Winner
	}{
		{MoveRock, MoveScissors, WinnerA},
		{MoveRock, MovePaper, WinnerB},
		{MoveRock, MoveRock, WinnerTie},
		{MovePaper, MoveRock, WinnerA},
		{MovePaper, MoveScissors, WinnerB},
		{MovePaper, MovePaper, WinnerTie},
		{MoveScissors, MovePaper, WinnerA},
		{MoveScissors, MoveRock, WinnerB},
		{MoveScissors, MoveScissors, WinnerTie},
	}

	for _, tc := range cases {
		if got := Resolve(tc.a, tc.b); got != tc.want {
			t.Errorf("Resolve(%s, %s) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

// Resolve(x,y) and Resolve(y,x) must mirror each other for every pair.
func TestResolveMirror(t *testing.T) {
	moves := []Move{MoveRock, MovePaper, MoveScissors}

	for _, x := range moves {
		for _, y := range moves {
			ab := Resolve(x, y)
			ba := Resolve(y, x)

			switch {
			case x == y:
				if ab != WinnerTie || ba != WinnerTie {
					t.Errorf("Resolve(%s, %s) should tie both ways, got %v / %v", x, y, ab, ba)
				}
			case ab == WinnerA:
				if ba != WinnerB {
					t.Errorf("Resolve(%s, %s) = A but Resolve(%s, %s) = %v", x, y, y, x, ba)
				}
			case ab == WinnerB:
				if ba != WinnerA {
					t.Errorf("Resolve(%s, %s) = B but Resolve(%s, %s) = %v", x, y, y, x, ba)
				}
			default:
				t.Errorf("Resolve(%s, %s) tied distinct moves", x, y)
			}
		}
	}
}

func TestValidMove(t *testing.T) {
	for _, m := range []Move{MoveRock, MovePaper, MoveScissors} {
		if !ValidMove(m) {
			t.Errorf("ValidMove(%s) = false", m)
		}
	}
	for _, m := range []Move{MoveNone, MoveTimeout, Move("lizard")} {
		if ValidMove(m) {
			t.Errorf("ValidMove(%q) = true", m)
		}
	}
}
