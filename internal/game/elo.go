package game

import "math"

// KFactor is the maximum rating change per game.
const KFactor = 10

// DefaultRating is the rating new accounts start with.
const DefaultRating = 1200

// UpdateRatings computes post-game ratings for both players. Each side's
// delta is derived independently from its own expected score.
func UpdateRatings(ratingA, ratingB int, w Winner) (newA, newB, deltaA, deltaB int) {
	expectedA := 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
	expectedB := 1 / (1 + math.Pow(10, float64(ratingA-ratingB)/400))

	var scoreA, scoreB float64
	switch w {
	case WinnerA:
		scoreA, scoreB = 1, 0
	case WinnerB:
		scoreA, scoreB = 0, 1
	default:
		scoreA, scoreB = 0.5, 0.5
	}

	// math.Round rounds half away from zero.
	deltaA = int(math.Round(KFactor * (scoreA - expectedA)))
	deltaB = int(math.Round(KFactor * (scoreB - expectedB)))

	return ratingA + deltaA, ratingB + deltaB, deltaA, deltaB
}
