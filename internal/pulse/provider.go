// Package pulse models the PULSE performance score: where it comes from and
// how raw numbers translate into user-facing status bands.
package pulse

import "context"

// DefaultScore is used whenever no score can be resolved for a user.
const DefaultScore = 50

// ScoreProvider supplies the current PULSE score (0-100) for a user. The
// scoring subsystem lives elsewhere; the generation engine only consumes the
// scalar.
type ScoreProvider interface {
	Score(ctx context.Context, userID string) (int, error)
}

// Fixed always returns the same score. The zero-config provider.
type Fixed int

func (f Fixed) Score(ctx context.Context, userID string) (int, error) {
	return int(f), nil
}

// Clamp forces a score into the 0-100 range.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
