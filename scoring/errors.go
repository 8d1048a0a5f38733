package scoring

import "errors"

var (
	// ErrInvalidInput covers bad player lists, malformed slot assignments and set indexes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotScoreable is returned when standings are requested before every game is decided.
	ErrNotScoreable = errors.New("tournament is not scoreable: every game needs a decided result")
)
