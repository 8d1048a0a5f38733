package scoring

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/beach-cup/models"
)

const (
	PlayerCount = 4
	GameCount   = 3

	// MaxNameLength matches the width of the player name columns.
	MaxNameLength = 100
)

// pairings lists, per game, the slots of team 1 and team 2.
// Each pair of slots plays together once and against each other twice.
var pairings = [GameCount][2][2]int{
	{{1, 2}, {3, 4}},
	{{1, 3}, {2, 4}},
	{{1, 4}, {2, 3}},
}

// ValidatePlayerNames trims the names and checks there are exactly four distinct,
// non-empty ones of at most MaxNameLength characters.
// Names are compared exactly; "Anna" and "anna" are different players.
func ValidatePlayerNames(names []string) ([]string, error) {
	if len(names) != PlayerCount {
		return nil, fmt.Errorf("%w: need exactly %d player names, got %d", ErrInvalidInput, PlayerCount, len(names))
	}

	cleaned := make([]string, 0, PlayerCount)
	seen := make(map[string]struct{}, PlayerCount)
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d has an empty name", ErrInvalidInput, i+1)
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, fmt.Errorf("%w: player %d name is longer than %d characters", ErrInvalidInput, i+1, MaxNameLength)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate player name %q", ErrInvalidInput, name)
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	return cleaned, nil
}

// AssignSlots validates the names and gives each a random slot from a Fisher-Yates
// shuffle of [1,2,3,4]. A nil rng uses the global source.
// The returned assignments keep the input order of names.
func AssignSlots(names []string, rng *rand.Rand) ([]models.SlotAssignment, error) {
	cleaned, err := ValidatePlayerNames(names)
	if err != nil {
		return nil, err
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	slots := []int{1, 2, 3, 4}
	for i := len(slots) - 1; i > 0; i-- {
		j := intN(i + 1)
		slots[i], slots[j] = slots[j], slots[i]
	}

	assignments := make([]models.SlotAssignment, PlayerCount)
	for i, name := range cleaned {
		assignments[i] = models.SlotAssignment{Name: name, Slot: slots[i]}
	}
	return assignments, nil
}

// SequentialSlots assigns slot i+1 to the i-th name, for callers whose schedule was already drawn.
func SequentialSlots(names []string) ([]models.SlotAssignment, error) {
	cleaned, err := ValidatePlayerNames(names)
	if err != nil {
		return nil, err
	}
	assignments := make([]models.SlotAssignment, PlayerCount)
	for i, name := range cleaned {
		assignments[i] = models.SlotAssignment{Name: name, Slot: i + 1}
	}
	return assignments, nil
}

// NewSchedule builds the three games from a complete slot assignment.
func NewSchedule(assignments []models.SlotAssignment) ([]models.Game, error) {
	bySlot, err := playersBySlot(assignments)
	if err != nil {
		return nil, err
	}

	games := make([]models.Game, 0, GameCount)
	for i, p := range pairings {
		games = append(games, models.Game{
			GameNumber: i + 1,
			Team1:      [2]string{bySlot[p[0][0]], bySlot[p[0][1]]},
			Team2:      [2]string{bySlot[p[1][0]], bySlot[p[1][1]]},
			Result:     ScoreMatch(nil),
		})
	}
	return games, nil
}

func playersBySlot(assignments []models.SlotAssignment) (map[int]string, error) {
	if len(assignments) != PlayerCount {
		return nil, fmt.Errorf("%w: need exactly %d slot assignments, got %d", ErrInvalidInput, PlayerCount, len(assignments))
	}

	bySlot := make(map[int]string, PlayerCount)
	names := make(map[string]struct{}, PlayerCount)
	for _, a := range assignments {
		if a.Slot < 1 || a.Slot > PlayerCount {
			return nil, fmt.Errorf("%w: slot %d for %q is out of range", ErrInvalidInput, a.Slot, a.Name)
		}
		if a.Name == "" {
			return nil, fmt.Errorf("%w: slot %d has no player", ErrInvalidInput, a.Slot)
		}
		if _, taken := bySlot[a.Slot]; taken {
			return nil, fmt.Errorf("%w: slot %d assigned twice", ErrInvalidInput, a.Slot)
		}
		if _, dup := names[a.Name]; dup {
			return nil, fmt.Errorf("%w: player %q assigned twice", ErrInvalidInput, a.Name)
		}
		bySlot[a.Slot] = a.Name
		names[a.Name] = struct{}{}
	}
	return bySlot, nil
}
