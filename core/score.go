package core

import "strconv"

const (
	// MaxScore is the highest value either side of a Score may hold.
	MaxScore = 999
	// MaxTotal bounds the combined score of a match.
	MaxTotal = 2 * MaxScore
)

// Score is an immutable home/away pair. The zero value is the valid 0-0 score.
// Every mutator returns a new Score and never changes the receiver.
type Score struct {
	home int
	away int
}

// InitialScore returns the 0-0 score every match starts with.
func InitialScore() Score { return Score{} }

// NewScore validates both sides and their sum.
func NewScore(home, away int) (Score, error) {
	if home < 0 || home > MaxScore {
		return Score{}, invalidArgument("home score must be between 0 and %d, got %d", MaxScore, home)
	}
	if away < 0 || away > MaxScore {
		return Score{}, invalidArgument("away score must be between 0 and %d, got %d", MaxScore, away)
	}
	if home+away > MaxTotal {
		return Score{}, invalidArgument("total score must not exceed %d", MaxTotal)
	}
	return Score{home: home, away: away}, nil
}

func (s Score) Home() int { return s.home }
func (s Score) Away() int { return s.away }

// Total is the sum of both sides, the primary ranking key of a summary.
func (s Score) Total() int { return s.home + s.away }

func (s Score) IsDraw() bool { return s.home == s.away }

// String renders the score as "home-away".
func (s Score) String() string {
	return strconv.Itoa(s.home) + "-" + strconv.Itoa(s.away)
}

func (s Score) IncrementHome() (Score, error) { return NewScore(s.home+1, s.away) }
func (s Score) IncrementAway() (Score, error) { return NewScore(s.home, s.away+1) }
func (s Score) DecrementHome() (Score, error) { return NewScore(s.home-1, s.away) }
func (s Score) DecrementAway() (Score, error) { return NewScore(s.home, s.away-1) }

// IncrementHomeBy adds amount goals to the home side.
func (s Score) IncrementHomeBy(amount int) (Score, error) {
	if err := checkAmount(amount); err != nil {
		return Score{}, err
	}
	return NewScore(s.home+amount, s.away)
}

// IncrementAwayBy adds amount goals to the away side.
func (s Score) IncrementAwayBy(amount int) (Score, error) {
	if err := checkAmount(amount); err != nil {
		return Score{}, err
	}
	return NewScore(s.home, s.away+amount)
}

// DecrementHomeBy removes amount goals from the home side.
func (s Score) DecrementHomeBy(amount int) (Score, error) {
	if err := checkAmount(amount); err != nil {
		return Score{}, err
	}
	return NewScore(s.home-amount, s.away)
}

// DecrementAwayBy removes amount goals from the away side.
func (s Score) DecrementAwayBy(amount int) (Score, error) {
	if err := checkAmount(amount); err != nil {
		return Score{}, err
	}
	return NewScore(s.home, s.away-amount)
}

// checkAmount rejects negative amounts and amounts no valid score could absorb.
func checkAmount(amount int) error {
	if amount < 0 {
		return invalidArgument("amount must not be negative, got %d", amount)
	}
	if amount > MaxTotal {
		return invalidArgument("amount must not exceed %d, got %d", MaxTotal, amount)
	}
	return nil
}
