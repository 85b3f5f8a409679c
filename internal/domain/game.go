package domain

import "errors"

// Game holds the current state of a match between the human (X) and the
// computer (O).
type Game struct {
	Board   Board
	Turn    Cell
	Outcome Outcome
	Moves   int
}

// Errors returned by game operations.
var (
	ErrGameOver    = errors.New("game over")
	ErrNotYourTurn = errors.New("not your turn")
)

// New returns a new game with X to move.
func New() Game {
	return Game{Turn: X}
}

// Play places p's mark at idx (0..8). The board is left untouched on error.
func (g *Game) Play(p Cell, idx int) error {
	if g.Over() {
		return ErrGameOver
	}
	if p != g.Turn {
		return ErrNotYourTurn
	}
	next, err := g.Board.Apply(idx, p)
	if err != nil {
		return err
	}

	g.Board = next
	g.Moves++
	g.Outcome = OutcomeOf(g.Board)
	if !g.Outcome.Terminal() {
		g.Turn = p.Opponent()
	}
	return nil
}

// Over reports whether the game reached a win or a draw.
func (g *Game) Over() bool { return g.Outcome.Terminal() }

// Reset starts a fresh game in place.
func (g *Game) Reset() { *g = New() }

// Result is the banner shown once the game is over, empty before that.
func (g *Game) Result() string {
	switch {
	case g.Outcome.Status == Draw:
		return "It's a draw!"
	case g.Outcome.Status != Win:
		return ""
	case g.Outcome.Winner == Computer:
		return "Computer wins!"
	default:
		return g.Outcome.Winner.String() + " wins!"
	}
}
