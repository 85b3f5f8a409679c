package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

const (
	e = domain.Empty
	x = domain.X
	o = domain.O
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board domain.Board
		want  int
	}{
		{"empty board", domain.Board{}, 0},
		{"O top row", domain.Board{o, o, o, e, e, e, e, e, e}, 10},
		{"X left column", domain.Board{x, e, e, x, e, e, x, e, e}, -10},
		{"no line", domain.Board{x, o, x, e, o, e, e, x, e}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.board); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBestMoveTakesImmediateWin(t *testing.T) {
	// O O _
	// X X _
	// X _ _
	b := domain.Board{o, o, e, x, x, e, x, e, e}
	got, err := BestMove(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected winning move 2, got %d", got)
	}
}

func TestBestMoveTieGoesToLowestIndex(t *testing.T) {
	// O O _
	// X O X
	// X X _
	// both 2 and 8 complete a line for O
	b := domain.Board{o, o, e, x, o, x, x, x, e}
	got, err := BestMove(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected first winning move 2, got %d", got)
	}
}

func TestBestMovePrefersFasterWin(t *testing.T) {
	// X X O
	// _ O _
	// _ X _
	// 3 forks into a win next turn, 6 wins now
	b := domain.Board{x, x, o, e, o, e, e, x, e}
	got, err := BestMove(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6 {
		t.Fatalf("expected immediate win at 6, got %d", got)
	}
}

func TestBestMoveBlocksThreat(t *testing.T) {
	// _ _ _
	// _ O _
	// X X _
	b := domain.Board{e, e, e, e, o, e, x, x, e}
	got, err := BestMove(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Fatalf("expected block at 8, got %d", got)
	}
}

func TestBestMoveNoMovesAvailable(t *testing.T) {
	b := domain.Board{x, o, x, x, o, o, o, x, x}
	if _, err := BestMove(b); !errors.Is(err, ErrNoMovesAvailable) {
		t.Fatalf("expected ErrNoMovesAvailable, got %v", err)
	}
}

func TestBestMoveToleratesDecidedBoard(t *testing.T) {
	boards := []domain.Board{
		{x, x, x, o, o, e, e, e, e},
		{o, o, o, x, x, e, x, e, e},
	}
	for _, b := range boards {
		mv, err := BestMove(b)
		if err != nil {
			t.Fatalf("BestMove(%v) error: %v", b, err)
		}
		if mv < 0 || mv > 8 || b[mv] != e {
			t.Fatalf("BestMove(%v) = %d, want an empty cell", b, mv)
		}
	}
}

func TestBestMoveForRejectsEmptyPlayer(t *testing.T) {
	if _, err := BestMoveFor(domain.Board{}, domain.Empty); !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestBestMoveDeterministicFromEmptyBoard(t *testing.T) {
	var b domain.Board
	first, err := BestMove(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := BestMove(b)
	if first != second {
		t.Fatalf("expected reproducible move, got %d then %d", first, second)
	}
	if first < 0 || first > 8 {
		t.Fatalf("move out of range: %d", first)
	}
	if b != (domain.Board{}) {
		t.Fatalf("caller board mutated: %v", b)
	}
}

// Every in-progress position with O to move gets a legal reply, and the
// caller's board is left as it was.
func TestBestMoveAlwaysLegal(t *testing.T) {
	seen := make(map[domain.Board]bool)
	var walk func(b domain.Board)
	walk = func(b domain.Board) {
		if seen[b] || b.Outcome().Terminal() {
			return
		}
		seen[b] = true
		mover := b.ToMove()
		if mover == domain.O {
			before := b
			mv, err := BestMove(b)
			if err != nil {
				t.Fatalf("board %v: %v", b, err)
			}
			if b[mv] != domain.Empty {
				t.Fatalf("board %v: move %d is occupied", b, mv)
			}
			if b != before {
				t.Fatalf("board mutated by search")
			}
		}
		for _, m := range b.LegalMoves() {
			next, _ := b.Apply(m, mover)
			walk(next)
		}
	}
	walk(domain.Board{})
	if len(seen) == 0 {
		t.Fatalf("walked no positions")
	}
}

func selfPlay(t *testing.T, b domain.Board) domain.Outcome {
	t.Helper()
	for !b.Outcome().Terminal() {
		mover := b.ToMove()
		mv, err := BestMoveFor(b, mover)
		if err != nil {
			t.Fatalf("search failed on %v: %v", b, err)
		}
		if b, err = b.Apply(mv, mover); err != nil {
			t.Fatalf("engine chose illegal move %d: %v", mv, err)
		}
	}
	return b.Outcome()
}

func TestSelfPlayDraws(t *testing.T) {
	if got := selfPlay(t, domain.Board{}); got.Status != domain.Draw {
		t.Fatalf("expected draw from empty board, got %+v", got)
	}
}

func TestComputerNeverLosesAnyOpening(t *testing.T) {
	for i := 0; i < 9; i++ {
		t.Run(fmt.Sprintf("opening %d", i), func(t *testing.T) {
			var b domain.Board
			b[i] = domain.X
			got := selfPlay(t, b)
			if got.Status == domain.Win && got.Winner == domain.X {
				t.Fatalf("X won against the engine: %+v", got)
			}
		})
	}
}

func TestMinimaxLeavesBoardUntouched(t *testing.T) {
	s := search{board: domain.Board{x, e, e, e, o, e, e, e, x}, me: domain.O}
	before := s.board
	_ = s.minimax(0, true)
	if s.board != before {
		t.Fatalf("probe marks not reverted: %v", s.board)
	}
}
