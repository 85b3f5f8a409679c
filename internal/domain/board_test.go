package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  Outcome
	}{
		{
			name:  "empty board in progress",
			board: Board{},
			want:  Outcome{Status: InProgress},
		},
		{
			name: "row 0 X wins",
			board: Board{
				X, X, X,
				Empty, O, Empty,
				Empty, O, Empty,
			},
			want: Won(X),
		},
		{
			name: "col 1 O wins",
			board: Board{
				X, O, Empty,
				Empty, O, X,
				X, O, Empty,
			},
			want: Won(O),
		},
		{
			name: "anti diagonal O wins",
			board: Board{
				X, X, O,
				Empty, O, Empty,
				O, Empty, X,
			},
			want: Won(O),
		},
		{
			name: "full board without line is a draw",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			want: Outcome{Status: Draw},
		},
		{
			name: "full board with a line is a win",
			board: Board{
				X, X, X,
				O, O, X,
				X, O, O,
			},
			want: Won(X),
		},
		{
			name: "partial board in progress",
			board: Board{
				X, O, X,
				Empty, O, Empty,
				O, X, Empty,
			},
			want: Outcome{Status: InProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutcomeOf(tt.board); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if got := tt.board.Outcome(); got != tt.want {
				t.Fatalf("method disagrees: expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestWinPatternsOrder(t *testing.T) {
	want := [8][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}
	got := WinPatterns()
	if got != want {
		t.Fatalf("unexpected patterns %v", got)
	}
	got[0] = [3]int{6, 7, 8}
	if WinPatterns() != want {
		t.Fatalf("patterns must not be mutable through the returned copy")
	}
}

func TestLegalMovesAscending(t *testing.T) {
	b := Board{
		Empty, X, Empty,
		O, Empty, X,
		Empty, Empty, O,
	}
	want := []int{0, 2, 4, 6, 7}
	if got := b.LegalMoves(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	var full Board
	for i := range full {
		full[i] = X
	}
	if got := full.LegalMoves(); len(got) != 0 {
		t.Fatalf("expected no moves on full board, got %v", got)
	}
}

func TestApply(t *testing.T) {
	var b Board
	next, err := b.Apply(4, X)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if next[4] != X {
		t.Fatalf("expected X at 4, got %v", next[4])
	}
	if b[4] != Empty {
		t.Fatalf("receiver must not be modified")
	}
}

func TestApplyOccupiedLeavesBoardUnchanged(t *testing.T) {
	b := Board{X, Empty, Empty, Empty, O, Empty, Empty, Empty, Empty}
	before := b
	got, err := b.Apply(0, O)
	if !errors.Is(err, ErrOccupied) || !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrOccupied wrapping ErrIllegalMove, got %v", err)
	}
	if got != before || b != before {
		t.Fatalf("board changed on rejected move: %v", got)
	}
}

func TestApplyOutOfBounds(t *testing.T) {
	var b Board
	for _, idx := range []int{-1, 9, 42} {
		if _, err := b.Apply(idx, X); !errors.Is(err, ErrOutOfBounds) || !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("expected ErrOutOfBounds for %d, got %v", idx, err)
		}
	}
	if _, err := b.Apply(0, Empty); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for Empty player, got %v", err)
	}
}

func TestToMove(t *testing.T) {
	var b Board
	if b.ToMove() != X {
		t.Fatalf("X starts")
	}
	b[0] = X
	if b.ToMove() != O {
		t.Fatalf("O replies")
	}
	b[4] = O
	if x, o := b.Counts(); x != 1 || o != 1 {
		t.Fatalf("unexpected counts x=%d o=%d", x, o)
	}
	if b.ToMove() != X {
		t.Fatalf("X after O")
	}
}

func TestOpponent(t *testing.T) {
	if X.Opponent() != O || O.Opponent() != X || Empty.Opponent() != Empty {
		t.Fatalf("unexpected opponents")
	}
}
