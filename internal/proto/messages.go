package proto

import "github.com/jaminalder/minimax-tic-tac-toe/internal/domain"

// Message types.
const (
	TypeMove  = "move"
	TypeReset = "reset"
	TypeState = "state"
	TypeError = "error"
)

// ---- Client -> Server ----
type ClientMsg struct {
	Type string `json:"type"`           // "move" | "reset"
	Cell *int   `json:"cell,omitempty"` // for "move"
}

// ---- Server -> Client ----
type State struct {
	Type     string    `json:"type"` // "state"
	ID       string    `json:"id"`
	Board    [9]string `json:"board"`
	Turn     string    `json:"turn"`
	Status   string    `json:"status"`
	Winner   string    `json:"winner,omitempty"`
	Result   string    `json:"result,omitempty"`
	Moves    int       `json:"moves"`
	Thinking bool      `json:"thinking"`
}

type Error struct {
	Type   string `json:"type"` // "error"
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// NewState converts a game to its wire form.
func NewState(id string, g domain.Game, thinking bool) State {
	st := State{
		Type:     TypeState,
		ID:       id,
		Turn:     g.Turn.String(),
		Status:   g.Outcome.Status.String(),
		Winner:   g.Outcome.Winner.String(),
		Result:   g.Result(),
		Moves:    g.Moves,
		Thinking: thinking,
	}
	for i, c := range g.Board {
		st.Board[i] = c.String()
	}
	return st
}

func NewError(code, detail string) Error {
	return Error{Type: TypeError, Code: code, Detail: detail}
}
