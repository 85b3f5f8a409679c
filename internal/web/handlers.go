package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/proto"
)

var errUnknownMessage = errors.New("unknown message type")

type handlers struct {
	svc *app.Service
	tpl *templates
	log *slog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.log, h.tpl.board, "", boardView{
		ID:       gs.ID,
		Board:    gs.Game.Board,
		Thinking: gs.Thinking,
		Result:   gs.Game.Result(),
		Error:    errMsg,
	})
}

// describe maps a rejected interaction to a wire code and a user message.
func describe(err error) (code, msg string) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return "not_found", "Game not found"
	case errors.Is(err, app.ErrNotAPlayer):
		return "not_a_player", "You are a spectator"
	case errors.Is(err, app.ErrNotYourTurn):
		return "not_your_turn", "Not your turn"
	case errors.Is(err, domain.ErrOccupied):
		return "occupied", "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "out_of_bounds", "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "game_over", "Game is over"
	case errors.Is(err, errUnknownMessage):
		return "bad_request", "Unknown message"
	default:
		return "invalid", "Invalid move"
	}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.log, h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// ensure cookie and auto-claim the human seat
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := struct {
		ID        string
		BoardHTML template.HTML
	}{ID: gs.ID, BoardHTML: template.HTML(h.renderBoard(*gs, ""))}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.log, h.tpl.game, "base", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, ""))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_ = r.ParseForm()
	cell, err := strconv.Atoi(r.Form.Get("cell"))
	if err != nil {
		cell = -1
	}
	gs, err := h.svc.Play(id, pid, cell)
	h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Reset(id, pid)
	h.respondBoard(w, r, id, gs, err)
}

// respondBoard writes the board fragment, with an inline message when the
// interaction was rejected.
func (h *handlers) respondBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	var errMsg string
	if err != nil {
		if gs == nil {
			gs, _ = h.svc.Get(id)
		}
		_, errMsg = describe(err)
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		code, msg := describe(app.ErrNotFound)
		_ = json.NewEncoder(w).Encode(proto.NewError(code, msg))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proto.NewState(gs.ID, gs.Game, gs.Thinking))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent frames payload as one SSE event, one data line per payload line.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range bytes.Split(bytes.TrimRight(payload, "\n"), []byte("\n")) {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
