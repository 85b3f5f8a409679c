package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/proto"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// ws serves a JSON WebSocket: a state push on connect and after every change,
// moves and resets read from the client, rejections answered with an error.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	if _, _, err := h.svc.Join(id, pid); err != nil {
		http.NotFound(w, r)
		return
	}
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn("websocket accept", "game", id, "err", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	updates, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	if err := h.pushState(ctx, c, id); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			var msg proto.ClientMsg
			if err := wsjson.Read(ctx, c, &msg); err != nil {
				return
			}
			if err := h.handleClientMsg(id, pid, msg); err != nil {
				code, detail := describe(err)
				if err := wsjson.Write(ctx, c, proto.NewError(code, detail)); err != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case _, ok := <-updates:
			if !ok {
				// dropped as slow, or the service is shutting down
				c.Close(websocket.StatusTryAgainLater, "updates closed")
				return
			}
			if err := h.pushState(ctx, c, id); err != nil {
				return
			}
		}
	}
}

func (h *handlers) pushState(ctx context.Context, c *websocket.Conn, id string) error {
	gs, ok := h.svc.Get(id)
	if !ok {
		return wsjson.Write(ctx, c, proto.NewError(describe(app.ErrNotFound)))
	}
	return wsjson.Write(ctx, c, proto.NewState(gs.ID, gs.Game, gs.Thinking))
}

func (h *handlers) handleClientMsg(id, pid string, msg proto.ClientMsg) error {
	switch msg.Type {
	case proto.TypeMove:
		if msg.Cell == nil {
			return domain.ErrOutOfBounds
		}
		_, err := h.svc.Play(id, pid, *msg.Cell)
		return err
	case proto.TypeReset:
		_, err := h.svc.Reset(id, pid)
		return err
	default:
		return errUnknownMessage
	}
}
