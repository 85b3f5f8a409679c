package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service) http.Handler { return NewServerWithLogger(s, slog.Default()) }

// NewServerWithLogger is NewServer with an explicit request logger. It also
// points the service's broadcast renderer at the board fragment so SSE
// subscribers receive ready-to-swap HTML.
func NewServerWithLogger(s *app.Service, log *slog.Logger) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), log: log}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/reset", h.reset)
		r.Get("/state", h.state)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	return r
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
