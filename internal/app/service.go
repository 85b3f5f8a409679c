package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/engine"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = domain.ErrNotYourTurn
	ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID       string
	Game     domain.Game
	Human    string
	Thinking bool
	Created  time.Time
	Updated  time.Time
}

// subscriberBuffer is how many undelivered updates a subscriber may queue
// before it counts as slow.
const subscriberBuffer = 4

// subscriber channels are only sent on and closed with Service.mu held.
type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options configures a Service. Zero values pick the defaults: the computer
// answers inline, the minimax engine plays, slog.Default logs.
type Options struct {
	ComputerDelay time.Duration
	Engine        engine.Strategy
	Logger        *slog.Logger
	Renderer      func(GameState) []byte
}

// Service manages games and subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	turns  map[string]*computerTurn
	render func(GameState) []byte
	delay  time.Duration
	engine engine.Strategy
	log    *slog.Logger
	closed bool
}

func noRender(GameState) []byte { return nil }

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService() *Service { return NewServiceWithOptions(Options{}) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	return NewServiceWithOptions(Options{Renderer: renderer})
}

// NewServiceWithOptions creates a service from opts.
func NewServiceWithOptions(opts Options) *Service {
	if opts.Renderer == nil {
		opts.Renderer = noRender
	}
	if opts.Engine == nil {
		opts.Engine = engine.Minimax
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		turns:  make(map[string]*computerTurn),
		render: opts.Renderer,
		delay:  opts.ComputerDelay,
		engine: opts.Engine,
		log:    opts.Logger,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = noRender
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := newGameID()
	now := time.Now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	s.log.Info("game created", "game", id)
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Join seats the first player as the human (X); everyone else spectates and
// gets Empty back.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	if gs.Human == "" || gs.Human == playerID {
		gs.Human = playerID
		side = domain.Human
	}
	gs.Updated = time.Now()
	cp := *gs
	return side, &cp, nil
}

// Play applies the human's move, then runs or schedules the computer's reply
// and broadcasts every resulting state.
func (s *Service) Play(id, playerID string, idx int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if gs.Human != playerID {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if err := gs.Game.Play(domain.Human, idx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Updated = time.Now()

	if !gs.Game.Over() {
		if s.delay <= 0 {
			s.computerMoveLocked(gs)
		} else {
			s.scheduleLocked(gs)
		}
	}

	cp := *gs
	s.publishLocked(gs)
	s.mu.Unlock()
	return &cp, nil
}

// Reset starts the game over, skipping any computer turn still pending.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if gs.Human != playerID {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	s.cancelLocked(gs)
	gs.Game.Reset()
	gs.Updated = time.Now()
	s.log.Info("game reset", "game", id)

	cp := *gs
	s.publishLocked(gs)
	s.mu.Unlock()
	return &cp, nil
}

// computerMoveLocked asks the engine for O's move and commits it in one step.
func (s *Service) computerMoveLocked(gs *GameState) {
	if gs.Game.Over() || gs.Game.Turn != domain.Computer {
		return
	}
	mv, err := s.engine(gs.Game.Board)
	if err == nil {
		err = gs.Game.Play(domain.Computer, mv)
	}
	if err != nil {
		s.log.Error("computer move failed", "game", gs.ID, "err", err)
		return
	}
	gs.Updated = time.Now()
	s.log.Debug("computer moved", "game", gs.ID, "cell", mv, "status", gs.Game.Outcome.Status.String())
	if gs.Game.Over() {
		s.log.Info("game finished", "game", gs.ID, "result", gs.Game.Result())
	}
}

// publishLocked renders gs and fans it out while s.mu is held, so updates
// reach subscribers in the order the state changed. A subscriber whose
// buffer is full is closed and dropped.
func (s *Service) publishLocked(gs *GameState) {
	set := s.subs[gs.ID]
	if len(set) == 0 {
		return
	}
	payload := s.render(*gs)
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			delete(set, sub)
			sub.close()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn("dropping slow subscribers", "game", gs.ID, "count", dropped)
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. Unknown games, and a closed service, yield an
// already-closed channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	if _, ok := s.games[id]; !ok || s.closed {
		sub.close()
		return sub.ch, func() {}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}
