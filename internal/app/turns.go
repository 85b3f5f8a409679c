package app

import "time"

// computerTurn is a deferred computer move. It only runs while it is still
// the registered turn for its game; cancelling it skips the move entirely.
type computerTurn struct {
	timer *time.Timer
}

// scheduleLocked defers the computer's reply by the configured delay.
func (s *Service) scheduleLocked(gs *GameState) {
	s.cancelLocked(gs)
	id := gs.ID
	turn := &computerTurn{}
	turn.timer = time.AfterFunc(s.delay, func() { s.runTurn(id, turn) })
	s.turns[id] = turn
	gs.Thinking = true
}

// cancelLocked drops the pending turn for gs, if any.
func (s *Service) cancelLocked(gs *GameState) {
	if turn, ok := s.turns[gs.ID]; ok {
		turn.timer.Stop()
		delete(s.turns, gs.ID)
	}
	gs.Thinking = false
}

func (s *Service) runTurn(id string, turn *computerTurn) {
	s.mu.Lock()
	if s.turns[id] != turn {
		// reset or superseded while the timer was firing
		s.mu.Unlock()
		return
	}
	delete(s.turns, id)
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	gs.Thinking = false
	s.computerMoveLocked(gs)
	s.publishLocked(gs)
	s.mu.Unlock()
}

// Close stops every pending computer turn and closes every subscriber
// channel so streaming handlers return. Games stay readable.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, set := range s.subs {
		for sub := range set {
			sub.close()
		}
		delete(s.subs, id)
	}
	for id, turn := range s.turns {
		turn.timer.Stop()
		delete(s.turns, id)
		if gs, ok := s.games[id]; ok {
			gs.Thinking = false
		}
	}
}
