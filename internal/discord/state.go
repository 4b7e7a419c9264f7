package discord

import (
	"sync"
	"time"
)

// Multi-step commands (/addgoal waiting for a deadline, /addmany waiting
// for the goal lines) park the conversation in a pending state keyed by
// user. The state lives in process memory only: it buffers a short input
// sequence and is fine to lose on restart.
type convState int

const (
	stateIdle convState = iota
	stateAwaitingDeadline
	stateAwaitingGoals
)

// A pending state older than this is treated as Idle, so a forgotten
// half-finished command doesn't swallow an unrelated message days later.
const pendingTTL = 10 * time.Minute

type pending struct {
	state convState
	draft string // goal text awaiting its deadline
	setAt time.Time
}

type stateMap struct {
	mu sync.Mutex
	m  map[string]pending
}

func newStateMap() *stateMap {
	return &stateMap{m: make(map[string]pending)}
}

func (s *stateMap) get(chatID string, now time.Time) pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[chatID]
	if !ok {
		return pending{state: stateIdle}
	}
	if now.Sub(p.setAt) > pendingTTL {
		delete(s.m, chatID)
		return pending{state: stateIdle}
	}
	return p
}

func (s *stateMap) set(chatID string, state convState, draft string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = pending{state: state, draft: draft, setAt: now}
}

func (s *stateMap) clear(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}
