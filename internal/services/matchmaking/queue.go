package matchmaking

import (
	"sync"

	"github.com/ftpong/pong-server/internal/model"
)

// Queue holds players waiting for an opponent, one strict-FIFO list per
// game mode. All operations are safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	waiting map[model.GameMode][]model.Player
	limit   int
}

// NewQueue creates a Queue. limit caps the number of waiting players per
// mode; 0 means unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{
		waiting: make(map[model.GameMode][]model.Player),
		limit:   limit,
	}
}

// Enqueue appends a player to the tail of its mode's queue. A player ID that
// is already waiting in any mode is rejected.
func (q *Queue) Enqueue(player model.Player, mode model.GameMode) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.containsLocked(player.ID) {
		return model.ErrAlreadyQueued
	}
	if q.limit > 0 && len(q.waiting[mode]) >= q.limit {
		return model.ErrQueueFull
	}

	q.waiting[mode] = append(q.waiting[mode], player)
	return nil
}

// DequeueHead removes and returns the front of a mode's queue
func (q *Queue) DequeueHead(mode model.GameMode) (model.Player, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	list := q.waiting[mode]
	if len(list) == 0 {
		return model.Player{}, false
	}

	head := list[0]
	q.waiting[mode] = list[1:]
	return head, true
}

// Remove deletes a player from whichever mode's queue holds it. Used when a
// waiting player disconnects before being paired. No-op if absent.
func (q *Queue) Remove(id model.PlayerID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for mode, list := range q.waiting {
		for i, p := range list {
			if p.ID == id {
				q.waiting[mode] = append(list[:i], list[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Contains reports whether a player is waiting in any mode
func (q *Queue) Contains(id model.PlayerID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.containsLocked(id)
}

// Len returns the number of players waiting in a mode
func (q *Queue) Len(mode model.GameMode) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting[mode])
}

func (q *Queue) containsLocked(id model.PlayerID) bool {
	for _, list := range q.waiting {
		for _, p := range list {
			if p.ID == id {
				return true
			}
		}
	}
	return false
}
