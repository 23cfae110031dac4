// Package storage provides the two game.Store implementations: an in-memory
// one for tests and single-node development, and the postgres one used in
// production.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"simonduel/game"
)

type memoryEntry struct {
	mu    sync.Mutex
	state game.State
}

// MemoryStore keeps every room behind its own mutex so the read-arbitrate-
// commit cycle is atomic per room without serializing unrelated rooms.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*memoryEntry
	gen   game.Generator
	now   func() time.Time
	newID func() string
}

func NewMemoryStore(gen game.Generator) *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*memoryEntry),
		gen:   gen,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (ms *MemoryStore) CreateRoom(ctx context.Context, name, hostID string, colorCount int) (game.State, error) {
	palette, err := game.NewPalette(colorCount)
	if err != nil {
		return game.State{}, err
	}

	state := game.NewState(ms.newID(), name, hostID, palette, ms.now())

	ms.mu.Lock()
	ms.rooms[state.RoomID] = &memoryEntry{state: state}
	ms.mu.Unlock()

	return state.Clone(), nil
}

func (ms *MemoryStore) ListOpenRooms(ctx context.Context) ([]game.State, error) {
	ms.mu.RLock()
	entries := make([]*memoryEntry, 0, len(ms.rooms))
	for _, e := range ms.rooms {
		entries = append(entries, e)
	}
	ms.mu.RUnlock()

	open := make([]game.State, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if e.state.Status == game.StatusWaiting {
			open = append(open, e.state.Clone())
		}
		e.mu.Unlock()
	}
	return open, nil
}

func (ms *MemoryStore) JoinRoom(ctx context.Context, roomID, playerID string) (game.State, error) {
	entry, err := ms.entry(roomID)
	if err != nil {
		return game.State{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next, err := game.Join(entry.state, playerID)
	if err != nil {
		return game.State{}, err
	}
	entry.state = next
	return next.Clone(), nil
}

func (ms *MemoryStore) GameState(ctx context.Context, roomID string) (game.State, error) {
	entry, err := ms.entry(roomID)
	if err != nil {
		return game.State{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state.Clone(), nil
}

func (ms *MemoryStore) ApplyMove(ctx context.Context, roomID, playerID string, m game.Move) (game.State, error) {
	entry, err := ms.entry(roomID)
	if err != nil {
		return game.State{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	slot := entry.state.SlotOf(playerID)
	if slot == game.NoPlayer {
		return game.State{}, game.ErrNotParticipant
	}
	m.Player = slot

	// An empty extend token means "draw one for me".
	if m.Kind == game.MoveExtend && m.Token == "" {
		m.Token, err = ms.gen.Next(entry.state.Palette)
		if err != nil {
			return game.State{}, err
		}
	}

	next, changed, err := game.Apply(entry.state, m)
	if err != nil {
		return game.State{}, err
	}
	if changed {
		entry.state = next
	}
	return next.Clone(), nil
}

func (ms *MemoryStore) Terminate(ctx context.Context, roomID, playerID string, reason game.TerminateReason) (game.State, error) {
	entry, err := ms.entry(roomID)
	if err != nil {
		return game.State{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	leaver := game.NoPlayer
	if playerID != "" {
		leaver = entry.state.SlotOf(playerID)
		if leaver == game.NoPlayer {
			return game.State{}, game.ErrNotParticipant
		}
	}

	next, changed := game.Terminate(entry.state, leaver)
	if changed {
		entry.state = next
	}
	return next.Clone(), nil
}

func (ms *MemoryStore) entry(roomID string) (*memoryEntry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	entry, ok := ms.rooms[roomID]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return entry, nil
}
