package game

import "context"

// Store owns the authoritative State per room. ApplyMove and Terminate must
// be atomic per room: read, arbitrate, commit as one unit, so two racing
// clients can never both win the same round.
type Store interface {
	CreateRoom(ctx context.Context, name, hostID string, colorCount int) (State, error)
	// ListOpenRooms returns every room still waiting for a second player.
	ListOpenRooms(ctx context.Context) ([]State, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (State, error)
	// GameState reads the current snapshot.
	GameState(ctx context.Context, roomID string) (State, error)
	// ApplyMove derives the caller's slot from playerID, runs the arbiter and
	// commits the result. Idempotent duplicates return the unchanged state.
	ApplyMove(ctx context.Context, roomID, playerID string, m Move) (State, error)
	// Terminate drives the room to Finished. Repeated calls return the same
	// terminal state without reassigning the winner.
	Terminate(ctx context.Context, roomID, playerID string, reason TerminateReason) (State, error)
}
