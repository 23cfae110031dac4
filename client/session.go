package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"simonduel/game"
)

// Client is the transport the sync loop and session run on.
type Client interface {
	FetchState(ctx context.Context, roomID string) (game.State, error)
	ProposeMove(ctx context.Context, roomID string, m game.Move) (game.State, error)
	NotifyLeave(ctx context.Context, roomID string) (game.State, error)
}

// Session is the per-game context object: who we are, which room we are in,
// and the one-shot leave guard. The guard is an explicit field here rather
// than ambient state so a session can be constructed, inspected and thrown
// away in tests.
type Session struct {
	RoomID   string
	PlayerID string

	api Client
	log zerolog.Logger

	mu            sync.Mutex
	leaveNotified bool
}

func NewSession(api Client, roomID, playerID string, log zerolog.Logger) *Session {
	return &Session{
		RoomID:   roomID,
		PlayerID: playerID,
		api:      api,
		log:      log,
	}
}

// Propose submits one move for this session's player.
func (s *Session) Propose(ctx context.Context, m game.Move) (game.State, error) {
	return s.api.ProposeMove(ctx, s.RoomID, m)
}

// Fetch reads the current authoritative snapshot outside the poll cadence,
// for callers that need the full state (the loop itself only hands out views).
func (s *Session) Fetch(ctx context.Context) (game.State, error) {
	return s.api.FetchState(ctx, s.RoomID)
}

// Leave is the disconnect sentinel: hook it to whatever "the player is gone"
// signal the host environment provides. It notifies the server at most once
// per session no matter how many exit paths fire it.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	if s.leaveNotified {
		s.mu.Unlock()
		return nil
	}
	s.leaveNotified = true
	s.mu.Unlock()

	if _, err := s.api.NotifyLeave(ctx, s.RoomID); err != nil {
		s.log.Warn().Err(err).Str("room_id", s.RoomID).Msg("leave notification failed")
		return err
	}
	s.log.Info().Str("room_id", s.RoomID).Msg("left room")
	return nil
}

// LeaveNotified reports whether the sentinel already fired.
func (s *Session) LeaveNotified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaveNotified
}
