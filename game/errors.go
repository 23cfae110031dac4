package game

import "errors"

var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrRoomFull       = errors.New("room-full")
	ErrRoomClosed     = errors.New("room-closed")
	ErrNotParticipant = errors.New("not-a-participant")

	// ErrStaleProposal means the move targeted a round or replay position the
	// authoritative state has already advanced past. Clients resolve it by
	// re-fetching; it is never fatal.
	ErrStaleProposal = errors.New("stale-proposal")

	ErrNotYourTurn  = errors.New("not-your-turn")
	ErrIllegalMove  = errors.New("illegal-move")
	ErrUnknownColor = errors.New("unknown-color")
)
