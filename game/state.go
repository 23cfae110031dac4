package game

import "time"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Phase is the single authoritative turn-state value. The whole round cycle
// hangs off this enum instead of a pile of independently mutated booleans.
type Phase int

const (
	PhaseWaitingForOpponent Phase = iota
	PhaseAwaitingFirstColor
	PhaseShowingLastMove
	PhaseAwaitingReplay
	PhaseAwaitingNewColor
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForOpponent:
		return "waiting-for-opponent"
	case PhaseAwaitingFirstColor:
		return "awaiting-first-color"
	case PhaseShowingLastMove:
		return "showing-last-move"
	case PhaseAwaitingReplay:
		return "awaiting-replay"
	case PhaseAwaitingNewColor:
		return "awaiting-new-color"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

type PlayerSlot int

const (
	NoPlayer PlayerSlot = 0
	Player1  PlayerSlot = 1
	Player2  PlayerSlot = 2
)

// Other returns the opposing slot. NoPlayer maps to NoPlayer.
func (s PlayerSlot) Other() PlayerSlot {
	switch s {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

// State is the authoritative game record for one room. There is exactly one
// per room and every mutation goes through the store's compare-and-commit
// path; clients only ever hold snapshots of it.
type State struct {
	RoomID         string     `json:"roomId"`
	Name           string     `json:"name"`
	Status         Status     `json:"status"`
	Phase          Phase      `json:"phase"`
	Palette        []string   `json:"colorPalette"`
	Sequence       []string   `json:"sequence"`
	CurrentRound   int        `json:"currentRound"`
	ReplayProgress int        `json:"replayProgress"`
	Turn           PlayerSlot `json:"currentPlayerTurn"`
	Player1ID      string     `json:"player1Id"`
	Player2ID      string     `json:"player2Id,omitempty"`
	Player1Score   int        `json:"player1Score"`
	Player2Score   int        `json:"player2Score"`
	WinnerID       string     `json:"winnerId,omitempty"`
	PlayerLeft     PlayerSlot `json:"playerLeft,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewState seeds a Waiting room. The palette is fixed for the room's
// lifetime; Player1 is always the creator.
func NewState(roomID, name, hostID string, palette []string, now time.Time) State {
	return State{
		RoomID:    roomID,
		Name:      name,
		Status:    StatusWaiting,
		Phase:     PhaseWaitingForOpponent,
		Palette:   palette,
		Sequence:  []string{},
		Turn:      Player1,
		Player1ID: hostID,
		CreatedAt: now,
	}
}

// SlotOf maps a participant id to its slot, NoPlayer for strangers.
func (s State) SlotOf(playerID string) PlayerSlot {
	switch {
	case playerID == "":
		return NoPlayer
	case playerID == s.Player1ID:
		return Player1
	case playerID == s.Player2ID:
		return Player2
	}
	return NoPlayer
}

// PlayerID is the inverse of SlotOf.
func (s State) PlayerID(slot PlayerSlot) string {
	switch slot {
	case Player1:
		return s.Player1ID
	case Player2:
		return s.Player2ID
	}
	return ""
}

func (s State) Finished() bool {
	return s.Status == StatusFinished
}

// LastToken is the most recently appended color, empty before the first move.
func (s State) LastToken() string {
	if len(s.Sequence) == 0 {
		return ""
	}
	return s.Sequence[len(s.Sequence)-1]
}

// Clone deep-copies the state so arbiter transitions never alias the
// committed sequence or palette slices.
func (s State) Clone() State {
	out := s
	out.Palette = append([]string(nil), s.Palette...)
	out.Sequence = append([]string(nil), s.Sequence...)
	return out
}
