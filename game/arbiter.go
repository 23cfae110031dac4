package game

import "fmt"

type MoveKind int

const (
	// MoveAckReveal acknowledges the opponent's newly revealed color and
	// moves the active player into the replay phase.
	MoveAckReveal MoveKind = iota
	// MoveReplay submits one token of the memorized sequence.
	MoveReplay
	// MoveExtend appends the round's new color (also used for the creator's
	// very first color).
	MoveExtend
)

// Move is one client proposal. Position carries the replay index a MoveReplay
// targets; Round carries the round a MoveExtend believed it was extending.
// Both act as the client's optimistic-concurrency claim: when they no longer
// match the authoritative state the proposal is stale.
type Move struct {
	Kind     MoveKind
	Player   PlayerSlot
	Token    string
	Position int
	Round    int
}

type TerminateReason string

const (
	ReasonLeft      TerminateReason = "left"
	ReasonCancelled TerminateReason = "cancelled"
	ReasonExpired   TerminateReason = "expired"
)

// Apply validates one move against the authoritative state and returns the
// next state. The boolean reports whether the state actually changed, so the
// store can skip the write for idempotent duplicates. Apply is pure: it never
// mutates its input and has no side effects.
//
// An incorrect replay is not an error. It is the regular path into the
// Finished state with the opponent as winner.
func Apply(s State, m Move) (State, bool, error) {
	if m.Player != Player1 && m.Player != Player2 {
		return s, false, ErrNotParticipant
	}

	switch s.Phase {
	case PhaseFinished:
		return s, false, ErrStaleProposal
	case PhaseWaitingForOpponent:
		return s, false, fmt.Errorf("%w: game has not started", ErrIllegalMove)
	}

	if m.Player != s.Turn {
		if isDuplicateOfCommitted(s, m) {
			return s, false, nil
		}
		return s, false, ErrNotYourTurn
	}

	switch s.Phase {
	case PhaseAwaitingFirstColor:
		return applyFirstColor(s, m)
	case PhaseShowingLastMove:
		return applyAckReveal(s, m)
	case PhaseAwaitingReplay:
		return applyReplay(s, m)
	case PhaseAwaitingNewColor:
		return applyExtend(s, m)
	}
	return s, false, fmt.Errorf("%w: unhandled phase %v", ErrIllegalMove, s.Phase)
}

// isDuplicateOfCommitted recognizes retries of moves that were already
// accepted before the turn flipped, so racing resubmissions resolve as silent
// no-ops instead of errors.
func isDuplicateOfCommitted(s State, m Move) bool {
	switch m.Kind {
	case MoveExtend:
		// The previous mover re-sending the extend that ended their round.
		return m.Round == s.CurrentRound-1 &&
			m.Token == s.LastToken() &&
			m.Player == s.Turn.Other()
	case MoveReplay:
		// A replay token that already matched an earlier position.
		return m.Position >= 0 && m.Position < len(s.Sequence) && s.Sequence[m.Position] == m.Token
	}
	return false
}

func applyFirstColor(s State, m Move) (State, bool, error) {
	if m.Kind != MoveExtend {
		return s, false, fmt.Errorf("%w: expected the first color", ErrIllegalMove)
	}
	if m.Round != 0 {
		return s, false, ErrStaleProposal
	}
	if !InPalette(s.Palette, m.Token) {
		return s, false, fmt.Errorf("%w: %q", ErrUnknownColor, m.Token)
	}

	out := s.Clone()
	out.Sequence = append(out.Sequence, m.Token)
	out.CurrentRound = 1
	out.Turn = Player2
	out.Phase = PhaseShowingLastMove
	out.ReplayProgress = 0
	out.Version++
	return out, true, nil
}

func applyAckReveal(s State, m Move) (State, bool, error) {
	switch m.Kind {
	case MoveAckReveal:
		out := s.Clone()
		out.Phase = PhaseAwaitingReplay
		out.ReplayProgress = 0
		out.Version++
		return out, true, nil
	case MoveExtend:
		if isDuplicateOfCommitted(s, m) {
			return s, false, nil
		}
		return s, false, ErrStaleProposal
	}
	return s, false, fmt.Errorf("%w: reveal must be acknowledged first", ErrIllegalMove)
}

func applyReplay(s State, m Move) (State, bool, error) {
	switch m.Kind {
	case MoveAckReveal:
		// Duplicate ack, harmless.
		return s, false, nil
	case MoveExtend:
		return s, false, fmt.Errorf("%w: replay is not complete", ErrIllegalMove)
	}

	if m.Position < 0 {
		return s, false, ErrStaleProposal
	}
	if m.Position < s.ReplayProgress {
		if s.Sequence[m.Position] == m.Token {
			return s, false, nil
		}
		return s, false, ErrStaleProposal
	}
	if m.Position != s.ReplayProgress {
		return s, false, ErrStaleProposal
	}

	out := s.Clone()
	if m.Token != s.Sequence[m.Position] {
		out.Status = StatusFinished
		out.Phase = PhaseFinished
		out.WinnerID = s.PlayerID(m.Player.Other())
		out.Version++
		return out, true, nil
	}

	out.ReplayProgress++
	if out.ReplayProgress == len(out.Sequence) {
		out.Phase = PhaseAwaitingNewColor
	}
	out.Version++
	return out, true, nil
}

func applyExtend(s State, m Move) (State, bool, error) {
	switch m.Kind {
	case MoveAckReveal:
		return s, false, nil
	case MoveReplay:
		if isDuplicateOfCommitted(s, m) {
			return s, false, nil
		}
		return s, false, ErrStaleProposal
	}

	if m.Round != s.CurrentRound {
		return s, false, ErrStaleProposal
	}
	if !InPalette(s.Palette, m.Token) {
		return s, false, fmt.Errorf("%w: %q", ErrUnknownColor, m.Token)
	}

	out := s.Clone()
	out.Sequence = append(out.Sequence, m.Token)
	out.CurrentRound++
	switch m.Player {
	case Player1:
		out.Player1Score++
	case Player2:
		out.Player2Score++
	}
	out.Turn = m.Player.Other()
	out.Phase = PhaseShowingLastMove
	out.ReplayProgress = 0
	out.Version++
	return out, true, nil
}

// Join admits the second participant. It is idempotent for the participant
// that already holds the seat.
func Join(s State, joinerID string) (State, error) {
	if s.Finished() {
		return s, ErrRoomClosed
	}
	if joinerID == s.Player1ID {
		return s, fmt.Errorf("%w: cannot join your own room", ErrIllegalMove)
	}
	if s.Player2ID == joinerID {
		return s, nil
	}
	if s.Player2ID != "" {
		return s, ErrRoomFull
	}

	out := s.Clone()
	out.Player2ID = joinerID
	out.Status = StatusPlaying
	out.Phase = PhaseAwaitingFirstColor
	out.Turn = Player1
	out.Version++
	return out, nil
}

// Terminate resolves abnormal endings: cancellation of a Waiting room, a
// voluntary leave mid-game, or lobby expiry (leaver == NoPlayer). Calling it
// on an already finished state is a no-op, which is what makes the
// disconnect path safe to fire from racing clients.
func Terminate(s State, leaver PlayerSlot) (State, bool) {
	if s.Finished() {
		return s, false
	}

	out := s.Clone()
	out.Status = StatusFinished
	out.Phase = PhaseFinished
	out.PlayerLeft = leaver
	if s.Status == StatusPlaying && leaver != NoPlayer {
		out.WinnerID = s.PlayerID(leaver.Other())
	}
	out.Version++
	return out, true
}
