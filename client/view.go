// Package client implements the polling half of the game: a sync loop that
// converges on the server's authoritative state, the pure view derivation,
// and the one-shot disconnect sentinel.
package client

import "simonduel/game"

// View is everything the UI needs, derived from one authoritative snapshot.
// Nothing in here survives a poll: the next snapshot recomputes all of it,
// which is what keeps the two clients convergent without coordinating.
type View struct {
	Me                 game.PlayerSlot
	Status             game.Status
	Phase              game.Phase
	OpponentJoined     bool
	MyTurn             bool
	ShowReveal         bool
	RevealedToken      string
	NextReplayPosition int
	Round              int
	MyScore            int
	OpponentScore      int
	GameOver           bool
	Won                bool
	Lost               bool
	Draw               bool
	OpponentLeft       bool
	Reconnecting       bool
}

// Compute derives the view for playerID from a snapshot. It is a pure
// function; callers must never patch the result and carry it across polls.
func Compute(s game.State, playerID string) View {
	me := s.SlotOf(playerID)
	v := View{
		Me:             me,
		Status:         s.Status,
		Phase:          s.Phase,
		OpponentJoined: s.Player2ID != "",
		Round:          s.CurrentRound,
	}

	switch me {
	case game.Player1:
		v.MyScore, v.OpponentScore = s.Player1Score, s.Player2Score
	case game.Player2:
		v.MyScore, v.OpponentScore = s.Player2Score, s.Player1Score
	}

	if s.Finished() {
		v.GameOver = true
		v.Draw = s.WinnerID == ""
		v.Won = s.WinnerID != "" && s.WinnerID == playerID
		v.Lost = s.WinnerID != "" && s.WinnerID != playerID && me != game.NoPlayer
		v.OpponentLeft = s.PlayerLeft != game.NoPlayer && s.PlayerLeft != me
		return v
	}

	v.MyTurn = me != game.NoPlayer && me == s.Turn

	if v.MyTurn {
		switch s.Phase {
		case game.PhaseShowingLastMove:
			v.ShowReveal = true
			v.RevealedToken = s.LastToken()
		case game.PhaseAwaitingReplay:
			v.NextReplayPosition = s.ReplayProgress
		}
	}

	return v
}
