// Command player is a headless client: it opens a guest session, creates or
// joins a room, then runs the polling sync loop and plays its turns
// automatically. Two of these against one server exercise the full
// turn-synchronization path end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"simonduel/client"
	"simonduel/game"
)

func main() {
	var (
		serverURL  = flag.String("server", "http://localhost:5000", "server base URL")
		username   = flag.String("username", "bot_player", "guest username")
		roomID     = flag.String("join", "", "room id to join; empty means create a room")
		roomName   = flag.String("name", "bot match", "room name when creating")
		colorCount = flag.Int("colors", 4, "palette size when creating")
		throwAfter = flag.Int("throw-after", 0, "deliberately misplay after this many rounds (0 = never)")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("username", *username).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	identity, err := client.OpenGuestSession(ctx, *serverURL, *username)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open session")
	}
	api := client.NewHTTPClient(*serverURL, identity.Token, nil)

	room := *roomID
	if room == "" {
		state, err := api.CreateRoom(ctx, *roomName, *colorCount)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create room")
		}
		room = state.RoomID
		log.Info().Str("room_id", room).Msg("room created, waiting for an opponent")
	} else {
		if _, err := api.JoinRoom(ctx, room); err != nil {
			log.Fatal().Err(err).Msg("could not join room")
		}
		log.Info().Str("room_id", room).Msg("joined room")
	}

	session := client.NewSession(api, room, identity.PlayerID, log)
	defer session.Leave(context.Background())

	bot := &autoPlayer{session: session, throwAfter: *throwAfter, log: log}

	loop := client.NewLoop(session, client.LoopConfig{
		WaitingInterval:  time.Second,
		PlayingInterval:  2 * time.Second,
		FailureThreshold: 3,
	}, client.NewTickerGen(), bot.onView, bot.onResult)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("sync loop failed")
	}
}

type autoPlayer struct {
	session    *client.Session
	throwAfter int
	log        zerolog.Logger
}

// onView plays out a whole turn whenever the view says it is ours. Each
// proposal returns the committed state, so the turn can be driven off the
// returned snapshots without waiting for the next poll.
func (a *autoPlayer) onView(v client.View) {
	if v.Reconnecting {
		a.log.Warn().Msg("reconnecting...")
		return
	}
	if !v.MyTurn || v.GameOver {
		return
	}

	ctx := context.Background()
	state, err := a.session.Fetch(ctx)
	if err != nil {
		return
	}

	if state.Phase == game.PhaseAwaitingFirstColor {
		if _, err := a.session.Propose(ctx, game.Move{Kind: game.MoveExtend, Round: 0}); err != nil {
			a.logMoveErr(err)
		}
		return
	}

	if state.Phase == game.PhaseShowingLastMove {
		state, err = a.session.Propose(ctx, game.Move{Kind: game.MoveAckReveal})
		if err != nil {
			a.logMoveErr(err)
			return
		}
	}

	for state.Phase == game.PhaseAwaitingReplay {
		token := state.Sequence[state.ReplayProgress]
		if a.throwAfter > 0 && state.CurrentRound > a.throwAfter {
			token = wrongToken(state.Palette, token)
		}
		state, err = a.session.Propose(ctx, game.Move{
			Kind:     game.MoveReplay,
			Token:    token,
			Position: state.ReplayProgress,
		})
		if err != nil {
			a.logMoveErr(err)
			return
		}
		if state.Finished() {
			return
		}
	}

	if state.Phase == game.PhaseAwaitingNewColor {
		// Empty token lets the server draw from the palette.
		if _, err := a.session.Propose(ctx, game.Move{Kind: game.MoveExtend, Round: state.CurrentRound}); err != nil {
			a.logMoveErr(err)
		}
	}
}

func (a *autoPlayer) onResult(r client.Result) {
	switch {
	case r.Draw:
		a.log.Info().Msg("game over: no winner")
	case r.Won:
		a.log.Info().Int("rounds", r.State.CurrentRound).Msg("game over: won")
	default:
		a.log.Info().Int("rounds", r.State.CurrentRound).Msg("game over: lost")
	}
}

func (a *autoPlayer) logMoveErr(err error) {
	// Stale and turn rejections just mean the other client got there first;
	// the next poll reconciles.
	if errors.Is(err, game.ErrStaleProposal) || errors.Is(err, game.ErrNotYourTurn) {
		return
	}
	a.log.Warn().Err(err).Msg("move rejected")
}

func wrongToken(palette []string, right string) string {
	for _, c := range palette {
		if c != right {
			return c
		}
	}
	return right
}
