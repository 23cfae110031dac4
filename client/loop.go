package client

import (
	"context"
	"time"

	"simonduel/game"
)

// PeriodicTickerChannelCreator is the loop's clock source; tests feed it a
// hand-driven channel.
type PeriodicTickerChannelCreator interface {
	Create(d time.Duration) <-chan time.Time
}

type TickerGen struct{}

func NewTickerGen() TickerGen { return TickerGen{} }

func (TickerGen) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

// Result is surfaced exactly once, when the loop first observes Finished.
type Result struct {
	State    game.State
	WinnerID string
	Won      bool
	Draw     bool
}

type LoopConfig struct {
	// WaitingInterval is the poll period while the room has no second
	// player; it is tighter so the creator notices the join quickly.
	WaitingInterval time.Duration
	// PlayingInterval is the steady-state poll period once the game runs.
	PlayingInterval time.Duration
	// FailureThreshold is how many consecutive failed fetches it takes
	// before the view flips to Reconnecting. Individual failures are
	// retried silently on the next tick.
	FailureThreshold int
}

// Loop polls the authoritative state and pushes freshly derived views to the
// UI. It proposes nothing on its own; moves go through the Session. Local
// state never feeds back into the view: every callback carries a view
// computed only from the latest fetched snapshot.
type Loop struct {
	session  *Session
	cfg      LoopConfig
	tickers  PeriodicTickerChannelCreator
	onView   func(View)
	onResult func(Result)
}

func NewLoop(session *Session, cfg LoopConfig, tickers PeriodicTickerChannelCreator, onView func(View), onResult func(Result)) *Loop {
	return &Loop{
		session:  session,
		cfg:      cfg,
		tickers:  tickers,
		onView:   onView,
		onResult: onResult,
	}
}

// Run polls until the game finishes or ctx is cancelled. It fetches once
// immediately so the UI is not blank for a full tick.
func (l *Loop) Run(ctx context.Context) error {
	var (
		lastStatus   game.Status
		failures     int
		lastView     View
		haveSnapshot bool
	)

	step := func() (done bool) {
		state, err := l.session.api.FetchState(ctx, l.session.RoomID)
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			failures++
			l.session.log.Debug().Err(err).Int("failures", failures).Msg("poll failed")
			if failures >= l.cfg.FailureThreshold && haveSnapshot {
				reconnecting := lastView
				reconnecting.Reconnecting = true
				l.onView(reconnecting)
			}
			return false
		}

		failures = 0
		lastView = Compute(state, l.session.PlayerID)
		haveSnapshot = true
		lastStatus = state.Status
		l.onView(lastView)

		if state.Finished() {
			l.onResult(Result{
				State:    state,
				WinnerID: state.WinnerID,
				Won:      state.WinnerID != "" && state.WinnerID == l.session.PlayerID,
				Draw:     state.WinnerID == "",
			})
			return true
		}
		return false
	}

	if step() {
		return ctx.Err()
	}

	interval := l.intervalFor(lastStatus)
	ticks := l.tickers.Create(interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			if step() {
				return ctx.Err()
			}
			// The waiting room phase polls faster; once the opponent is in,
			// fall back to the steady-state interval.
			if next := l.intervalFor(lastStatus); next != interval {
				interval = next
				ticks = l.tickers.Create(interval)
			}
		}
	}
}

func (l *Loop) intervalFor(status game.Status) time.Duration {
	if status == game.StatusWaiting {
		return l.cfg.WaitingInterval
	}
	return l.cfg.PlayingInterval
}
