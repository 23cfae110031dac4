package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PeriodicTickerChannelCreator lets tests drive the sweeper with a fake
// clock channel.
type PeriodicTickerChannelCreator interface {
	Create(d time.Duration) <-chan time.Time
}

type TickerGen struct{}

func NewTickerGen() TickerGen { return TickerGen{} }

func (TickerGen) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

// Sweeper expires rooms that sat in Waiting longer than ttl. There is no
// per-turn timeout once a game is running; abandonment mid-game is handled by
// the leave path. A room whose creator vanished before anyone joined has no
// second client to report the departure, so the lobby reaps it instead.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	tickers  PeriodicTickerChannelCreator
	now      func() time.Time
	log      zerolog.Logger
}

func NewSweeper(store Store, ttl, interval time.Duration, tickers PeriodicTickerChannelCreator, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		tickers:  tickers,
		now:      time.Now,
		log:      log,
	}
}

// Run blocks until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) {
	ticks := sw.tickers.Create(sw.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			sw.sweep(ctx)
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	rooms, err := sw.store.ListOpenRooms(ctx)
	if err != nil {
		sw.log.Warn().Err(err).Msg("sweeper could not list open rooms")
		return
	}

	cutoff := sw.now().Add(-sw.ttl)
	for _, room := range rooms {
		if room.CreatedAt.After(cutoff) {
			continue
		}
		if _, err := sw.store.Terminate(ctx, room.RoomID, "", ReasonExpired); err != nil {
			sw.log.Warn().Err(err).Str("room_id", room.RoomID).Msg("could not expire room")
			continue
		}
		sw.log.Info().Str("room_id", room.RoomID).Msg("expired waiting room")
	}
}
