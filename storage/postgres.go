package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"simonduel/domain"
	"simonduel/game"
)

const stateColumns = `room_id, name, status, phase, palette, sequence,
	current_round, replay_progress, turn, player1_id,
	COALESCE(player2_id, ''), player1_score, player2_score,
	COALESCE(winner_id, ''), player_left, version, created_at`

// PostgresStore implements game.Store on a single games table. Mutations run
// inside a transaction that locks the room row, so the read-arbitrate-commit
// cycle is atomic per room; the version predicate on the UPDATE is the
// compare-and-commit guard.
type PostgresStore struct {
	pool  *pgxpool.Pool
	gen   game.Generator
	now   func() time.Time
	newID func() string
}

func NewPostgresStore(ctx context.Context, connString string, gen game.Generator) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return &PostgresStore{pool: pool, gen: gen, now: time.Now, newID: uuid.NewString}, nil
}

func (ps *PostgresStore) Close() {
	ps.pool.Close()
}

func (ps *PostgresStore) CreateRoom(ctx context.Context, name, hostID string, colorCount int) (game.State, error) {
	palette, err := game.NewPalette(colorCount)
	if err != nil {
		return game.State{}, err
	}

	state := game.NewState(ps.newID(), name, hostID, palette, ps.now())

	_, err = ps.pool.Exec(ctx,
		`INSERT INTO games (room_id, name, status, phase, palette, sequence, turn, player1_id, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		state.RoomID, state.Name, state.Status, state.Phase, state.Palette,
		state.Sequence, state.Turn, state.Player1ID, state.Version, state.CreatedAt,
	)
	if err != nil {
		return game.State{}, wrapDBErr(err)
	}
	return state, nil
}

func (ps *PostgresStore) ListOpenRooms(ctx context.Context) ([]game.State, error) {
	rows, err := ps.pool.Query(ctx,
		`SELECT `+stateColumns+` FROM games WHERE status = $1 ORDER BY created_at DESC`,
		game.StatusWaiting,
	)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	defer rows.Close()

	var open []game.State
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, wrapDBErr(err)
		}
		open = append(open, state)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(err)
	}
	return open, nil
}

func (ps *PostgresStore) GameState(ctx context.Context, roomID string) (game.State, error) {
	row := ps.pool.QueryRow(ctx,
		`SELECT `+stateColumns+` FROM games WHERE room_id = $1`, roomID)
	state, err := scanState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return game.State{}, game.ErrRoomNotFound
		}
		return game.State{}, wrapDBErr(err)
	}
	return state, nil
}

func (ps *PostgresStore) JoinRoom(ctx context.Context, roomID, playerID string) (game.State, error) {
	return ps.mutate(ctx, roomID, func(s game.State) (game.State, bool, error) {
		next, err := game.Join(s, playerID)
		if err != nil {
			return s, false, err
		}
		return next, next.Version != s.Version, nil
	})
}

func (ps *PostgresStore) ApplyMove(ctx context.Context, roomID, playerID string, m game.Move) (game.State, error) {
	return ps.mutate(ctx, roomID, func(s game.State) (game.State, bool, error) {
		slot := s.SlotOf(playerID)
		if slot == game.NoPlayer {
			return s, false, game.ErrNotParticipant
		}
		m.Player = slot

		if m.Kind == game.MoveExtend && m.Token == "" {
			token, err := ps.gen.Next(s.Palette)
			if err != nil {
				return s, false, err
			}
			m.Token = token
		}

		return game.Apply(s, m)
	})
}

func (ps *PostgresStore) Terminate(ctx context.Context, roomID, playerID string, reason game.TerminateReason) (game.State, error) {
	return ps.mutate(ctx, roomID, func(s game.State) (game.State, bool, error) {
		leaver := game.NoPlayer
		if playerID != "" {
			leaver = s.SlotOf(playerID)
			if leaver == game.NoPlayer {
				return s, false, game.ErrNotParticipant
			}
		}
		next, changed := game.Terminate(s, leaver)
		return next, changed, nil
	})
}

// mutate runs fn against the locked current state and commits the result when
// fn reports a change. The WHERE version predicate would make a lost update
// impossible even without the row lock.
func (ps *PostgresStore) mutate(ctx context.Context, roomID string, fn func(game.State) (game.State, bool, error)) (game.State, error) {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return game.State{}, wrapDBErr(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+stateColumns+` FROM games WHERE room_id = $1 FOR UPDATE`, roomID)
	current, err := scanState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return game.State{}, game.ErrRoomNotFound
		}
		return game.State{}, wrapDBErr(err)
	}

	next, changed, err := fn(current)
	if err != nil {
		return game.State{}, err
	}
	if !changed {
		return next, nil
	}

	tag, err := tx.Exec(ctx,
		`UPDATE games SET
			status = $1, phase = $2, sequence = $3, current_round = $4,
			replay_progress = $5, turn = $6, player2_id = NULLIF($7, ''),
			player1_score = $8, player2_score = $9, winner_id = NULLIF($10, ''),
			player_left = $11, version = $12
		 WHERE room_id = $13 AND version = $14`,
		next.Status, next.Phase, next.Sequence, next.CurrentRound,
		next.ReplayProgress, next.Turn, next.Player2ID,
		next.Player1Score, next.Player2Score, next.WinnerID,
		next.PlayerLeft, next.Version, roomID, current.Version,
	)
	if err != nil {
		return game.State{}, wrapDBErr(err)
	}
	if tag.RowsAffected() == 0 {
		return game.State{}, game.ErrStaleProposal
	}

	if err := tx.Commit(ctx); err != nil {
		return game.State{}, wrapDBErr(err)
	}
	return next, nil
}

func scanState(row pgx.Row) (game.State, error) {
	var s game.State
	err := row.Scan(
		&s.RoomID, &s.Name, &s.Status, &s.Phase, &s.Palette, &s.Sequence,
		&s.CurrentRound, &s.ReplayProgress, &s.Turn, &s.Player1ID,
		&s.Player2ID, &s.Player1Score, &s.Player2Score,
		&s.WinnerID, &s.PlayerLeft, &s.Version, &s.CreatedAt,
	)
	return s, err
}

func wrapDBErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
}
