// Package postgres implements the domain repositories on a pgx connection
// pool. Position compaction writes always ride the same transaction as the
// row change that caused them, so a crash can never leave a gap in an
// ordering sequence.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type Store struct {
	pool   *pgxpool.Pool
	users  *UserRepo
	boards *BoardRepo
	lists  *ListRepo
	cards  *CardRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:   pool,
		users:  NewUserRepo(pool),
		boards: NewBoardRepo(pool),
		lists:  NewListRepo(pool),
		cards:  NewCardRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository   { return s.users }
func (s *Store) Boards() domain.BoardRepository { return s.boards }
func (s *Store) Lists() domain.ListRepository   { return s.lists }
func (s *Store) Cards() domain.CardRepository   { return s.cards }

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// applyPositions batches the compaction writes onto tx. The table name is
// repo-owned, never caller input.
func applyPositions(ctx context.Context, tx pgx.Tx, table string, writes []domain.PositionWrite) error {
	if len(writes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, w := range writes {
		batch.Queue(`UPDATE `+table+` SET position = $1 WHERE id = $2`, w.Position, w.ID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range writes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("applyPositions: %w", err)
		}
	}

	return nil
}

// inTx runs fn inside a transaction, rolling back on error.
func inTx(ctx context.Context, pool *pgxpool.Pool, caller string, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", caller, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", caller, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", caller, err)
	}

	return nil
}
