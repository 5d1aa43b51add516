package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type ListRepo struct {
	pool *pgxpool.Pool
}

func NewListRepo(pool *pgxpool.Pool) *ListRepo {
	return &ListRepo{pool: pool}
}

func (r *ListRepo) Create(ctx context.Context, l *domain.List, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "listRepo.Create", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO lists (id, board_id, title, position, archived, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.BoardID, l.Title, l.Position, l.Archived, l.CreatedAt, l.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return applyPositions(ctx, tx, "lists", writes)
	})
}

func (r *ListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var l domain.List

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, title, position, archived, created_at, updated_at
		 FROM lists WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.Archived, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("listRepo.GetByID: %w", err)
	}

	return &l, nil
}

func (r *ListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, title, position, archived, created_at, updated_at
		 FROM lists WHERE board_id = $1 AND NOT archived
		 ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		var l domain.List

		err = rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.Archived, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("listRepo.ListByBoard: scan: %w", err)
		}
		lists = append(lists, &l)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listRepo.ListByBoard: rows: %w", err)
	}

	return lists, nil
}

func (r *ListRepo) Update(ctx context.Context, l *domain.List) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE lists SET title = $1, updated_at = $2 WHERE id = $3`,
		l.Title, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ListRepo) UpdatePositions(ctx context.Context, writes []domain.PositionWrite) error {
	if len(writes) == 0 {
		return nil
	}

	return inTx(ctx, r.pool, "listRepo.UpdatePositions", func(tx pgx.Tx) error {
		return applyPositions(ctx, tx, "lists", writes)
	})
}

func (r *ListRepo) Archive(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "listRepo.Archive", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE lists SET archived = true, updated_at = now() WHERE id = $1 AND NOT archived`,
			id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return applyPositions(ctx, tx, "lists", writes)
	})
}

func (r *ListRepo) Delete(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "listRepo.Delete", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE list_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return applyPositions(ctx, tx, "lists", writes)
	})
}

func (r *ListRepo) CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	var count int

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM lists WHERE board_id = $1 AND NOT archived`,
		boardID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("listRepo.CountByBoard: %w", err)
	}

	return count, nil
}
