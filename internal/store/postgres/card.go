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

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

const cardColumns = `id, list_id, board_id, title, description, labels, position,
	assignee_id, due_at, archived, created_at, updated_at`

func (r *CardRepo) Create(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "cardRepo.Create", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO cards (id, list_id, board_id, title, description, labels, position,
			                    assignee_id, due_at, archived, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			c.ID, c.ListID, c.BoardID, c.Title, c.Description, c.Labels, c.Position,
			c.AssigneeID, c.DueAt, c.Archived, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return applyPositions(ctx, tx, "cards", writes)
	})
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var c domain.Card

	err := r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.ListID, &c.BoardID, &c.Title, &c.Description, &c.Labels, &c.Position,
		&c.AssigneeID, &c.DueAt, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CardRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards
		 WHERE list_id = $1 AND NOT archived
		 ORDER BY position`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByList: %w", err)
	}
	defer rows.Close()

	return scanCards(rows, "cardRepo.ListByList")
}

func (r *CardRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards
		 WHERE board_id = $1 AND NOT archived
		 ORDER BY list_id, position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return scanCards(rows, "cardRepo.ListByBoard")
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET title = $1, description = $2, labels = $3,
		        assignee_id = $4, due_at = $5, updated_at = $6
		 WHERE id = $7`,
		c.Title, c.Description, c.Labels, c.AssigneeID, c.DueAt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) UpdatePositions(ctx context.Context, writes []domain.PositionWrite) error {
	if len(writes) == 0 {
		return nil
	}

	return inTx(ctx, r.pool, "cardRepo.UpdatePositions", func(tx pgx.Tx) error {
		return applyPositions(ctx, tx, "cards", writes)
	})
}

func (r *CardRepo) Move(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "cardRepo.Move", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE cards SET list_id = $1, position = $2, updated_at = $3 WHERE id = $4`,
			c.ListID, c.Position, c.UpdatedAt, c.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return applyPositions(ctx, tx, "cards", writes)
	})
}

func (r *CardRepo) Archive(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "cardRepo.Archive", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE cards SET archived = true, updated_at = now() WHERE id = $1 AND NOT archived`,
			id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return applyPositions(ctx, tx, "cards", writes)
	})
}

func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return inTx(ctx, r.pool, "cardRepo.Delete", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return applyPositions(ctx, tx, "cards", writes)
	})
}

func (r *CardRepo) CountByList(ctx context.Context, listID uuid.UUID) (int, error) {
	var count int

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM cards WHERE list_id = $1 AND NOT archived`,
		listID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("cardRepo.CountByList: %w", err)
	}

	return count, nil
}

func scanCards(rows pgx.Rows, caller string) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.ListID, &c.BoardID, &c.Title, &c.Description, &c.Labels, &c.Position,
			&c.AssigneeID, &c.DueAt, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return cards, nil
}
