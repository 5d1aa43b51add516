package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Card is an ordered item within a list. Active cards within one list hold
// a contiguous position sequence 0..n-1.
type Card struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	BoardID     uuid.UUID
	Title       string
	Description string
	Labels      []string
	Position    int
	AssigneeID  *uuid.UUID
	DueAt       *time.Time
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CardRepository interface {
	// Create inserts the card together with the sibling shift writes;
	// both commit in one transaction or not at all.
	Create(ctx context.Context, c *Card, writes []PositionWrite) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	// ListByList returns active cards ordered by position.
	ListByList(ctx context.Context, listID uuid.UUID) ([]*Card, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Card, error)
	Update(ctx context.Context, c *Card) error
	// UpdatePositions applies every write in a single transaction.
	UpdatePositions(ctx context.Context, writes []PositionWrite) error
	// Move persists the card's new list and position together with the
	// compaction writes for the source and destination lists. Everything
	// commits in one transaction or not at all.
	Move(ctx context.Context, c *Card, writes []PositionWrite) error
	// Archive marks the card archived and applies compaction writes for
	// the remaining cards in the same transaction.
	Archive(ctx context.Context, id uuid.UUID, writes []PositionWrite) error
	// Delete removes the card and applies compaction writes in the same
	// transaction.
	Delete(ctx context.Context, id uuid.UUID, writes []PositionWrite) error
	CountByList(ctx context.Context, listID uuid.UUID) (int, error)
}
