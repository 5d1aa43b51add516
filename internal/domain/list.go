package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// List is an ordered column on a board. Active lists within one board hold
// a contiguous position sequence 0..n-1; archived lists leave the sequence.
type List struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Title     string
	Position  int
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionWrite is one (id, position) assignment produced by the position
// engine and persisted by a repository.
type PositionWrite struct {
	ID       uuid.UUID
	Position int
}

type ListRepository interface {
	// Create inserts the list together with the sibling shift writes;
	// both commit in one transaction or not at all.
	Create(ctx context.Context, l *List, writes []PositionWrite) error
	GetByID(ctx context.Context, id uuid.UUID) (*List, error)
	// ListByBoard returns active lists ordered by position.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*List, error)
	Update(ctx context.Context, l *List) error
	// UpdatePositions applies every write in a single transaction.
	UpdatePositions(ctx context.Context, writes []PositionWrite) error
	// Archive marks the list archived and applies the compaction writes
	// for the remaining lists in the same transaction.
	Archive(ctx context.Context, id uuid.UUID, writes []PositionWrite) error
	// Delete removes the list, its cards, and applies compaction writes
	// in the same transaction.
	Delete(ctx context.Context, id uuid.UUID, writes []PositionWrite) error
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error)
}
