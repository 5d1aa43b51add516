package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/mutate"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface. Handlers use it for reads only;
// every write goes through the Mutator.
type DataStore interface {
	Users() domain.UserRepository
	Boards() domain.BoardRepository
	Lists() domain.ListRepository
	Cards() domain.CardRepository
}

// Mutator abstracts the mutation service for handler testing.
// *mutate.Service satisfies this interface.
type Mutator interface {
	CreateBoard(ctx context.Context, actor domain.Identity, title, slug string) (*domain.Board, error)
	UpdateBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string) (*domain.Board, error)
	ArchiveBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID) (*domain.Board, error)
	AddMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID, role domain.Role) (*domain.BoardMember, error)
	RemoveMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID) error

	CreateList(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string, pos int) (*domain.List, error)
	RenameList(ctx context.Context, actor domain.Identity, listID uuid.UUID, title string) (*domain.List, error)
	MoveList(ctx context.Context, actor domain.Identity, listID uuid.UUID, pos int) (*domain.List, error)
	ArchiveList(ctx context.Context, actor domain.Identity, listID uuid.UUID) (*domain.List, error)
	DeleteList(ctx context.Context, actor domain.Identity, listID uuid.UUID) error

	CreateCard(ctx context.Context, actor domain.Identity, listID uuid.UUID, input mutate.CreateCardInput) (*domain.Card, error)
	UpdateCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID, input mutate.UpdateCardInput) (*domain.Card, error)
	MoveCard(ctx context.Context, actor domain.Identity, cardID, toListID uuid.UUID, pos int) (*domain.Card, error)
	AssignCard(ctx context.Context, actor domain.Identity, cardID, assigneeID uuid.UUID) (*domain.Card, error)
	ArchiveCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) (*domain.Card, error)
	DeleteCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) error
}
