package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a board-scoped permission level. The board owner passes every
// check regardless of their membership row.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
}

// Meets reports whether the role satisfies the minimum required role.
// Unknown roles never satisfy anything.
func (r Role) Meets(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type Board struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Slug      string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BoardMember struct {
	BoardID   uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	GetBySlug(ctx context.Context, slug string) (*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*Board, error)

	AddMember(ctx context.Context, m *BoardMember) error
	RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error
	GetMember(ctx context.Context, boardID, userID uuid.UUID) (*BoardMember, error)
	ListMembers(ctx context.Context, boardID uuid.UUID) ([]*BoardMember, error)
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}
