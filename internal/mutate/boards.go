package mutate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

func (s *Service) CreateBoard(ctx context.Context, actor domain.Identity, title, slug string) (*domain.Board, error) {
	if title == "" || slug == "" {
		return nil, fmt.Errorf("mutate.Service.CreateBoard: title and slug required: %w", domain.ErrInvalidInput)
	}

	_, err := s.boards.GetBySlug(ctx, slug)
	if err == nil {
		return nil, fmt.Errorf("mutate.Service.CreateBoard: slug %q taken: %w", slug, domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("mutate.Service.CreateBoard: %w", err)
	}

	now := time.Now()
	board := &domain.Board{
		ID:        uuid.New(),
		OwnerID:   actor.ID,
		Title:     title,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateBoard: %w", err)
	}

	owner := &domain.BoardMember{
		BoardID:   board.ID,
		UserID:    actor.ID,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
	}
	if err := s.boards.AddMember(ctx, owner); err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateBoard: owner membership: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "board_created",
		Routing: "board.created",
		BoardID: board.ID,
		Payload: BoardPayload{Board: board, Actor: actorRef(actor)},
	})

	return board, nil
}

func (s *Service) UpdateBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string) (*domain.Board, error) {
	if title == "" {
		return nil, fmt.Errorf("mutate.Service.UpdateBoard: title required: %w", domain.ErrInvalidInput)
	}

	board, err := s.requireRole(ctx, boardID, actor.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	board.Title = title
	board.UpdatedAt = time.Now()
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("mutate.Service.UpdateBoard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "board_updated",
		Routing: "board.updated",
		BoardID: board.ID,
		Payload: BoardPayload{Board: board, Actor: actorRef(actor)},
	})

	return board, nil
}

func (s *Service) ArchiveBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID) (*domain.Board, error) {
	board, err := s.requireRole(ctx, boardID, actor.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if board.Archived {
		return nil, fmt.Errorf("mutate.Service.ArchiveBoard: already archived: %w", domain.ErrInvalidState)
	}

	board.Archived = true
	board.UpdatedAt = time.Now()
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveBoard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "board_archived",
		Routing: "board.archived",
		BoardID: board.ID,
		Payload: BoardPayload{Board: board, Actor: actorRef(actor)},
	})

	return board, nil
}

func (s *Service) AddMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID, role domain.Role) (*domain.BoardMember, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("mutate.Service.AddMember: unknown role %q: %w", role, domain.ErrInvalidInput)
	}

	board, err := s.requireRole(ctx, boardID, actor.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if _, err := s.boards.GetMember(ctx, boardID, userID); err == nil {
		return nil, fmt.Errorf("mutate.Service.AddMember: already a member: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("mutate.Service.AddMember: %w", err)
	}

	member := &domain.BoardMember{
		BoardID:   boardID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := s.boards.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("mutate.Service.AddMember: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "member_added",
		Routing: "board.member.added",
		BoardID: boardID,
		Payload: BoardPayload{Board: board, MemberID: &member.UserID, Role: role, Actor: actorRef(actor)},
	})

	return member, nil
}

func (s *Service) RemoveMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID) error {
	board, err := s.requireRole(ctx, boardID, actor.ID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	if board.OwnerID == userID {
		return fmt.Errorf("mutate.Service.RemoveMember: cannot remove the owner: %w", domain.ErrInvalidInput)
	}

	if _, err := s.boards.GetMember(ctx, boardID, userID); err != nil {
		return fmt.Errorf("mutate.Service.RemoveMember: %w", err)
	}

	if err := s.boards.RemoveMember(ctx, boardID, userID); err != nil {
		return fmt.Errorf("mutate.Service.RemoveMember: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "member_removed",
		Routing: "board.member.removed",
		BoardID: boardID,
		Payload: BoardPayload{Board: board, MemberID: &userID, Actor: actorRef(actor)},
	})

	return nil
}
