package mutate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/position"
)

func (s *Service) CreateList(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string, pos int) (*domain.List, error) {
	if title == "" {
		return nil, fmt.Errorf("mutate.Service.CreateList: title required: %w", domain.ErrInvalidInput)
	}

	if _, err := s.requireRole(ctx, boardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	release, err := s.lockScopes(ctx, scopeBoard(boardID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateList: %w", err)
	}

	now := time.Now()
	list := &domain.List{
		ID:        uuid.New(),
		BoardID:   boardID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	writes := position.Insert(listItems(current), list.ID, pos)
	list.Position, _ = ownPosition(writes, list.ID)

	if err := s.lists.Create(ctx, list, siblingWrites(writes, list.ID)); err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateList: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "list_created",
		Routing: "list.created",
		BoardID: boardID,
		Payload: ListPayload{List: list, Actor: actorRef(actor)},
	})

	return list, nil
}

func (s *Service) RenameList(ctx context.Context, actor domain.Identity, listID uuid.UUID, title string) (*domain.List, error) {
	if title == "" {
		return nil, fmt.Errorf("mutate.Service.RenameList: title required: %w", domain.ErrInvalidInput)
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.RenameList: %w", err)
	}

	if _, err := s.requireRole(ctx, list.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	list.Title = title
	list.UpdatedAt = time.Now()
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("mutate.Service.RenameList: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "list_updated",
		Routing: "list.updated",
		BoardID: list.BoardID,
		Payload: ListPayload{List: list, Actor: actorRef(actor)},
	})

	return list, nil
}

func (s *Service) MoveList(ctx context.Context, actor domain.Identity, listID uuid.UUID, pos int) (*domain.List, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveList: %w", err)
	}

	if _, err := s.requireRole(ctx, list.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	release, err := s.lockScopes(ctx, scopeBoard(list.BoardID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.lists.ListByBoard(ctx, list.BoardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveList: %w", err)
	}

	writes := position.Move(listItems(current), listID, pos)
	if len(writes) == 0 {
		return list, nil
	}

	if err := s.lists.UpdatePositions(ctx, allWrites(writes)); err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveList: %w", err)
	}
	list.Position, _ = ownPosition(writes, listID)

	s.emit(ctx, Outcome{
		Event:   "list_moved",
		Routing: "list.moved",
		BoardID: list.BoardID,
		Payload: ListPayload{List: list, Actor: actorRef(actor)},
	})

	return list, nil
}

func (s *Service) ArchiveList(ctx context.Context, actor domain.Identity, listID uuid.UUID) (*domain.List, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveList: %w", err)
	}

	if list.Archived {
		return nil, fmt.Errorf("mutate.Service.ArchiveList: already archived: %w", domain.ErrInvalidState)
	}

	if _, err := s.requireRole(ctx, list.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	release, err := s.lockScopes(ctx, scopeBoard(list.BoardID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.lists.ListByBoard(ctx, list.BoardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveList: %w", err)
	}

	writes := position.Remove(listItems(current), listID)
	if err := s.lists.Archive(ctx, listID, allWrites(writes)); err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveList: %w", err)
	}
	list.Archived = true
	list.UpdatedAt = time.Now()

	s.emit(ctx, Outcome{
		Event:   "list_archived",
		Routing: "list.archived",
		BoardID: list.BoardID,
		Payload: ListPayload{List: list, Actor: actorRef(actor)},
	})

	return list, nil
}

func (s *Service) DeleteList(ctx context.Context, actor domain.Identity, listID uuid.UUID) error {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("mutate.Service.DeleteList: %w", err)
	}

	if _, err := s.requireRole(ctx, list.BoardID, actor.ID, domain.RoleAdmin); err != nil {
		return err
	}

	release, err := s.lockScopes(ctx, scopeBoard(list.BoardID))
	if err != nil {
		return err
	}
	defer release()

	current, err := s.lists.ListByBoard(ctx, list.BoardID)
	if err != nil {
		return fmt.Errorf("mutate.Service.DeleteList: %w", err)
	}

	writes := position.Remove(listItems(current), listID)
	if err := s.lists.Delete(ctx, listID, allWrites(writes)); err != nil {
		return fmt.Errorf("mutate.Service.DeleteList: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "list_deleted",
		Routing: "list.deleted",
		BoardID: list.BoardID,
		Payload: ListPayload{List: list, Actor: actorRef(actor)},
	})

	return nil
}
