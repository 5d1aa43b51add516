package mutate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/position"
)

// CreateCardInput carries the caller-supplied card fields. Position
// defaults to appending when negative.
type CreateCardInput struct {
	Title       string
	Description string
	Labels      []string
	DueAt       *time.Time
	Position    int
}

func (s *Service) CreateCard(ctx context.Context, actor domain.Identity, listID uuid.UUID, input CreateCardInput) (*domain.Card, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("mutate.Service.CreateCard: title required: %w", domain.ErrInvalidInput)
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateCard: %w", err)
	}
	if list.Archived {
		return nil, fmt.Errorf("mutate.Service.CreateCard: list archived: %w", domain.ErrInvalidState)
	}

	if _, err := s.requireRole(ctx, list.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	release, err := s.lockScopes(ctx, scopeList(listID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.cards.ListByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateCard: %w", err)
	}

	now := time.Now()
	card := &domain.Card{
		ID:          uuid.New(),
		ListID:      listID,
		BoardID:     list.BoardID,
		Title:       input.Title,
		Description: input.Description,
		Labels:      input.Labels,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	writes := position.Insert(cardItems(current), card.ID, input.Position)
	card.Position, _ = ownPosition(writes, card.ID)

	if err := s.cards.Create(ctx, card, siblingWrites(writes, card.ID)); err != nil {
		return nil, fmt.Errorf("mutate.Service.CreateCard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "card_created",
		Routing: "card.created",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, Actor: actorRef(actor)},
	})

	return card, nil
}

// UpdateCardInput holds partial card updates; nil fields are unchanged.
type UpdateCardInput struct {
	Title       *string
	Description *string
	Labels      []string
	DueAt       *time.Time
	ClearDueAt  bool
}

func (s *Service) UpdateCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID, input UpdateCardInput) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.UpdateCard: %w", err)
	}

	if _, err := s.requireRole(ctx, card.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("mutate.Service.UpdateCard: title cannot be empty: %w", domain.ErrInvalidInput)
		}
		card.Title = *input.Title
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Labels != nil {
		card.Labels = input.Labels
	}
	if input.ClearDueAt {
		card.DueAt = nil
	} else if input.DueAt != nil {
		card.DueAt = input.DueAt
	}
	card.UpdatedAt = time.Now()

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("mutate.Service.UpdateCard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "card_updated",
		Routing: "card.updated",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, Actor: actorRef(actor)},
	})

	return card, nil
}

// MoveCard repositions a card within its list, or moves it to another
// list on the same board when toListID is set. Both halves of a
// cross-list move commit in one transaction.
func (s *Service) MoveCard(ctx context.Context, actor domain.Identity, cardID, toListID uuid.UUID, pos int) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}

	if card.Archived {
		return nil, fmt.Errorf("mutate.Service.MoveCard: card archived: %w", domain.ErrInvalidState)
	}

	if _, err := s.requireRole(ctx, card.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	if toListID == uuid.Nil || toListID == card.ListID {
		return s.moveCardWithin(ctx, actor, card, pos)
	}
	return s.moveCardAcross(ctx, actor, card, toListID, pos)
}

func (s *Service) moveCardWithin(ctx context.Context, actor domain.Identity, card *domain.Card, pos int) (*domain.Card, error) {
	release, err := s.lockScopes(ctx, scopeList(card.ListID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.cards.ListByList(ctx, card.ListID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}

	writes := position.Move(cardItems(current), card.ID, pos)
	if len(writes) == 0 {
		return card, nil
	}

	if err := s.cards.UpdatePositions(ctx, allWrites(writes)); err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}
	card.Position, _ = ownPosition(writes, card.ID)
	card.UpdatedAt = time.Now()

	s.emit(ctx, Outcome{
		Event:   "card_moved",
		Routing: "card.moved",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, Actor: actorRef(actor)},
	})

	return card, nil
}

func (s *Service) moveCardAcross(ctx context.Context, actor domain.Identity, card *domain.Card, toListID uuid.UUID, pos int) (*domain.Card, error) {
	dest, err := s.lists.GetByID(ctx, toListID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("mutate.Service.MoveCard: destination list: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}
	if dest.BoardID != card.BoardID {
		return nil, fmt.Errorf("mutate.Service.MoveCard: destination on another board: %w", domain.ErrInvalidInput)
	}
	if dest.Archived {
		return nil, fmt.Errorf("mutate.Service.MoveCard: destination archived: %w", domain.ErrInvalidState)
	}

	fromListID := card.ListID

	release, err := s.lockScopes(ctx, scopeList(fromListID), scopeList(toListID))
	if err != nil {
		return nil, err
	}
	defer release()

	sourceCards, err := s.cards.ListByList(ctx, fromListID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}
	destCards, err := s.cards.ListByList(ctx, toListID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}

	sourceWrites := position.Remove(cardItems(sourceCards), card.ID)
	destWrites := position.Insert(cardItems(destCards), card.ID, pos)

	card.ListID = toListID
	card.Position, _ = ownPosition(destWrites, card.ID)
	card.UpdatedAt = time.Now()

	writes := append(allWrites(sourceWrites), siblingWrites(destWrites, card.ID)...)
	if err := s.cards.Move(ctx, card, writes); err != nil {
		return nil, fmt.Errorf("mutate.Service.MoveCard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "card_moved",
		Routing: "card.moved",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, FromListID: &fromListID, Actor: actorRef(actor)},
	})

	return card, nil
}

// AssignCard sets the card's assignee; a Nil assignee clears it. The
// assignee must be a member of the card's board.
func (s *Service) AssignCard(ctx context.Context, actor domain.Identity, cardID, assigneeID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.AssignCard: %w", err)
	}

	board, err := s.requireRole(ctx, card.BoardID, actor.ID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	if assigneeID == uuid.Nil {
		card.AssigneeID = nil
		card.UpdatedAt = time.Now()
		if err := s.cards.Update(ctx, card); err != nil {
			return nil, fmt.Errorf("mutate.Service.AssignCard: %w", err)
		}

		s.emit(ctx, Outcome{
			Event:   "card_updated",
			Routing: "card.unassigned",
			BoardID: card.BoardID,
			Payload: CardPayload{Card: card, Actor: actorRef(actor)},
		})
		return card, nil
	}

	if assigneeID != board.OwnerID {
		ok, err := s.boards.IsMember(ctx, card.BoardID, assigneeID)
		if err != nil {
			return nil, fmt.Errorf("mutate.Service.AssignCard: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("mutate.Service.AssignCard: assignee not a board member: %w", domain.ErrInvalidInput)
		}
	}

	card.AssigneeID = &assigneeID
	card.UpdatedAt = time.Now()
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("mutate.Service.AssignCard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "card_assigned",
		Routing: "card.assigned",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, AssigneeID: &assigneeID, Actor: actorRef(actor)},
	})

	return card, nil
}

func (s *Service) ArchiveCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveCard: %w", err)
	}

	if card.Archived {
		return nil, fmt.Errorf("mutate.Service.ArchiveCard: already archived: %w", domain.ErrInvalidState)
	}

	if _, err := s.requireRole(ctx, card.BoardID, actor.ID, domain.RoleMember); err != nil {
		return nil, err
	}

	release, err := s.lockScopes(ctx, scopeList(card.ListID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.cards.ListByList(ctx, card.ListID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveCard: %w", err)
	}

	writes := position.Remove(cardItems(current), card.ID)
	if err := s.cards.Archive(ctx, card.ID, allWrites(writes)); err != nil {
		return nil, fmt.Errorf("mutate.Service.ArchiveCard: %w", err)
	}
	card.Archived = true
	card.UpdatedAt = time.Now()

	s.emit(ctx, Outcome{
		Event:   "card_archived",
		Routing: "card.archived",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, Actor: actorRef(actor)},
	})

	return card, nil
}

func (s *Service) DeleteCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return fmt.Errorf("mutate.Service.DeleteCard: %w", err)
	}

	if _, err := s.requireRole(ctx, card.BoardID, actor.ID, domain.RoleMember); err != nil {
		return err
	}

	release, err := s.lockScopes(ctx, scopeList(card.ListID))
	if err != nil {
		return err
	}
	defer release()

	current, err := s.cards.ListByList(ctx, card.ListID)
	if err != nil {
		return fmt.Errorf("mutate.Service.DeleteCard: %w", err)
	}

	writes := position.Remove(cardItems(current), card.ID)
	if err := s.cards.Delete(ctx, card.ID, allWrites(writes)); err != nil {
		return fmt.Errorf("mutate.Service.DeleteCard: %w", err)
	}

	s.emit(ctx, Outcome{
		Event:   "card_deleted",
		Routing: "card.deleted",
		BoardID: card.BoardID,
		Payload: CardPayload{Card: card, Actor: actorRef(actor)},
	})

	return nil
}
