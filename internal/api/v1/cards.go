package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/mutate"
)

type CreateCardInput struct {
	ListID uuid.UUID `path:"listID" doc:"List ID"`
	Body   struct {
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string     `json:"description,omitempty" doc:"Card description"`
		Labels      []string   `json:"labels,omitempty" doc:"Card labels"`
		DueAt       *time.Time `json:"due_at,omitempty" doc:"Due date"`
		Position    *int       `json:"position,omitempty" minimum:"0" doc:"Insertion position; appended when omitted"`
	}
}

type CreateCardOutput struct {
	Body *domain.Card
}

type GetCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type GetCardOutput struct {
	Body *domain.Card
}

type UpdateCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       *string    `json:"title,omitempty" maxLength:"500" doc:"Card title"`
		Description *string    `json:"description,omitempty" doc:"Card description"`
		Labels      []string   `json:"labels,omitempty" doc:"Card labels"`
		DueAt       *time.Time `json:"due_at,omitempty" doc:"Due date"`
		ClearDueAt  bool       `json:"clear_due_at,omitempty" doc:"Remove the due date"`
	}
}

type UpdateCardOutput struct {
	Body *domain.Card
}

type MoveCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		ToListID *uuid.UUID `json:"to_list_id,omitempty" doc:"Destination list; omit to move within the current list"`
		Position int        `json:"position" minimum:"0" doc:"Target position"`
	}
}

type MoveCardOutput struct {
	Body *domain.Card
}

type AssignCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		AssigneeID *uuid.UUID `json:"assignee_id" nullable:"true" doc:"User to assign; null clears the assignee"`
	}
}

type AssignCardOutput struct {
	Body *domain.Card
}

type ArchiveCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type ArchiveCardOutput struct {
	Body *domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

func RegisterCardRoutes(api huma.API, store DataStore, mut Mutator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-card",
		Method:      http.MethodPost,
		Path:        "/lists/{listID}/cards",
		Summary:     "Create a card in a list",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		pos := -1
		if input.Body.Position != nil {
			pos = *input.Body.Position
		}

		card, err := mut.CreateCard(ctx, actor, input.ListID, mutate.CreateCardInput{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Labels:      input.Body.Labels,
			DueAt:       input.Body.DueAt,
			Position:    pos,
		})
		if err != nil {
			return nil, mapError(err, "create card")
		}

		return &CreateCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-card",
		Method:      http.MethodGet,
		Path:        "/cards/{id}",
		Summary:     "Get a card by ID",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *GetCardInput) (*GetCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		card, err := store.Cards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("card not found")
			}
			return nil, huma.Error500InternalServerError("failed to get card", err)
		}

		board, err := store.Boards().GetByID(ctx, card.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if err := requireView(ctx, store, board, actor); err != nil {
			return nil, err
		}

		return &GetCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPatch,
		Path:        "/cards/{id}",
		Summary:     "Update card fields",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *UpdateCardInput) (*UpdateCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		card, err := mut.UpdateCard(ctx, actor, input.ID, mutate.UpdateCardInput{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Labels:      input.Body.Labels,
			DueAt:       input.Body.DueAt,
			ClearDueAt:  input.Body.ClearDueAt,
		})
		if err != nil {
			return nil, mapError(err, "update card")
		}

		return &UpdateCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/move",
		Summary:     "Move a card within or across lists",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *MoveCardInput) (*MoveCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		toListID := uuid.Nil
		if input.Body.ToListID != nil {
			toListID = *input.Body.ToListID
		}

		card, err := mut.MoveCard(ctx, actor, input.ID, toListID, input.Body.Position)
		if err != nil {
			return nil, mapError(err, "move card")
		}

		return &MoveCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/assign",
		Summary:     "Assign or unassign a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *AssignCardInput) (*AssignCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		assigneeID := uuid.Nil
		if input.Body.AssigneeID != nil {
			assigneeID = *input.Body.AssigneeID
		}

		card, err := mut.AssignCard(ctx, actor, input.ID, assigneeID)
		if err != nil {
			return nil, mapError(err, "assign card")
		}

		return &AssignCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/archive",
		Summary:     "Archive a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *ArchiveCardInput) (*ArchiveCardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		card, err := mut.ArchiveCard(ctx, actor, input.ID)
		if err != nil {
			return nil, mapError(err, "archive card")
		}

		return &ArchiveCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-card",
		Method:      http.MethodDelete,
		Path:        "/cards/{id}",
		Summary:     "Delete a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := mut.DeleteCard(ctx, actor, input.ID); err != nil {
			return nil, mapError(err, "delete card")
		}

		return nil, nil
	})
}
