package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CreateListInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		Title    string `json:"title" minLength:"1" maxLength:"200" doc:"List title"`
		Position *int   `json:"position,omitempty" minimum:"0" doc:"Insertion position; appended when omitted"`
	}
}

type CreateListOutput struct {
	Body *domain.List
}

type RenameListInput struct {
	ID   uuid.UUID `path:"id" doc:"List ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"New list title"`
	}
}

type RenameListOutput struct {
	Body *domain.List
}

type MoveListInput struct {
	ID   uuid.UUID `path:"id" doc:"List ID"`
	Body struct {
		Position int `json:"position" minimum:"0" doc:"Target position"`
	}
}

type MoveListOutput struct {
	Body *domain.List
}

type ArchiveListInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

type ArchiveListOutput struct {
	Body *domain.List
}

type DeleteListInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

type ListCardsInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

type ListCardsOutput struct {
	Body []*domain.Card
}

func RegisterListRoutes(api huma.API, store DataStore, mut Mutator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-list",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/lists",
		Summary:     "Create a list on a board",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *CreateListInput) (*CreateListOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		pos := -1
		if input.Body.Position != nil {
			pos = *input.Body.Position
		}

		list, err := mut.CreateList(ctx, actor, input.BoardID, input.Body.Title, pos)
		if err != nil {
			return nil, mapError(err, "create list")
		}

		return &CreateListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-list",
		Method:      http.MethodPatch,
		Path:        "/lists/{id}",
		Summary:     "Rename a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *RenameListInput) (*RenameListOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		list, err := mut.RenameList(ctx, actor, input.ID, input.Body.Title)
		if err != nil {
			return nil, mapError(err, "rename list")
		}

		return &RenameListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-list",
		Method:      http.MethodPost,
		Path:        "/lists/{id}/move",
		Summary:     "Move a list to a new position",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *MoveListInput) (*MoveListOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		list, err := mut.MoveList(ctx, actor, input.ID, input.Body.Position)
		if err != nil {
			return nil, mapError(err, "move list")
		}

		return &MoveListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-list",
		Method:      http.MethodPost,
		Path:        "/lists/{id}/archive",
		Summary:     "Archive a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *ArchiveListInput) (*ArchiveListOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		list, err := mut.ArchiveList(ctx, actor, input.ID)
		if err != nil {
			return nil, mapError(err, "archive list")
		}

		return &ArchiveListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-list",
		Method:      http.MethodDelete,
		Path:        "/lists/{id}",
		Summary:     "Delete a list and its cards",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *DeleteListInput) (*struct{}, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := mut.DeleteList(ctx, actor, input.ID); err != nil {
			return nil, mapError(err, "delete list")
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/lists/{id}/cards",
		Summary:     "List active cards in a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		list, err := store.Lists().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("list not found")
			}
			return nil, huma.Error500InternalServerError("failed to get list", err)
		}

		board, err := store.Boards().GetByID(ctx, list.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if err := requireView(ctx, store, board, actor); err != nil {
			return nil, err
		}

		cards, err := store.Cards().ListByList(ctx, list.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list cards", err)
		}

		return &ListCardsOutput{Body: cards}, nil
	})
}
