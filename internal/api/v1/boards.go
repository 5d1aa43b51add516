package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CreateBoardInput struct {
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"Board title"`
		Slug  string `json:"slug" minLength:"1" maxLength:"100" pattern:"^[a-z0-9-]+$" doc:"URL-friendly unique identifier"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

// BoardDetail is a board with its active lists and cards, the payload a
// client needs to render the full view.
type BoardDetail struct {
	Board   *domain.Board         `json:"board"`
	Lists   []*domain.List        `json:"lists"`
	Cards   []*domain.Card        `json:"cards"`
	Members []*domain.BoardMember `json:"members"`
}

type GetBoardOutput struct {
	Body *BoardDetail
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"200" doc:"New board title"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type ArchiveBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type ArchiveBoardOutput struct {
	Body *domain.Board
}

type AddMemberInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		UserID uuid.UUID `json:"user_id" doc:"User to add"`
		Role   string    `json:"role" enum:"viewer,member,admin" doc:"Membership role"`
	}
}

type AddMemberOutput struct {
	Body *domain.BoardMember
}

type RemoveMemberInput struct {
	ID     uuid.UUID `path:"id" doc:"Board ID"`
	UserID uuid.UUID `path:"userID" doc:"User to remove"`
}

func RegisterBoardRoutes(api huma.API, store DataStore, mut Mutator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		board, err := mut.CreateBoard(ctx, actor, input.Body.Title, input.Body.Slug)
		if err != nil {
			return nil, mapError(err, "create board")
		}

		return &CreateBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards the caller belongs to",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		boards, err := store.Boards().ListByMember(ctx, actor.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board with its lists, cards, and members",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		board, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		if err := requireView(ctx, store, board, actor); err != nil {
			return nil, err
		}

		lists, err := store.Lists().ListByBoard(ctx, board.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load lists", err)
		}
		cards, err := store.Cards().ListByBoard(ctx, board.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load cards", err)
		}
		members, err := store.Boards().ListMembers(ctx, board.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load members", err)
		}

		return &GetBoardOutput{Body: &BoardDetail{
			Board:   board,
			Lists:   lists,
			Cards:   cards,
			Members: members,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPatch,
		Path:        "/boards/{id}",
		Summary:     "Rename a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		board, err := mut.UpdateBoard(ctx, actor, input.ID, input.Body.Title)
		if err != nil {
			return nil, mapError(err, "update board")
		}

		return &UpdateBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-board",
		Method:      http.MethodPost,
		Path:        "/boards/{id}/archive",
		Summary:     "Archive a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ArchiveBoardInput) (*ArchiveBoardOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		board, err := mut.ArchiveBoard(ctx, actor, input.ID)
		if err != nil {
			return nil, mapError(err, "archive board")
		}

		return &ArchiveBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-board-member",
		Method:      http.MethodPost,
		Path:        "/boards/{id}/members",
		Summary:     "Add a member to a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		member, err := mut.AddMember(ctx, actor, input.ID, input.Body.UserID, domain.Role(input.Body.Role))
		if err != nil {
			return nil, mapError(err, "add member")
		}

		return &AddMemberOutput{Body: member}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-board-member",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}/members/{userID}",
		Summary:     "Remove a member from a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		if err := mut.RemoveMember(ctx, actor, input.ID, input.UserID); err != nil {
			return nil, mapError(err, "remove member")
		}

		return nil, nil
	})
}
