package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type MeOutput struct {
	Body domain.Identity
}

type GetUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

type GetUserOutput struct {
	Body *domain.User
}

func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Get the caller's verified identity",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}

		return &MeOutput{Body: actor}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user's public profile",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*GetUserOutput, error) {
		if _, err := actorFrom(ctx); err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		return &GetUserOutput{Body: user}, nil
	})
}
