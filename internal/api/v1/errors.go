// Package v1 exposes the HTTP surface: thin huma handlers that resolve the
// caller's identity and delegate every write to the mutation service.
package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
)

// mapError translates the domain error taxonomy to HTTP status codes.
func mapError(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(op + ": not found")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(op + ": forbidden")
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(op + ": conflict")
	case errors.Is(err, domain.ErrInvalidState):
		return huma.Error409Conflict(op + ": invalid state")
	case errors.Is(err, domain.ErrInvalidInput):
		return huma.Error400BadRequest(op + ": invalid input")
	default:
		return huma.Error500InternalServerError("failed to "+op, err)
	}
}

// actorFrom resolves the verified caller stamped by the auth middleware.
func actorFrom(ctx context.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, huma.Error401Unauthorized("missing identity")
	}
	return id, nil
}

// requireView checks that the actor may read the board: the owner and every
// member (any role) pass.
func requireView(ctx context.Context, store DataStore, board *domain.Board, actor domain.Identity) error {
	if board.OwnerID == actor.ID {
		return nil
	}

	ok, err := store.Boards().IsMember(ctx, board.ID, actor.ID)
	if err != nil {
		return huma.Error500InternalServerError("failed to check membership", err)
	}
	if !ok {
		return huma.Error403Forbidden("not a board member")
	}

	return nil
}
