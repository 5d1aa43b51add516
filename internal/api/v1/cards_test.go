package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/corkboardhq/corkboard/internal/api/v1"
	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/mutate"
)

func TestCreateCard(t *testing.T) {
	t.Parallel()

	actor := domain.Identity{ID: uuid.New(), Name: "Ada"}
	listID := uuid.New()

	t.Run("happy_path_appends_by_default", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			createCardFunc: func(_ context.Context, _ domain.Identity, lid uuid.UUID, input mutate.CreateCardInput) (*domain.Card, error) {
				assert.Equal(t, listID, lid)
				assert.Equal(t, "Ship it", input.Title)
				assert.Equal(t, -1, input.Position, "omitted position must append")
				return &domain.Card{ID: uuid.New(), ListID: lid, Title: input.Title, Position: 3}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/lists/"+listID.String()+"/cards", map[string]any{
			"title": "Ship it",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Ship it", body.Title)
		assert.Equal(t, 3, body.Position)
	})

	t.Run("explicit_position_passed_through", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			createCardFunc: func(_ context.Context, _ domain.Identity, _ uuid.UUID, input mutate.CreateCardInput) (*domain.Card, error) {
				assert.Equal(t, 1, input.Position)
				return &domain.Card{ID: uuid.New(), Position: 1}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/lists/"+listID.String()+"/cards", map[string]any{
			"title":    "Ship it",
			"position": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("archived_list_maps_to_409", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			createCardFunc: func(_ context.Context, _ domain.Identity, _ uuid.UUID, _ mutate.CreateCardInput) (*domain.Card, error) {
				return nil, domain.ErrInvalidState
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/lists/"+listID.String()+"/cards", map[string]any{
			"title": "Ship it",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestMoveCard(t *testing.T) {
	t.Parallel()

	actor := domain.Identity{ID: uuid.New(), Name: "Ada"}
	cardID := uuid.New()

	t.Run("within_list", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			moveCardFunc: func(_ context.Context, _ domain.Identity, cid, toListID uuid.UUID, pos int) (*domain.Card, error) {
				assert.Equal(t, cardID, cid)
				assert.Equal(t, uuid.Nil, toListID, "omitted destination means same list")
				assert.Equal(t, 1, pos)
				return &domain.Card{ID: cid, Position: 1}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/cards/"+cardID.String()+"/move", map[string]any{
			"position": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("across_lists", func(t *testing.T) {
		t.Parallel()

		destID := uuid.New()
		_, api := humatest.New(t)
		mut := &mockMutator{
			moveCardFunc: func(_ context.Context, _ domain.Identity, _, toListID uuid.UUID, pos int) (*domain.Card, error) {
				assert.Equal(t, destID, toListID)
				assert.Equal(t, 0, pos)
				return &domain.Card{ID: cardID, ListID: toListID, Position: 0}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/cards/"+cardID.String()+"/move", map[string]any{
			"to_list_id": destID.String(),
			"position":   0,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, destID, body.ListID)
	})

	t.Run("cross_board_destination_maps_to_400", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			moveCardFunc: func(_ context.Context, _ domain.Identity, _, _ uuid.UUID, _ int) (*domain.Card, error) {
				return nil, domain.ErrInvalidInput
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/cards/"+cardID.String()+"/move", map[string]any{
			"to_list_id": uuid.New().String(),
			"position":   0,
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestAssignCard(t *testing.T) {
	t.Parallel()

	actor := domain.Identity{ID: uuid.New(), Name: "Ada"}
	cardID := uuid.New()

	t.Run("assigns_user", func(t *testing.T) {
		t.Parallel()

		assigneeID := uuid.New()
		_, api := humatest.New(t)
		mut := &mockMutator{
			assignCardFunc: func(_ context.Context, _ domain.Identity, cid, aid uuid.UUID) (*domain.Card, error) {
				assert.Equal(t, cardID, cid)
				assert.Equal(t, assigneeID, aid)
				return &domain.Card{ID: cid, AssigneeID: &aid}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/cards/"+cardID.String()+"/assign", map[string]any{
			"assignee_id": assigneeID.String(),
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("null_clears_assignee", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		mut := &mockMutator{
			assignCardFunc: func(_ context.Context, _ domain.Identity, cid, aid uuid.UUID) (*domain.Card, error) {
				assert.Equal(t, uuid.Nil, aid)
				return &domain.Card{ID: cid}, nil
			},
		}
		v1.RegisterCardRoutes(api, &mockDataStore{}, mut)

		resp := api.PostCtx(identityCtx(actor), "/cards/"+cardID.String()+"/assign", map[string]any{
			"assignee_id": nil,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	actor := domain.Identity{ID: uuid.New(), Name: "Ada"}
	cardID := uuid.New()
	boardID := uuid.New()

	t.Run("member_reads_card", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			cards: &mockCardRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Card, error) {
					return &domain.Card{ID: id, BoardID: boardID, Title: "Task"}, nil
				},
			},
			boards: &mockBoardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Board, error) {
					return &domain.Board{ID: boardID, OwnerID: uuid.New()}, nil
				},
				isMemberFunc: func(_ context.Context, _, uid uuid.UUID) (bool, error) {
					return uid == actor.ID, nil
				},
			},
		}
		v1.RegisterCardRoutes(api, store, &mockMutator{})

		resp := api.GetCtx(identityCtx(actor), "/cards/"+cardID.String())

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("unknown_card_gets_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			cards: &mockCardRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterCardRoutes(api, store, &mockMutator{})

		resp := api.GetCtx(identityCtx(actor), "/cards/"+cardID.String())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
