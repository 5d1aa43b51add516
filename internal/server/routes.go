package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/corkboardhq/corkboard/internal/api/v1"
	"github.com/corkboardhq/corkboard/internal/mutate"
	"github.com/corkboardhq/corkboard/internal/realtime"
	"github.com/corkboardhq/corkboard/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, mutator *mutate.Service) {
	v1.RegisterUserRoutes(api, store)
	v1.RegisterBoardRoutes(api, store, mutator)
	v1.RegisterListRoutes(api, store, mutator)
	v1.RegisterCardRoutes(api, store, mutator)
}

func registerWSRoutes(r chi.Router, hub *realtime.Hub) {
	r.Get("/ws", hub.ServeWS)
}
