package mutate

import (
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// Outcome is the single committed result of one mutation. Event names the
// websocket mirror ("card_moved"), Routing the durable routing key
// ("card.moved"); both carry the same payload.
type Outcome struct {
	Event   string
	Routing string
	BoardID uuid.UUID
	Payload any
}

// ActorRef travels with every outcome so clients and downstream services
// know who caused the change.
type ActorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func actorRef(actor domain.Identity) ActorRef {
	return ActorRef{ID: actor.ID, Name: actor.Name}
}

// BoardPayload is the wire shape for board-level outcomes.
type BoardPayload struct {
	Board    *domain.Board `json:"board"`
	MemberID *uuid.UUID    `json:"member_id,omitempty"`
	Role     domain.Role   `json:"role,omitempty"`
	Actor    ActorRef      `json:"actor"`
}

// ListPayload is the wire shape for list-level outcomes.
type ListPayload struct {
	List  *domain.List `json:"list"`
	Actor ActorRef     `json:"actor"`
}

// CardPayload is the wire shape for card-level outcomes. FromListID is set
// on cross-list moves; AssigneeID on assignment changes.
type CardPayload struct {
	Card       *domain.Card `json:"card"`
	FromListID *uuid.UUID   `json:"from_list_id,omitempty"`
	AssigneeID *uuid.UUID   `json:"assignee_id,omitempty"`
	Actor      ActorRef     `json:"actor"`
}
