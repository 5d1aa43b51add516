// Package notify turns durable board events into personal pushes: the
// affected user gets a message on their own channel regardless of which
// board rooms they have joined. It runs as an event consumer so pushes
// survive instance restarts and are retried with the stream's redelivery.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/events"
)

// Pusher delivers an event to a single user's sessions. *realtime.Hub
// satisfies it.
type Pusher interface {
	UserEvent(ctx context.Context, userID uuid.UUID, event string, data any) error
}

type Notifier struct {
	pusher Pusher
}

func New(pusher Pusher) *Notifier {
	return &Notifier{pusher: pusher}
}

// Register binds the notifier's handlers. Patterns are matched in
// registration order, so Register decides precedence for overlapping keys.
func (n *Notifier) Register(reg *events.Registry) {
	reg.Bind("board.member.added", n.memberAdded)
	reg.Bind("card.assigned", n.cardAssigned)
}

type memberAddedPayload struct {
	Board    *domain.Board `json:"board"`
	MemberID *uuid.UUID    `json:"member_id"`
}

func (n *Notifier) memberAdded(ctx context.Context, env *events.Envelope) error {
	var p memberAddedPayload
	if err := env.Decode(&p); err != nil {
		return fmt.Errorf("notify.Notifier.memberAdded: %w", err)
	}
	if p.Board == nil || p.MemberID == nil {
		log.Warn().Str("event_id", env.ID.String()).Msg("member added event missing board or member")
		return nil
	}

	data := map[string]any{
		"board_id": p.Board.ID,
		"title":    p.Board.Title,
	}
	if err := n.pusher.UserEvent(ctx, *p.MemberID, "added_to_board", data); err != nil {
		return fmt.Errorf("notify.Notifier.memberAdded: %w", err)
	}
	return nil
}

type cardAssignedPayload struct {
	Card       *domain.Card `json:"card"`
	AssigneeID *uuid.UUID   `json:"assignee_id"`
}

func (n *Notifier) cardAssigned(ctx context.Context, env *events.Envelope) error {
	var p cardAssignedPayload
	if err := env.Decode(&p); err != nil {
		return fmt.Errorf("notify.Notifier.cardAssigned: %w", err)
	}
	if p.Card == nil || p.AssigneeID == nil {
		log.Warn().Str("event_id", env.ID.String()).Msg("card assigned event missing card or assignee")
		return nil
	}

	data := map[string]any{
		"card_id":  p.Card.ID,
		"board_id": p.Card.BoardID,
		"title":    p.Card.Title,
	}
	if err := n.pusher.UserEvent(ctx, *p.AssigneeID, "card_assigned_to_you", data); err != nil {
		return fmt.Errorf("notify.Notifier.cardAssigned: %w", err)
	}
	return nil
}
