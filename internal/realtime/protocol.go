// Package realtime is the WebSocket fan-out layer: per-connection
// sessions, board/user rooms, presence, typing and cursor state, and the
// relay that carries mutation outcomes to every instance's local rooms
// over Redis pub/sub.
package realtime

import (
	"github.com/google/uuid"
)

// Client → server message types.
const (
	MsgJoinBoard      = "join_board"
	MsgLeaveBoard     = "leave_board"
	MsgStartTyping    = "start_typing"
	MsgStopTyping     = "stop_typing"
	MsgCursorMove     = "cursor_move"
	MsgUpdatePresence = "update_presence"
)

// Server → client event types emitted by the layer itself. Mutation
// mirrors ("card_moved", "list_archived", ...) are named by the mutation
// service.
const (
	EventPresence   = "presence"
	EventTyping     = "typing"
	EventCursor     = "cursor"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
	EventError      = "error"
)

// ClientMessage is the single inbound frame shape; which fields are
// meaningful depends on Type.
type ClientMessage struct {
	Type    string    `json:"type"`
	BoardID uuid.UUID `json:"board_id,omitempty"`
	CardID  uuid.UUID `json:"card_id,omitempty"`
	X       float64   `json:"x,omitempty"`
	Y       float64   `json:"y,omitempty"`
	Status  string    `json:"status,omitempty"`
}

// ServerEvent is the outbound frame shape.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Actor identifies who caused a presence/typing/cursor event. Only id and
// name travel with departure notices.
type Actor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}
