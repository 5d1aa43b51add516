package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corkboardhq/corkboard/internal/domain"
	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

// sendQueueSize bounds the per-session outbound queue. Broadcasts to a
// session with a full queue are dropped for that recipient only.
const sendQueueSize = 64

// Session is one authenticated WebSocket connection. It always belongs to
// its personal room and to at most one board room. All state is owned by
// the connection's goroutines; the typing timer is the only callback that
// touches it from outside, under the mutex.
type Session struct {
	id       uuid.UUID
	identity domain.Identity
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte

	mu          sync.Mutex
	boardID     uuid.UUID // uuid.Nil while idle
	typingCard  uuid.UUID
	typingTimer *time.Timer
}

func newSession(hub *Hub, identity domain.Identity, conn *websocket.Conn) *Session {
	return &Session{
		id:       uuid.New(),
		identity: identity,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
	}
}

func (s *Session) actor() Actor {
	return Actor{ID: s.identity.ID, Name: s.identity.Name, AvatarURL: s.identity.AvatarURL}
}

// enqueue offers a payload to the outbound queue without blocking.
func (s *Session) enqueue(payload []byte) {
	select {
	case s.send <- payload:
	default:
		log.Debug().Str("session_id", s.id.String()).Msg("send queue full, dropping broadcast")
	}
}

func (s *Session) sendEvent(ev ServerEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Type).Msg("marshal server event")
		return
	}
	s.enqueue(payload)
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg ClientMessage
		if unmarshalErr := json.Unmarshal(data, &msg); unmarshalErr != nil {
			s.sendEvent(ServerEvent{Type: EventError, Data: "malformed message"})
			continue
		}

		s.handle(ctx, msg)
	}
}

func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-s.send:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := s.conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *Session) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MsgJoinBoard:
		s.joinBoard(ctx, msg.BoardID)
	case MsgLeaveBoard:
		s.leaveBoard(ctx)
	case MsgStartTyping:
		s.startTyping(ctx, msg.CardID)
	case MsgStopTyping:
		s.stopTyping(ctx)
	case MsgCursorMove:
		s.cursorMove(ctx, msg.X, msg.Y)
	case MsgUpdatePresence:
		s.updatePresence(ctx, msg.Status)
	default:
		s.sendEvent(ServerEvent{Type: EventError, Data: "unknown message type"})
	}
}

func (s *Session) joinBoard(ctx context.Context, boardID uuid.UUID) {
	if boardID == uuid.Nil {
		s.sendEvent(ServerEvent{Type: EventError, Data: "board_id required"})
		return
	}

	ok, err := s.hub.membership.IsMember(ctx, boardID, s.identity.ID)
	if err != nil {
		log.Error().Err(err).Str("board_id", boardID.String()).Msg("membership check")
		s.sendEvent(ServerEvent{Type: EventError, Data: "join failed"})
		return
	}
	if !ok {
		s.sendEvent(ServerEvent{Type: EventError, Data: "not a board member"})
		return
	}

	s.mu.Lock()
	prev := s.boardID
	if prev == boardID {
		s.mu.Unlock()
		return
	}
	s.boardID = boardID
	s.cancelTypingLocked()
	s.mu.Unlock()

	if prev != uuid.Nil {
		s.hub.rooms.Leave(redisstore.BoardChannel(prev), s)
		s.hub.broadcastBoard(ctx, prev, ServerEvent{Type: EventUserLeft, Data: s.actor()})
	}

	s.hub.rooms.Join(redisstore.BoardChannel(boardID), s)
	s.hub.broadcastBoard(ctx, boardID, ServerEvent{Type: EventUserJoined, Data: s.actor()})
}

func (s *Session) leaveBoard(ctx context.Context) {
	s.mu.Lock()
	prev := s.boardID
	s.boardID = uuid.Nil
	s.cancelTypingLocked()
	s.mu.Unlock()

	if prev == uuid.Nil {
		return
	}

	s.hub.rooms.Leave(redisstore.BoardChannel(prev), s)
	s.hub.broadcastBoard(ctx, prev, ServerEvent{Type: EventUserLeft, Data: s.actor()})
}

type typingPayload struct {
	User   Actor     `json:"user"`
	CardID uuid.UUID `json:"card_id"`
	Typing bool      `json:"typing"`
}

// startTyping (re)arms the 3-second silence timer. Each keystroke event
// resets it; expiry broadcasts a stopped-typing notice.
func (s *Session) startTyping(ctx context.Context, cardID uuid.UUID) {
	s.mu.Lock()
	boardID := s.boardID
	if boardID == uuid.Nil {
		s.mu.Unlock()
		return
	}
	alreadyTyping := s.typingTimer != nil && s.typingCard == cardID
	if s.typingTimer != nil {
		s.typingTimer.Stop()
	}
	s.typingCard = cardID
	s.typingTimer = time.AfterFunc(s.hub.typingTTL, func() { s.typingExpired(cardID) })
	s.mu.Unlock()

	if !alreadyTyping {
		s.hub.broadcastBoard(ctx, boardID, ServerEvent{
			Type: EventTyping,
			Data: typingPayload{User: s.actor(), CardID: cardID, Typing: true},
		})
	}
}

func (s *Session) stopTyping(ctx context.Context) {
	s.mu.Lock()
	boardID := s.boardID
	cardID := s.typingCard
	wasTyping := s.typingTimer != nil
	s.cancelTypingLocked()
	s.mu.Unlock()

	if !wasTyping || boardID == uuid.Nil {
		return
	}

	s.hub.broadcastBoard(ctx, boardID, ServerEvent{
		Type: EventTyping,
		Data: typingPayload{User: s.actor(), CardID: cardID, Typing: false},
	})
}

// typingExpired runs on the timer goroutine after 3s of silence.
func (s *Session) typingExpired(cardID uuid.UUID) {
	s.mu.Lock()
	boardID := s.boardID
	s.typingTimer = nil
	s.mu.Unlock()

	if boardID == uuid.Nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.broadcastBoard(ctx, boardID, ServerEvent{
		Type: EventTyping,
		Data: typingPayload{User: s.actor(), CardID: cardID, Typing: false},
	})
}

func (s *Session) cancelTypingLocked() {
	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}
}

type cursorPayload struct {
	User Actor   `json:"user"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Session) cursorMove(ctx context.Context, x, y float64) {
	s.mu.Lock()
	boardID := s.boardID
	s.mu.Unlock()

	if boardID == uuid.Nil {
		return
	}

	s.hub.broadcastBoard(ctx, boardID, ServerEvent{
		Type: EventCursor,
		Data: cursorPayload{User: s.actor(), X: x, Y: y},
	})
}

type presencePayload struct {
	User   Actor  `json:"user"`
	Status string `json:"status"`
}

func (s *Session) updatePresence(ctx context.Context, status string) {
	s.mu.Lock()
	boardID := s.boardID
	s.mu.Unlock()

	if boardID == uuid.Nil {
		return
	}

	s.hub.broadcastBoard(ctx, boardID, ServerEvent{
		Type: EventPresence,
		Data: presencePayload{User: s.actor(), Status: status},
	})
}

// disconnect tears the session down after transport loss: the typing
// timer is cancelled, room memberships are removed, and the last-known
// board room hears an offline presence notice.
func (s *Session) disconnect(ctx context.Context) {
	s.mu.Lock()
	boardID := s.boardID
	s.boardID = uuid.Nil
	s.cancelTypingLocked()
	s.mu.Unlock()

	if boardID != uuid.Nil {
		s.hub.rooms.Leave(redisstore.BoardChannel(boardID), s)
		s.hub.broadcastBoard(ctx, boardID, ServerEvent{
			Type: EventPresence,
			Data: presencePayload{User: s.actor(), Status: "offline"},
		})
	}

	s.hub.rooms.Leave(redisstore.UserChannel(s.identity.ID), s)
}
