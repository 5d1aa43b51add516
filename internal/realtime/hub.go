package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corkboardhq/corkboard/internal/domain"
	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

// typingTimeout is the silence window after which a typing indicator
// auto-expires.
const typingTimeout = 3 * time.Second

// TokenVerifier authenticates the WebSocket handshake.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Membership gates board room joins. *postgres.BoardRepo satisfies it.
type Membership interface {
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// Bus carries broadcasts between hub instances. *redisstore.Client
// satisfies it.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	PatternSubscribe(ctx context.Context, patterns ...string) (<-chan redisstore.Message, func(), error)
}

// Hub accepts WebSocket connections and fans events out to rooms. Every
// broadcast travels through the bus so all instances deliver it to their
// local sessions; the channel name doubles as the room key.
type Hub struct {
	bus        Bus
	rooms      *Rooms
	verifier   TokenVerifier
	membership Membership
	typingTTL  time.Duration
}

func NewHub(bus Bus, verifier TokenVerifier, membership Membership) *Hub {
	return &Hub{
		bus:        bus,
		rooms:      NewRooms(),
		verifier:   verifier,
		membership: membership,
		typingTTL:  typingTimeout,
	}
}

// Run relays bus messages into local rooms until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	messages, cleanup, err := h.bus.PatternSubscribe(ctx, "board:*", "user:*")
	if err != nil {
		return fmt.Errorf("realtime.Hub.Run: %w", err)
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.rooms.Broadcast(msg.Channel, msg.Payload)
		}
	}
}

// ServeWS upgrades the connection after verifying the bearer token from
// the Authorization header or the token query parameter. An invalid token
// terminates the handshake with 401; there is no retry path.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	identity, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := newSession(h, identity, conn)
	h.rooms.Join(redisstore.UserChannel(identity.ID), s)

	log.Debug().
		Str("session_id", s.id.String()).
		Str("user_id", identity.ID.String()).
		Msg("session connected")

	go s.writeLoop(ctx)
	s.readLoop(ctx)

	// Transport is gone; use a fresh context for teardown broadcasts.
	teardownCtx, teardownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer teardownCancel()
	s.disconnect(teardownCtx)

	_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
}

// BoardEvent publishes an event to every session viewing the board. It
// implements the mutation service's broadcaster contract.
func (h *Hub) BoardEvent(ctx context.Context, boardID uuid.UUID, event string, data any) error {
	if err := h.publish(ctx, redisstore.BoardChannel(boardID), ServerEvent{Type: event, Data: data}); err != nil {
		return fmt.Errorf("realtime.Hub.BoardEvent: %w", err)
	}
	return nil
}

// UserEvent publishes an event to one user's personal room on every
// instance.
func (h *Hub) UserEvent(ctx context.Context, userID uuid.UUID, event string, data any) error {
	if err := h.publish(ctx, redisstore.UserChannel(userID), ServerEvent{Type: event, Data: data}); err != nil {
		return fmt.Errorf("realtime.Hub.UserEvent: %w", err)
	}
	return nil
}

// broadcastBoard is the session-facing variant of BoardEvent: failures are
// logged and dropped, matching the best-effort contract for ephemeral
// presence/typing/cursor traffic.
func (h *Hub) broadcastBoard(ctx context.Context, boardID uuid.UUID, ev ServerEvent) {
	if err := h.publish(ctx, redisstore.BoardChannel(boardID), ev); err != nil {
		log.Debug().Err(err).Str("board_id", boardID.String()).Str("event", ev.Type).Msg("broadcast dropped")
	}
}

func (h *Hub) publish(ctx context.Context, channel string, ev ServerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("realtime.Hub.publish: marshal: %w", err)
	}
	if err := h.bus.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("realtime.Hub.publish: %w", err)
	}
	return nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}
