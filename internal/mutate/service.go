// Package mutate orchestrates board, list, and card changes: permission
// check, per-scope serialization, position recomputation, persistence,
// then fan-out. Exactly one outcome leaves the service per committed
// mutation; the broadcast and the durable event are both best-effort
// relative to the commit and never block the caller.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// emitTimeout bounds the post-commit broadcast and publish.
const emitTimeout = 10 * time.Second

// Broadcaster delivers a committed outcome to every session viewing the
// affected board. *realtime.Hub satisfies it.
type Broadcaster interface {
	BoardEvent(ctx context.Context, boardID uuid.UUID, event string, data any) error
}

// EventPublisher appends a committed outcome to the durable event stream.
// *events.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// ScopeLocker serializes the read-compute-write sequence per ordering
// scope. *redisstore.ScopeLocker satisfies it; MemoryLocker covers tests
// and single-instance deployments.
type ScopeLocker interface {
	Lock(ctx context.Context, scope string) (func(), error)
}

type Service struct {
	boards    domain.BoardRepository
	lists     domain.ListRepository
	cards     domain.CardRepository
	locker    ScopeLocker
	broadcast Broadcaster
	publisher EventPublisher
}

func New(
	boards domain.BoardRepository,
	lists domain.ListRepository,
	cards domain.CardRepository,
	locker ScopeLocker,
	broadcast Broadcaster,
	publisher EventPublisher,
) *Service {
	return &Service{
		boards:    boards,
		lists:     lists,
		cards:     cards,
		locker:    locker,
		broadcast: broadcast,
		publisher: publisher,
	}
}

func scopeBoard(boardID uuid.UUID) string { return "board:" + boardID.String() }
func scopeList(listID uuid.UUID) string   { return "list:" + listID.String() }

// requireRole resolves the actor's standing on the board. The owner
// always passes; otherwise the membership row must meet min.
func (s *Service) requireRole(ctx context.Context, boardID, actorID uuid.UUID, min domain.Role) (*domain.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("mutate.Service.requireRole: %w", err)
	}

	if board.OwnerID == actorID {
		return board, nil
	}

	member, err := s.boards.GetMember(ctx, boardID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("mutate.Service.requireRole: not a member: %w", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("mutate.Service.requireRole: %w", err)
	}

	if !member.Role.Meets(min) {
		return nil, fmt.Errorf("mutate.Service.requireRole: role %q below %q: %w", member.Role, min, domain.ErrForbidden)
	}

	return board, nil
}

// lockScopes acquires every scope in sorted order so concurrent cross-list
// moves cannot deadlock. The returned release unlocks in reverse order.
func (s *Service) lockScopes(ctx context.Context, scopes ...string) (func(), error) {
	sorted := make([]string, len(scopes))
	copy(sorted, scopes)
	sort.Strings(sorted)

	releases := make([]func(), 0, len(sorted))
	for _, scope := range sorted {
		release, err := s.locker.Lock(ctx, scope)
		if err != nil {
			for i := len(releases) - 1; i >= 0; i-- {
				releases[i]()
			}
			return nil, fmt.Errorf("mutate.Service.lockScopes: %q: %w", scope, err)
		}
		releases = append(releases, release)
	}

	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}, nil
}

// emit hands the committed outcome to the fan-out layer and the event
// stream. Both run detached from the request: a broker or socket problem
// is logged, never surfaced to the caller whose write already committed.
func (s *Service) emit(ctx context.Context, out Outcome) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		bctx, cancel := context.WithTimeout(ctx, emitTimeout)
		defer cancel()
		if err := s.broadcast.BoardEvent(bctx, out.BoardID, out.Event, out.Payload); err != nil {
			log.Warn().Err(err).Str("event", out.Event).Msg("broadcast failed")
		}
	}()

	go func() {
		pctx, cancel := context.WithTimeout(ctx, emitTimeout)
		defer cancel()
		if err := s.publisher.Publish(pctx, out.Routing, out.Payload); err != nil {
			log.Warn().Err(err).Str("routing_key", out.Routing).Msg("event publish failed")
		}
	}()
}
