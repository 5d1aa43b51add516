package mutate_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc       func(ctx context.Context, b *domain.Board) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	getBySlugFunc    func(ctx context.Context, slug string) (*domain.Board, error)
	updateFunc       func(ctx context.Context, b *domain.Board) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	listByMemberFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	addMemberFunc    func(ctx context.Context, m *domain.BoardMember) error
	removeMemberFunc func(ctx context.Context, boardID, userID uuid.UUID) error
	getMemberFunc    func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
	listMembersFunc  func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error)
	isMemberFunc     func(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) GetBySlug(ctx context.Context, slug string) (*domain.Board, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockBoardRepo) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	return m.listByMemberFunc(ctx, userID)
}

func (m *mockBoardRepo) AddMember(ctx context.Context, mem *domain.BoardMember) error {
	return m.addMemberFunc(ctx, mem)
}

func (m *mockBoardRepo) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return m.removeMemberFunc(ctx, boardID, userID)
}

func (m *mockBoardRepo) GetMember(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error) {
	return m.getMemberFunc(ctx, boardID, userID)
}

func (m *mockBoardRepo) ListMembers(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	return m.listMembersFunc(ctx, boardID)
}

func (m *mockBoardRepo) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return m.isMemberFunc(ctx, boardID, userID)
}

// ---------------------------------------------------------------------------
// Mock ListRepository
// ---------------------------------------------------------------------------

type mockListRepo struct {
	createFunc          func(ctx context.Context, l *domain.List, writes []domain.PositionWrite) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.List, error)
	listByBoardFunc     func(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error)
	updateFunc          func(ctx context.Context, l *domain.List) error
	updatePositionsFunc func(ctx context.Context, writes []domain.PositionWrite) error
	archiveFunc         func(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error
	deleteFunc          func(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error
	countByBoardFunc    func(ctx context.Context, boardID uuid.UUID) (int, error)
}

func (m *mockListRepo) Create(ctx context.Context, l *domain.List, writes []domain.PositionWrite) error {
	return m.createFunc(ctx, l, writes)
}

func (m *mockListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockListRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockListRepo) Update(ctx context.Context, l *domain.List) error {
	return m.updateFunc(ctx, l)
}

func (m *mockListRepo) UpdatePositions(ctx context.Context, writes []domain.PositionWrite) error {
	return m.updatePositionsFunc(ctx, writes)
}

func (m *mockListRepo) Archive(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return m.archiveFunc(ctx, id, writes)
}

func (m *mockListRepo) Delete(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return m.deleteFunc(ctx, id, writes)
}

func (m *mockListRepo) CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	return m.countByBoardFunc(ctx, boardID)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc          func(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	listByListFunc      func(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error)
	listByBoardFunc     func(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error)
	updateFunc          func(ctx context.Context, c *domain.Card) error
	updatePositionsFunc func(ctx context.Context, writes []domain.PositionWrite) error
	moveFunc            func(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error
	archiveFunc         func(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error
	deleteFunc          func(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error
	countByListFunc     func(ctx context.Context, listID uuid.UUID) (int, error)
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error {
	return m.createFunc(ctx, c, writes)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCardRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error) {
	return m.listByListFunc(ctx, listID)
}

func (m *mockCardRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error) {
	return m.listByBoardFunc(ctx, boardID)
}

func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCardRepo) UpdatePositions(ctx context.Context, writes []domain.PositionWrite) error {
	return m.updatePositionsFunc(ctx, writes)
}

func (m *mockCardRepo) Move(ctx context.Context, c *domain.Card, writes []domain.PositionWrite) error {
	return m.moveFunc(ctx, c, writes)
}

func (m *mockCardRepo) Archive(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return m.archiveFunc(ctx, id, writes)
}

func (m *mockCardRepo) Delete(ctx context.Context, id uuid.UUID, writes []domain.PositionWrite) error {
	return m.deleteFunc(ctx, id, writes)
}

func (m *mockCardRepo) CountByList(ctx context.Context, listID uuid.UUID) (int, error) {
	return m.countByListFunc(ctx, listID)
}

// ---------------------------------------------------------------------------
// Recording fakes for the fan-out side
// ---------------------------------------------------------------------------

type broadcastCall struct {
	boardID uuid.UUID
	event   string
	data    any
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *recordingBroadcaster) BoardEvent(_ context.Context, boardID uuid.UUID, event string, data any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{boardID: boardID, event: event, data: data})
	return nil
}

func (b *recordingBroadcaster) snapshot() []broadcastCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broadcastCall, len(b.calls))
	copy(out, b.calls)
	return out
}

type publishCall struct {
	routing string
	data    any
}

type recordingPublisher struct {
	mu    sync.Mutex
	calls []publishCall
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{routing: eventType, data: data})
	return nil
}

func (p *recordingPublisher) snapshot() []publishCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishCall, len(p.calls))
	copy(out, p.calls)
	return out
}
