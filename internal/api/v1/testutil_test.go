package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/mutate"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the verified identity for DoCtx-style requests
// ---------------------------------------------------------------------------

func identityCtx(id domain.Identity) context.Context {
	return middleware.WithIdentity(context.Background(), id)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users  domain.UserRepository
	boards domain.BoardRepository
	lists  domain.ListRepository
	cards  domain.CardRepository
}

func (m *mockDataStore) Users() domain.UserRepository   { return m.users }
func (m *mockDataStore) Boards() domain.BoardRepository { return m.boards }
func (m *mockDataStore) Lists() domain.ListRepository   { return m.lists }
func (m *mockDataStore) Cards() domain.CardRepository   { return m.cards }

// ---------------------------------------------------------------------------
// Mock Mutator
// ---------------------------------------------------------------------------

type mockMutator struct {
	createBoardFunc  func(ctx context.Context, actor domain.Identity, title, slug string) (*domain.Board, error)
	updateBoardFunc  func(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string) (*domain.Board, error)
	archiveBoardFunc func(ctx context.Context, actor domain.Identity, boardID uuid.UUID) (*domain.Board, error)
	addMemberFunc    func(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID, role domain.Role) (*domain.BoardMember, error)
	removeMemberFunc func(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID) error

	createListFunc  func(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string, pos int) (*domain.List, error)
	renameListFunc  func(ctx context.Context, actor domain.Identity, listID uuid.UUID, title string) (*domain.List, error)
	moveListFunc    func(ctx context.Context, actor domain.Identity, listID uuid.UUID, pos int) (*domain.List, error)
	archiveListFunc func(ctx context.Context, actor domain.Identity, listID uuid.UUID) (*domain.List, error)
	deleteListFunc  func(ctx context.Context, actor domain.Identity, listID uuid.UUID) error

	createCardFunc  func(ctx context.Context, actor domain.Identity, listID uuid.UUID, input mutate.CreateCardInput) (*domain.Card, error)
	updateCardFunc  func(ctx context.Context, actor domain.Identity, cardID uuid.UUID, input mutate.UpdateCardInput) (*domain.Card, error)
	moveCardFunc    func(ctx context.Context, actor domain.Identity, cardID, toListID uuid.UUID, pos int) (*domain.Card, error)
	assignCardFunc  func(ctx context.Context, actor domain.Identity, cardID, assigneeID uuid.UUID) (*domain.Card, error)
	archiveCardFunc func(ctx context.Context, actor domain.Identity, cardID uuid.UUID) (*domain.Card, error)
	deleteCardFunc  func(ctx context.Context, actor domain.Identity, cardID uuid.UUID) error
}

func (m *mockMutator) CreateBoard(ctx context.Context, actor domain.Identity, title, slug string) (*domain.Board, error) {
	return m.createBoardFunc(ctx, actor, title, slug)
}

func (m *mockMutator) UpdateBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string) (*domain.Board, error) {
	return m.updateBoardFunc(ctx, actor, boardID, title)
}

func (m *mockMutator) ArchiveBoard(ctx context.Context, actor domain.Identity, boardID uuid.UUID) (*domain.Board, error) {
	return m.archiveBoardFunc(ctx, actor, boardID)
}

func (m *mockMutator) AddMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID, role domain.Role) (*domain.BoardMember, error) {
	return m.addMemberFunc(ctx, actor, boardID, userID, role)
}

func (m *mockMutator) RemoveMember(ctx context.Context, actor domain.Identity, boardID, userID uuid.UUID) error {
	return m.removeMemberFunc(ctx, actor, boardID, userID)
}

func (m *mockMutator) CreateList(ctx context.Context, actor domain.Identity, boardID uuid.UUID, title string, pos int) (*domain.List, error) {
	return m.createListFunc(ctx, actor, boardID, title, pos)
}

func (m *mockMutator) RenameList(ctx context.Context, actor domain.Identity, listID uuid.UUID, title string) (*domain.List, error) {
	return m.renameListFunc(ctx, actor, listID, title)
}

func (m *mockMutator) MoveList(ctx context.Context, actor domain.Identity, listID uuid.UUID, pos int) (*domain.List, error) {
	return m.moveListFunc(ctx, actor, listID, pos)
}

func (m *mockMutator) ArchiveList(ctx context.Context, actor domain.Identity, listID uuid.UUID) (*domain.List, error) {
	return m.archiveListFunc(ctx, actor, listID)
}

func (m *mockMutator) DeleteList(ctx context.Context, actor domain.Identity, listID uuid.UUID) error {
	return m.deleteListFunc(ctx, actor, listID)
}

func (m *mockMutator) CreateCard(ctx context.Context, actor domain.Identity, listID uuid.UUID, input mutate.CreateCardInput) (*domain.Card, error) {
	return m.createCardFunc(ctx, actor, listID, input)
}

func (m *mockMutator) UpdateCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID, input mutate.UpdateCardInput) (*domain.Card, error) {
	return m.updateCardFunc(ctx, actor, cardID, input)
}

func (m *mockMutator) MoveCard(ctx context.Context, actor domain.Identity, cardID, toListID uuid.UUID, pos int) (*domain.Card, error) {
	return m.moveCardFunc(ctx, actor, cardID, toListID, pos)
}

func (m *mockMutator) AssignCard(ctx context.Context, actor domain.Identity, cardID, assigneeID uuid.UUID) (*domain.Card, error) {
	return m.assignCardFunc(ctx, actor, cardID, assigneeID)
}

func (m *mockMutator) ArchiveCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) (*domain.Card, error) {
	return m.archiveCardFunc(ctx, actor, cardID)
}

func (m *mockMutator) DeleteCard(ctx context.Context, actor domain.Identity, cardID uuid.UUID) error {
	return m.deleteCardFunc(ctx, actor, cardID)
}

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
