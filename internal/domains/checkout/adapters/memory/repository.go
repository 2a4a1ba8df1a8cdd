package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory checkout adapter. Transact emulates a real
// transactional scope: the state is snapshotted up front and restored when
// the callback fails, and one mutex serializes concurrent scopes, which is
// what keeps racing placements from double-consuming the shared cart.
type Repository struct {
	mu    sync.Mutex
	state *state
	books ports.BookDirectory
	now   func() time.Time
	inTx  bool
}

type state struct {
	lines      map[int64]*domain.CartLine
	orders     map[int64]*domain.Order
	nextLineID int64
	nextOrder  int64
}

// NewRepository wires the memory adapter over a book directory.
func NewRepository(books ports.BookDirectory) *Repository {
	return &Repository{
		state: &state{
			lines:  map[int64]*domain.CartLine{},
			orders: map[int64]*domain.Order{},
		},
		books: books,
		now:   time.Now,
	}
}

// Transact runs fn against a repository view bound to this scope. Nested
// calls reuse the enclosing scope.
func (r *Repository) Transact(ctx context.Context, fn func(ports.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	tx := &Repository{state: r.state, books: r.books, now: r.now, inTx: true}
	if err := fn(tx); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *Repository) ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error) {
	unlock := r.lock()
	defer unlock()
	lines := r.sortedLines(false)
	result := make([]*types.CartLineProjection, 0, len(lines))
	for _, line := range lines {
		book, err := r.books.LookupBook(ctx, line.BookID)
		if err != nil {
			return nil, err
		}
		clone := *line
		result = append(result, &types.CartLineProjection{Line: &clone, Book: *book})
	}
	return result, nil
}

func (r *Repository) ListCartLinesLocked(_ context.Context) ([]*domain.CartLine, error) {
	unlock := r.lock()
	defer unlock()
	lines := r.sortedLines(true)
	result := make([]*domain.CartLine, 0, len(lines))
	for _, line := range lines {
		clone := *line
		result = append(result, &clone)
	}
	return result, nil
}

func (r *Repository) AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error) {
	book, err := r.books.LookupBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	unlock := r.lock()
	defer unlock()
	r.state.nextLineID++
	line := &domain.CartLine{ID: r.state.nextLineID, BookID: bookID, AddedAt: r.now()}
	r.state.lines[line.ID] = line
	clone := *line
	return &types.CartLineProjection{Line: &clone, Book: *book}, nil
}

func (r *Repository) RemoveCartLine(_ context.Context, lineID int64) error {
	unlock := r.lock()
	defer unlock()
	delete(r.state.lines, lineID)
	return nil
}

func (r *Repository) ClearCart(_ context.Context) error {
	unlock := r.lock()
	defer unlock()
	r.state.lines = map[int64]*domain.CartLine{}
	return nil
}

func (r *Repository) PurgeStaleCartLines(_ context.Context, cutoff time.Time) (int64, error) {
	unlock := r.lock()
	defer unlock()
	var purged int64
	for id, line := range r.state.lines {
		if line.AddedAt.Before(cutoff) {
			delete(r.state.lines, id)
			purged++
		}
	}
	return purged, nil
}

func (r *Repository) InsertOrder(_ context.Context, order *domain.Order) (int64, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}
	unlock := r.lock()
	defer unlock()
	clone := *order
	r.state.nextOrder++
	clone.ID = r.state.nextOrder
	r.state.orders[clone.ID] = &clone
	return clone.ID, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	unlock := r.lock()
	defer unlock()
	orders := make([]*domain.Order, 0, len(r.state.orders))
	for _, order := range r.state.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	result := make([]*types.OrderProjection, 0, len(orders))
	for _, order := range orders {
		book, err := r.books.LookupBook(ctx, order.BookID)
		if err != nil {
			return nil, err
		}
		clone := *order
		result = append(result, &types.OrderProjection{Order: &clone, Book: *book})
	}
	return result, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*types.OrderProjection, error) {
	unlock := r.lock()
	defer unlock()
	order, ok := r.state.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	book, err := r.books.LookupBook(ctx, order.BookID)
	if err != nil {
		return nil, err
	}
	clone := *order
	return &types.OrderProjection{Order: &clone, Book: *book}, nil
}

func (r *Repository) UpdateOrderStatuses(_ context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) error {
	unlock := r.lock()
	defer unlock()
	order, ok := r.state.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	return order.UpdateStatuses(payment, delivery)
}

// lock takes the repository mutex unless the receiver is already a
// transactional view, which holds it for the whole scope.
func (r *Repository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

// sortedLines returns cart lines newest-first for listings and oldest-first
// for placement so order rows come out in add order.
func (r *Repository) sortedLines(ascending bool) []*domain.CartLine {
	lines := make([]*domain.CartLine, 0, len(r.state.lines))
	for _, line := range r.state.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if ascending {
			return lines[i].ID < lines[j].ID
		}
		return lines[i].ID > lines[j].ID
	})
	return lines
}

func (s *state) clone() *state {
	clone := &state{
		lines:      make(map[int64]*domain.CartLine, len(s.lines)),
		orders:     make(map[int64]*domain.Order, len(s.orders)),
		nextLineID: s.nextLineID,
		nextOrder:  s.nextOrder,
	}
	for id, line := range s.lines {
		lineCopy := *line
		clone.lines[id] = &lineCopy
	}
	for id, order := range s.orders {
		orderCopy := *order
		clone.orders[id] = &orderCopy
	}
	return clone
}
