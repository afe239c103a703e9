package repositories

import (
	"maps"
	"sync"
	"time"

	"asicshop/internal/models"
)

type memState struct {
	users      map[uint]models.User
	products   map[uint]models.Product
	cart       map[uint]models.CartItem
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem
}

func (st *memState) clone() *memState {
	return &memState{
		users:      maps.Clone(st.users),
		products:   maps.Clone(st.products),
		cart:       maps.Clone(st.cart),
		orders:     maps.Clone(st.orders),
		orderItems: maps.Clone(st.orderItems),
	}
}

// memSeq holds the per-type ID counters. They live outside memState so a
// rolled back transaction never hands out the same ID twice.
type memSeq struct {
	user, product, cart, order, orderItem uint
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu    *sync.RWMutex
	state *memState
	seq   *memSeq
	inTx  bool
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		state: &memState{
			users:      make(map[uint]models.User),
			products:   make(map[uint]models.Product),
			cart:       make(map[uint]models.CartItem),
			orders:     make(map[uint]models.Order),
			orderItems: make(map[uint]models.OrderItem),
		},
		seq: &memSeq{},
		now: time.Now,
	}
}

// lock acquires the write lock unless the store is a transaction view, which
// already holds it. The returned func releases it.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *MemoryStore) Users() UserRepository       { return &memoryUserRepository{s: s} }
func (s *MemoryStore) Products() ProductRepository { return &memoryProductRepository{s: s} }
func (s *MemoryStore) Cart() CartRepository        { return &memoryCartRepository{s: s} }
func (s *MemoryStore) Orders() OrderRepository     { return &memoryOrderRepository{s: s} }

// Transaction holds the store lock for the duration of fn and restores the
// previous contents if fn fails or panics.
func (s *MemoryStore) Transaction(fn func(tx Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &MemoryStore{mu: s.mu, state: s.state, seq: s.seq, inTx: true, now: s.now}

	defer func() {
		if r := recover(); r != nil {
			*s.state = *snapshot
			panic(r)
		}
		if err != nil {
			*s.state = *snapshot
		}
	}()

	return fn(tx)
}

// Ping always succeeds.
func (s *MemoryStore) Ping() error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
