package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// In-memory implementations of the stores and repositories, for tests and
// local development without Postgres/Redis.

// MemoryCartStore is an in-memory cart store.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]*models.Cart)}
}

func (s *MemoryCartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return models.NewCart(), nil
	}
	return cloneCart(cart), nil
}

func (s *MemoryCartStore) Save(ctx context.Context, sessionID string, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = cloneCart(cart)
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func cloneCart(cart *models.Cart) *models.Cart {
	out := models.NewCart()
	for id, line := range cart.Lines {
		copied := *line
		out.Lines[id] = &copied
	}
	return out
}

// MemoryCheckoutStore is an in-memory checkout session store.
type MemoryCheckoutStore struct {
	mu       sync.Mutex
	sessions map[string]*checkout.Session
}

func NewMemoryCheckoutStore() *MemoryCheckoutStore {
	return &MemoryCheckoutStore{sessions: make(map[string]*checkout.Session)}
}

func (s *MemoryCheckoutStore) Get(ctx context.Context, sessionID string) (*checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryCheckoutStore) Save(ctx context.Context, sess *checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *MemoryCheckoutStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// MemoryOrderRepository is an in-memory order repository.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*models.Order

	// FailCreate makes Create fail, for exercising placement error paths.
	FailCreate error
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]*models.Order)}
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *MemoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *MemoryOrderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *MemoryOrderRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		copied := *order
		out = append(out, &copied)
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func sortOrdersNewestFirst(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// MemoryProductRepository is an in-memory product repository seeded by tests.
type MemoryProductRepository struct {
	mu       sync.Mutex
	products []*models.Product
}

func NewMemoryProductRepository(products ...*models.Product) *MemoryProductRepository {
	return &MemoryProductRepository{products: products}
}

func (r *MemoryProductRepository) Add(p *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
}

func (r *MemoryProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured && !p.Featured {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
