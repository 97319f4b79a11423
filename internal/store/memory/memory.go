// Package memory fournit une implémentation en mémoire de tous les stores,
// utilisée par les tests. Mêmes contrats que scylla/rediscart, sans réseau.
package memory

import (
	"context"
	"sync"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"
)

type Store struct {
	mu sync.RWMutex

	users        map[string]models.User
	usersByEmail map[string]string

	products       map[string]models.Product
	productsByName map[string]string

	orders     map[string]models.Order
	orderItems map[string][]models.OrderItem

	ratings   []models.Rating
	feedbacks []models.Feedback

	carts map[string][]models.CartItem
	locks map[string]bool
}

func New() *Store {
	return &Store{
		users:          make(map[string]models.User),
		usersByEmail:   make(map[string]string),
		products:       make(map[string]models.Product),
		productsByName: make(map[string]string),
		orders:         make(map[string]models.Order),
		orderItems:     make(map[string][]models.OrderItem),
		carts:          make(map[string][]models.CartItem),
		locks:          make(map[string]bool),
	}
}

// --- store.UserStore ---

func (s *Store) Create(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByEmail[u.Email]; taken {
		return store.ErrConflict
	}
	s.usersByEmail[u.Email] = u.ID
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListByRole(_ context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}

// --- store.CatalogStore ---

type Catalog struct{ *Store }

func (s *Store) Catalog() Catalog { return Catalog{s} }

func (c Catalog) Create(_ context.Context, p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products[p.ID] = p
	c.productsByName[p.Name] = p.ID
	return nil
}

func (c Catalog) GetByID(_ context.Context, id string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (c Catalog) GetByName(_ context.Context, name string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.productsByName[name]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return c.products[id], nil
}

func (c Catalog) List(_ context.Context) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	return products, nil
}

func (c Catalog) SetImageURL(_ context.Context, id, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.ImageURL = url
	c.products[id] = p
	return nil
}

func (c Catalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(c.products, id)
	delete(c.productsByName, p.Name)
	return nil
}

// --- store.OrderStore ---

type Orders struct{ *Store }

func (s *Store) Orders() Orders { return Orders{s} }

func (o Orders) CreatePending(_ context.Context, order models.Order, items []models.OrderItem) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order.Status = models.OrderStatusPending
	order.Items = nil
	o.orders[order.ID] = order
	o.orderItems[order.ID] = append([]models.OrderItem(nil), items...)
	return nil
}

func (o Orders) Confirm(_ context.Context, order models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	stored, ok := o.orders[order.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.Status = models.OrderStatusConfirmed
	o.orders[order.ID] = stored
	return nil
}

func (o Orders) GetByID(_ context.Context, id string) (models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	order, ok := o.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return order, nil
}

func (o Orders) ItemsByOrder(_ context.Context, orderID string) ([]models.OrderItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return append([]models.OrderItem(nil), o.orderItems[orderID]...), nil
}

func (o Orders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var orders []models.Order
	for _, order := range o.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (o Orders) ListAll(_ context.Context) ([]models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	orders := make([]models.Order, 0, len(o.orders))
	for _, order := range o.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

func (o Orders) ListPending(_ context.Context, before time.Time) ([]models.Order, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var orders []models.Order
	for _, order := range o.orders {
		if order.Status == models.OrderStatusPending && order.CreatedAt.Before(before) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// --- store.RatingStore ---

type Ratings struct{ *Store }

func (s *Store) Ratings() Ratings { return Ratings{s} }

func (r Ratings) Append(_ context.Context, ratings []models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ratings = append(r.ratings, ratings...)
	return nil
}

func (r Ratings) ByOrder(_ context.Context, orderID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Rating
	for _, rating := range r.ratings {
		if rating.OrderID == orderID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (r Ratings) ByProduct(_ context.Context, productID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Rating
	for _, rating := range r.ratings {
		if rating.ProductID == productID {
			out = append(out, rating)
		}
	}
	return out, nil
}

// --- store.FeedbackStore ---

type Feedback struct{ *Store }

func (s *Store) Feedback() Feedback { return Feedback{s} }

func (f Feedback) Append(_ context.Context, fb models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.feedbacks = append(f.feedbacks, fb)
	return nil
}

func (f Feedback) ByUser(_ context.Context, userID string) ([]models.Feedback, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []models.Feedback
	for _, fb := range f.feedbacks {
		if fb.UserID == userID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f Feedback) ListAll(_ context.Context) ([]models.Feedback, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]models.Feedback(nil), f.feedbacks...), nil
}

// --- store.CartStore ---

type Cart struct{ *Store }

func (s *Store) Cart() Cart { return Cart{s} }

func (c Cart) Get(_ context.Context, userID string) ([]models.CartItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]models.CartItem{}, c.carts[userID]...), nil
}

func (c Cart) Put(_ context.Context, userID string, items []models.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(items) == 0 {
		delete(c.carts, userID)
		return nil
	}
	c.carts[userID] = append([]models.CartItem(nil), items...)
	return nil
}

func (c Cart) RemoveProducts(_ context.Context, userID string, productIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}

	var kept []models.CartItem
	for _, item := range c.carts[userID] {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		delete(c.carts, userID)
		return nil
	}
	c.carts[userID] = kept
	return nil
}

func (c Cart) Clear(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.carts, userID)
	return nil
}

// --- store.CheckoutLocker ---

type Locker struct{ *Store }

func (s *Store) Locker() Locker { return Locker{s} }

func (l Locker) Acquire(_ context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks[userID] {
		return false, nil
	}
	l.locks[userID] = true
	return true, nil
}

func (l Locker) Release(_ context.Context, userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, userID)
}
