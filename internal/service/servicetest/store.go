// Package servicetest provides an in-memory store for exercising the
// services and handlers without PostgreSQL.
package servicetest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/repository"
)

type txKey struct{}

// Store implements every store interface of the service package. Errors
// follow the repository conventions (repository.ErrNotFound, ErrDuplicate,
// ErrConstraint). RunAtomic restores the previous state when fn fails; it is
// not meant for concurrent transactions.
type Store struct {
	mu sync.Mutex

	categories map[int]model.Category
	products   map[int]model.Product
	sizes      map[int]model.ProductSize
	users      map[int]model.User
	orders     map[int]model.Order
	items      map[int]model.OrderItem
	nextID     int

	// TakenOrderNumbers are reported as existing by OrderNumberExists.
	TakenOrderNumbers map[int]bool

	// Fault injection. A non-nil error is returned by the matching call.
	CreateOrderErr      error
	// CreateOrderFailures limits CreateOrderErr to that many calls; zero
	// means every call fails.
	CreateOrderFailures int
	CreateOrderItemsErr error
	ReadErr             error

	writes int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		categories:        map[int]model.Category{},
		products:          map[int]model.Product{},
		sizes:             map[int]model.ProductSize{},
		users:             map[int]model.User{},
		orders:            map[int]model.Order{},
		items:             map[int]model.OrderItem{},
		TakenOrderNumbers: map[int]bool{},
		now:               time.Now,
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// Seeding helpers.

func (s *Store) AddCategory(name string) model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Category{ID: s.id(), Name: name, CreatedAt: s.now()}
	s.categories[c.ID] = c
	return c
}

func (s *Store) AddProduct(categoryID int, title, price string) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Product{
		ID:         s.id(),
		CategoryID: categoryID,
		Title:      title,
		Price:      model.MustMoney(price),
		CreatedAt:  s.now(),
	}
	s.products[p.ID] = p
	return p
}

func (s *Store) AddSize(productID int, size string, qty int) model.ProductSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := model.ProductSize{ID: s.id(), ProductID: productID, Size: size, QuantityAvailable: qty}
	s.sizes[ps.ID] = ps
	return ps
}

// Inspection helpers.

// Writes counts successful mutating calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.orders, func(o model.Order) int { return o.ID })
}

func (s *Store) OrderItems(orderID int) []model.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.OrderItem
	for _, it := range sortedValues(s.items, func(it model.OrderItem) int { return it.ID }) {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) Quantity(productSizeID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sizes[productSizeID].QuantityAvailable
}

func (s *Store) User(userID int) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}

// RunAtomic runs fn and rolls the store back to its prior state if fn
// returns an error. Nested calls join the outer unit.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	sizes  map[int]model.ProductSize
	users  map[int]model.User
	orders map[int]model.Order
	items  map[int]model.OrderItem
	nextID int
	writes int
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		sizes:  maps.Clone(s.sizes),
		users:  maps.Clone(s.users),
		orders: maps.Clone(s.orders),
		items:  maps.Clone(s.items),
		nextID: s.nextID,
		writes: s.writes,
	}
}

func (s *Store) restore(snap snapshot) {
	s.sizes = snap.sizes
	s.users = snap.users
	s.orders = snap.orders
	s.items = snap.items
	s.nextID = snap.nextID
	s.writes = snap.writes
}

// Catalog

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return sortedValues(s.categories, func(c model.Category) int { return c.ID }), nil
}

func (s *Store) SearchProducts(ctx context.Context, search string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	search = strings.ToLower(search)
	var out []model.Product
	for _, p := range sortedValues(s.products, func(p model.Product) int { return p.ID }) {
		if strings.Contains(strings.ToLower(p.Title), search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) ListProductsByCategory(ctx context.Context, categoryID int) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	var out []model.Product
	for _, p := range sortedValues(s.products, func(p model.Product) int { return p.ID }) {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, productID int) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return model.Product{}, s.ReadErr
	}
	p, ok := s.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product: %w", repository.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListProductSizes(ctx context.Context, productID int) ([]model.ProductSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	var out []model.ProductSize
	for _, ps := range sortedValues(s.sizes, func(ps model.ProductSize) int { return ps.ID }) {
		if ps.ProductID == productID {
			out = append(out, ps)
		}
	}
	return out, nil
}

// Inventory

func (s *Store) GetQuantityAvailable(ctx context.Context, productSizeID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return 0, s.ReadErr
	}
	ps, ok := s.sizes[productSizeID]
	if !ok {
		return 0, fmt.Errorf("get quantity: %w", repository.ErrNotFound)
	}
	return ps.QuantityAvailable, nil
}

func (s *Store) SetQuantityAvailable(ctx context.Context, productSizeID int, qty *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.sizes[productSizeID]
	if !ok {
		return fmt.Errorf("set quantity: %w", repository.ErrNotFound)
	}
	ps.QuantityAvailable = 0
	if qty != nil {
		ps.QuantityAvailable = *qty
	}
	if ps.QuantityAvailable < 0 {
		return fmt.Errorf("set quantity: %w", repository.ErrConstraint)
	}
	s.sizes[productSizeID] = ps
	s.writes++
	return nil
}

func (s *Store) FindSizeID(ctx context.Context, productID int, size string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return 0, s.ReadErr
	}
	for _, ps := range sortedValues(s.sizes, func(ps model.ProductSize) int { return ps.ID }) {
		if ps.ProductID == productID && ps.Size == size {
			return ps.ID, nil
		}
	}
	return 0, fmt.Errorf("find size id: %w", repository.ErrNotFound)
}

func (s *Store) DecrementStock(ctx context.Context, productSizeID, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.sizes[productSizeID]
	if !ok || ps.QuantityAvailable < qty {
		return false, nil
	}
	ps.QuantityAvailable -= qty
	s.sizes[productSizeID] = ps
	s.writes++
	return true, nil
}

// Orders

func (s *Store) OrderNumberExists(ctx context.Context, number int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TakenOrderNumbers[number] {
		return true, nil
	}
	for _, o := range s.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateOrderErr != nil {
		err := s.CreateOrderErr
		if s.CreateOrderFailures > 0 {
			s.CreateOrderFailures--
			if s.CreateOrderFailures == 0 {
				s.CreateOrderErr = nil
			}
		}
		return model.Order{}, err
	}
	if _, ok := s.users[o.UserID]; !ok {
		return model.Order{}, fmt.Errorf("create order: %w", repository.ErrConstraint)
	}
	o.ID = s.id()
	o.CreatedAt = s.now()
	s.orders[o.ID] = o
	s.writes++
	return o, nil
}

func (s *Store) CreateOrderItems(ctx context.Context, orderID int, items []model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateOrderItemsErr != nil {
		return s.CreateOrderItemsErr
	}
	if _, ok := s.orders[orderID]; !ok {
		return fmt.Errorf("create order items: %w", repository.ErrConstraint)
	}
	for _, it := range items {
		if _, ok := s.products[it.ProductID]; !ok {
			return fmt.Errorf("create order items: product %d: %w", it.ProductID, repository.ErrConstraint)
		}
		if _, ok := s.sizes[it.SizeID]; !ok {
			return fmt.Errorf("create order items: size %d: %w", it.SizeID, repository.ErrConstraint)
		}
		it.ID = s.id()
		it.OrderID = orderID
		it.CreatedAt = s.now()
		s.items[it.ID] = it
		s.writes++
	}
	return nil
}

func (s *Store) ListOrderLines(ctx context.Context, userID int) ([]model.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	orders := sortedValues(s.orders, func(o model.Order) int { return o.ID })
	slices.Reverse(orders)
	items := sortedValues(s.items, func(it model.OrderItem) int { return it.ID })

	var out []model.OrderLine
	for _, o := range orders {
		if o.UserID != userID {
			continue
		}
		for _, it := range items {
			if it.OrderID != o.ID {
				continue
			}
			out = append(out, model.OrderLine{
				OrderID:         o.ID,
				OrderNumber:     o.OrderNumber,
				OrderTotal:      o.OrderTotal,
				Status:          o.Status,
				ShippingAddress: o.ShippingAddress,
				PaymentMethod:   o.PaymentMethod,
				Subtotal:        o.Subtotal,
				TaxAmount:       o.TaxAmount,
				CreatedAt:       o.CreatedAt,
				Quantity:        it.Quantity,
				PricePerUnit:    it.PricePerUnit,
				ItemTitle:       s.products[it.ProductID].Title,
				ItemSize:        s.sizes[it.SizeID].Size,
			})
		}
	}
	return out, nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	s.writes++
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return model.User{}, s.ReadErr
	}
	u, ok := s.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user: %w", repository.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return model.User{}, s.ReadErr
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("get user: %w", repository.ErrNotFound)
}

func (s *Store) UpdateUserName(ctx context.Context, userID int, firstName, lastName string) error {
	return s.updateUser(userID, func(u *model.User) error {
		u.FirstName, u.LastName = firstName, lastName
		return nil
	})
}

func (s *Store) UpdateUserEmail(ctx context.Context, userID int, email string) error {
	return s.updateUser(userID, func(u *model.User) error {
		for id, other := range s.users {
			if id != userID && other.Email == email {
				return fmt.Errorf("update user email: %w", repository.ErrDuplicate)
			}
		}
		u.Email = email
		return nil
	})
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID int, passwordHash string) error {
	return s.updateUser(userID, func(u *model.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
}

func (s *Store) updateUser(userID int, fn func(u *model.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	if err := fn(&u); err != nil {
		return err
	}
	now := s.now()
	u.UpdatedAt = &now
	s.users[userID] = u
	s.writes++
	return nil
}

func sortedValues[V any](m map[int]V, id func(V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
