package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fsanano/storefront/internal/events"
	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/repository"

	"github.com/rs/zerolog"
)

// OrderStore is the persistence the order flow needs. *repository.Repository
// satisfies it.
type OrderStore interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	OrderNumberExists(ctx context.Context, number int) (bool, error)
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	CreateOrderItems(ctx context.Context, orderID int, items []model.OrderItem) error
	DecrementStock(ctx context.Context, productSizeID, qty int) (bool, error)
	ListOrderLines(ctx context.Context, userID int) ([]model.OrderLine, error)
}

type OrderService struct {
	store          OrderStore
	publisher      events.Publisher
	numbers        *OrderNumberGenerator
	decrementStock bool
	log            zerolog.Logger
	now            func() time.Time
}

type OrderOption func(*OrderService)

// WithStockDecrement controls whether placing an order takes the ordered
// quantities out of stock in the same transaction.
func WithStockDecrement(enabled bool) OrderOption {
	return func(s *OrderService) { s.decrementStock = enabled }
}

func WithOrderNumbers(g *OrderNumberGenerator) OrderOption {
	return func(s *OrderService) { s.numbers = g }
}

func WithPublisher(p events.Publisher) OrderOption {
	return func(s *OrderService) { s.publisher = p }
}

func NewOrderService(store OrderStore, log zerolog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		store:          store,
		publisher:      events.NopPublisher{},
		numbers:        NewOrderNumberGenerator(),
		decrementStock: true,
		log:            log,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PlaceOrderInput struct {
	UserID          int
	Status          string
	ShippingAddress string
	PaymentMethod   string
	// CartItems is required; nil means missing while an empty slice is a
	// valid zero-total order.
	CartItems []model.CartItem
}

type PlacedOrder struct {
	OrderID     int `json:"orderId"`
	OrderNumber int `json:"orderNumber"`
}

// PlaceOrder prices the cart and writes the order header and its line items
// as one transaction. Either every row commits or none does.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlacedOrder, error) {
	if err := validatePlaceOrder(in); err != nil {
		return PlacedOrder{}, err
	}

	pricing := Price(in.CartItems)

	var (
		order model.Order
		err   error
	)
	// A concurrent order can commit the same number between the existence
	// check and the insert; the whole transaction is retried with a new draw.
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order, err = s.insertOrder(ctx, in, pricing)
		if !errors.Is(err, errOrderNumberTaken) {
			break
		}
	}
	if err != nil {
		return PlacedOrder{}, s.placeOrderError(in, err)
	}

	s.log.Info().
		Int("order_id", order.ID).
		Int("order_number", order.OrderNumber).
		Int("user_id", order.UserID).
		Str("order_total", order.OrderTotal.String()).
		Int("items", len(in.CartItems)).
		Msg("order placed")

	s.publishPlaced(ctx, order, len(in.CartItems))

	return PlacedOrder{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

var errOrderNumberTaken = errors.New("order number taken")

// insertOrder writes the order header, its line items and the stock
// decrements as one transaction.
func (s *OrderService) insertOrder(ctx context.Context, in PlaceOrderInput, pricing Pricing) (model.Order, error) {
	var order model.Order
	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, s.store.OrderNumberExists)
		if err != nil {
			return fmt.Errorf("draw order number: %w", err)
		}

		order, err = s.store.CreateOrder(ctx, model.Order{
			OrderNumber:     number,
			UserID:          in.UserID,
			Status:          strings.TrimSpace(in.Status),
			ShippingAddress: strings.TrimSpace(in.ShippingAddress),
			PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
			Subtotal:        pricing.Subtotal,
			TaxAmount:       pricing.TaxAmount,
			OrderTotal:      pricing.Total,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %d", errOrderNumberTaken, number)
		}
		if err != nil {
			return writeError("insert order", err)
		}

		items := make([]model.OrderItem, 0, len(pricing.Items))
		for _, it := range pricing.Items {
			items = append(items, model.OrderItem{
				OrderID:      order.ID,
				ProductID:    it.ProductID,
				SizeID:       it.SizeID,
				Quantity:     it.Quantity,
				PricePerUnit: model.NewMoney(it.PricePerUnit.Round(2)),
			})
		}
		if err := s.store.CreateOrderItems(ctx, order.ID, items); err != nil {
			return writeError("insert order items", err)
		}

		if s.decrementStock {
			return s.takeStock(ctx, in.CartItems)
		}
		return nil
	})
	return order, err
}

// takeStock decrements every size once with its total ordered quantity.
// Sizes are visited in id order so concurrent orders lock rows in the same
// sequence.
func (s *OrderService) takeStock(ctx context.Context, items []model.CartItem) error {
	wanted := make(map[int]int, len(items))
	for _, it := range items {
		wanted[it.SizeID] += it.Quantity
	}
	sizeIDs := make([]int, 0, len(wanted))
	for id := range wanted {
		sizeIDs = append(sizeIDs, id)
	}
	sort.Ints(sizeIDs)

	for _, id := range sizeIDs {
		ok, err := s.store.DecrementStock(ctx, id, wanted[id])
		if err != nil {
			return writeError("decrement stock", err)
		}
		if !ok {
			return fmt.Errorf("%w: product size %d", ErrInsufficientStock, id)
		}
	}
	return nil
}

func (s *OrderService) placeOrderError(in PlaceOrderInput, err error) error {
	switch {
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrValidation):
		s.log.Warn().Err(err).Int("user_id", in.UserID).Msg("order rejected")
		return err
	case errors.Is(err, ErrWrite):
		s.log.Error().Err(err).Int("user_id", in.UserID).Msg("order placement failed")
		return err
	}
	s.log.Error().Err(err).Int("user_id", in.UserID).Msg("order placement failed")
	return fmt.Errorf("%w: %v", ErrWrite, err)
}

func (s *OrderService) publishPlaced(ctx context.Context, order model.Order, itemCount int) {
	err := s.publisher.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Subtotal:    order.Subtotal,
		TaxAmount:   order.TaxAmount,
		OrderTotal:  order.OrderTotal,
		ItemCount:   itemCount,
		PlacedAt:    s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Int("order_id", order.ID).Msg("failed to publish order event")
	}
}

// ListOrders returns the joined order history rows of a user.
func (s *OrderService) ListOrders(ctx context.Context, userID int) ([]model.OrderLine, error) {
	if userID <= 0 {
		return nil, validationf("user id must be positive")
	}
	lines, err := s.store.ListOrderLines(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("failed to list orders")
		return nil, readError("orders", err)
	}
	if lines == nil {
		lines = []model.OrderLine{}
	}
	return lines, nil
}

func validatePlaceOrder(in PlaceOrderInput) error {
	var missing []string
	if in.UserID <= 0 {
		missing = append(missing, "user_id")
	}
	if strings.TrimSpace(in.Status) == "" {
		missing = append(missing, "status")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		missing = append(missing, "shipping_address")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if in.CartItems == nil {
		missing = append(missing, "cartItems")
	}
	if len(missing) > 0 {
		return validationf("missing %s", strings.Join(missing, ", "))
	}

	for i, it := range in.CartItems {
		switch {
		case it.ProductID <= 0:
			return validationf("cartItems[%d]: product_id required", i)
		case it.SizeID <= 0:
			return validationf("cartItems[%d]: size_id required", i)
		case it.Quantity < 1:
			return validationf("cartItems[%d]: quantity must be at least 1", i)
		case it.PricePerUnit.IsNegative():
			return validationf("cartItems[%d]: price_per_unit must not be negative", i)
		}
	}
	return nil
}
