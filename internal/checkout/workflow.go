// Package checkout turns a cart into a submitted order. One Workflow runs
// per client: Idle -> Submitting -> Confirmed | Failed, with a new attempt
// allowed from any state but Submitting.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// Order audit event types
const (
	EventOrderSubmitted = "order_submitted"
	EventOrderConfirmed = "order_confirmed"
	EventOrderFailed    = "order_failed"
	EventStatusChanged  = "order_status_changed"
)

// OrderStore is the order side of the content store
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	OrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// EventRecorder stores order audit events
type EventRecorder interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
}

// Cart is the part of the cart the workflow reads and clears
type Cart interface {
	Items() []domain.CartLine
	Clear(ctx context.Context) error
}

// BuyerFunc returns the signed-in user, or nil for a guest
type BuyerFunc func() *domain.User

// Status is a snapshot of the workflow
type Status struct {
	State       domain.CheckoutState `json:"state"`
	OrderNumber string               `json:"order_number,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Workflow is safe for concurrent use
type Workflow struct {
	clientID string
	orders   OrderStore
	events   EventRecorder
	cart     Cart
	buyer    BuyerFunc
	pricing  Pricing
	numbers  *OrderNumbers
	now      func() time.Time
	logger   *zap.Logger

	mu     sync.Mutex
	state  domain.CheckoutState
	number string
	errMsg string
}

// Options configures a Workflow. Events and Buyer are optional.
type Options struct {
	ClientID string
	Orders   OrderStore
	Events   EventRecorder
	Cart     Cart
	Buyer    BuyerFunc
	Pricing  Pricing
	Numbers  *OrderNumbers
	Logger   *zap.Logger
}

// NewWorkflow creates an idle workflow
func NewWorkflow(opts Options) *Workflow {
	w := &Workflow{
		clientID: opts.ClientID,
		orders:   opts.Orders,
		events:   opts.Events,
		cart:     opts.Cart,
		buyer:    opts.Buyer,
		pricing:  opts.Pricing,
		numbers:  opts.Numbers,
		now:      time.Now,
		logger:   opts.Logger,
		state:    domain.CheckoutIdle,
	}
	if w.buyer == nil {
		w.buyer = func() *domain.User { return nil }
	}
	if w.numbers == nil {
		w.numbers = NewOrderNumbers(DefaultOrderPrefix)
	}
	if w.pricing == (Pricing{}) {
		w.pricing = DefaultPricing()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Quote prices the current cart
func (w *Workflow) Quote() Totals {
	return w.pricing.Compute(w.cart.Items())
}

// Status returns the workflow state
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{State: w.state, OrderNumber: w.number, Error: w.errMsg}
}

// Submit validates the shipping form, snapshots the cart and submits the order.
// Validation failures return *errors.ErrValidation and change nothing.
// A store failure moves the workflow to Failed and keeps the cart.
func (w *Workflow) Submit(ctx context.Context, info domain.ShippingInfo) (*domain.Order, error) {
	w.mu.Lock()
	if !w.state.CanSubmit() {
		from := w.state
		w.mu.Unlock()
		return nil, &errors.ErrInvalidStateTransition{From: string(from), To: string(domain.CheckoutSubmitting)}
	}
	if err := ValidateShipping(info); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	lines := w.cart.Items()
	if len(lines) == 0 {
		w.mu.Unlock()
		return nil, &errors.ErrValidation{Message: "cart is empty", Fields: map[string]string{"cart": "empty"}}
	}

	order := w.buildOrder(normalizeShipping(info), lines)
	w.state = domain.CheckoutSubmitting
	w.number = order.OrderNumber
	w.errMsg = ""
	w.mu.Unlock()

	w.record(ctx, order.OrderNumber, EventOrderSubmitted, map[string]interface{}{
		"items": len(order.Items),
		"total": order.Total,
		"user":  order.UserRef,
	})

	if err := w.orders.CreateOrder(ctx, order); err != nil {
		w.mu.Lock()
		w.state = domain.CheckoutFailed
		w.errMsg = err.Error()
		w.mu.Unlock()

		w.logger.Error("Order submission failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
		w.record(ctx, order.OrderNumber, EventOrderFailed, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("submit order %s: %w", order.OrderNumber, err)
	}

	// The order exists remotely from here on; a cart that fails to clear is only logged
	if err := w.cart.Clear(ctx); err != nil {
		w.logger.Error("Failed to clear cart after order", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	w.mu.Lock()
	w.state = domain.CheckoutConfirmed
	w.mu.Unlock()

	w.logger.Info("Order confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.String("client_id", w.clientID),
		zap.Float64("total", order.Total),
	)
	w.record(ctx, order.OrderNumber, EventOrderConfirmed, map[string]interface{}{"id": order.ID})
	return order, nil
}

// Reset returns a finished workflow to Idle
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == domain.CheckoutSubmitting {
		return &errors.ErrInvalidStateTransition{From: string(w.state), To: string(domain.CheckoutIdle)}
	}
	w.state = domain.CheckoutIdle
	w.number = ""
	w.errMsg = ""
	return nil
}

// FetchByNumber returns (nil, nil) when no order has the number
func (w *Workflow) FetchByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return w.orders.OrderByNumber(ctx, orderNumber)
}

func (w *Workflow) buildOrder(info domain.ShippingInfo, lines []domain.CartLine) *domain.Order {
	totals := w.pricing.Compute(lines)

	items := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderLine{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
	}

	order := &domain.Order{
		OrderNumber:  w.numbers.Next(),
		UserRef:      domain.GuestUserRef,
		UserSnapshot: domain.UserSnapshot{Name: info.Name, Email: info.Email},
		Items:        items,
		Subtotal:     totals.Subtotal,
		Shipping:     totals.Shipping,
		Tax:          totals.Tax,
		Total:        totals.Total,
		Status:       domain.OrderStatusPending,
		ShippingInfo: info,
		CreatedAt:    w.now().UTC(),
	}

	if user := w.buyer(); user != nil {
		order.UserRef = user.ID
		if user.Name != "" {
			order.UserSnapshot.Name = user.Name
		}
		if user.Email != "" {
			order.UserSnapshot.Email = user.Email
		}
	}
	return order
}

func (w *Workflow) record(ctx context.Context, orderNumber, eventType string, data map[string]interface{}) {
	recordEvent(ctx, w.events, w.logger, &domain.OrderEvent{
		OrderNumber: orderNumber,
		ClientID:    w.clientID,
		EventType:   eventType,
		EventData:   data,
	})
}

// recordEvent never fails the caller; audit errors are logged
func recordEvent(ctx context.Context, events EventRecorder, logger *zap.Logger, event *domain.OrderEvent) {
	if events == nil {
		return
	}
	if err := events.Create(ctx, event); err != nil {
		logger.Warn("Failed to record order event",
			zap.String("order_number", event.OrderNumber),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
