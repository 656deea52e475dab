// Package checkout orchestrates payment: it turns the cart's derived totals
// into a gateway session, tracks the pending transaction, and on a success
// redirect validates the payment, records the order, and clears the cart.
package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tausif1337/remart/internal/catalog"
	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/event"
	"github.com/tausif1337/remart/internal/payment"
	"github.com/tausif1337/remart/internal/store"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/validator"
)

// pendingTTL is how long an initiated session may wait for its terminal
// redirect before the sweep discards it.
const pendingTTL = 30 * time.Minute

// sweepInterval is how often expired pending sessions are discarded.
const sweepInterval = time.Minute

// Gateway is the payment client surface checkout depends on.
type Gateway interface {
	InitiateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
	Validate(ctx context.Context, tranID string, amount float64, currency string) error
}

// Readiness gates checkout on hydration: there is no cart to charge until
// the startup snapshot has been applied.
type Readiness interface {
	IsReady() bool
}

// BeginResult is returned to the caller starting a checkout.
type BeginResult struct {
	TranID      string  `json:"tran_id"`
	RedirectURL string  `json:"redirect_url"`
	TotalAmount float64 `json:"total_amount"`
}

// pendingOrder holds everything needed to record the order once the gateway
// reports success.
type pendingOrder struct {
	userID    string
	items     []domain.CartItem
	total     float64
	customer  domain.CustomerInfo
	createdAt time.Time
}

// Service runs the checkout flow.
type Service struct {
	cart      *store.CartStore
	orders    catalog.OrderRepository
	gateway   Gateway
	readiness Readiness
	bus       *event.Bus
	logger    *slog.Logger
	currency  string

	mu      sync.Mutex
	pending map[string]pendingOrder

	now func() time.Time
}

// NewService creates the checkout service.
func NewService(
	cart *store.CartStore,
	orders catalog.OrderRepository,
	gateway Gateway,
	readiness Readiness,
	bus *event.Bus,
	logger *slog.Logger,
	currency string,
) *Service {
	return &Service{
		cart:      cart,
		orders:    orders,
		gateway:   gateway,
		readiness: readiness,
		bus:       bus,
		logger:    logger,
		currency:  currency,
		pending:   make(map[string]pendingOrder),
		now:       time.Now,
	}
}

// Begin validates the checkout form, initiates a gateway session for the
// cart's current total, and records the pending transaction. The cart is not
// touched until the gateway reports success.
func (s *Service) Begin(ctx context.Context, userID string, info domain.CustomerInfo) (*BeginResult, error) {
	if !s.readiness.IsReady() {
		return nil, apperrors.NotReady("storefront is still hydrating")
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	if err := validator.Validate(info); err != nil {
		return nil, err
	}

	tranID := uuid.New().String()
	total := domain.CartTotal(items)

	session, err := s.gateway.InitiateSession(ctx, payment.SessionRequest{
		TranID:   tranID,
		Amount:   total,
		Customer: info,
		Items:    items,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pending[tranID] = pendingOrder{
		userID:    userID,
		items:     items,
		total:     total,
		customer:  info,
		createdAt: s.now(),
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("tran_id", tranID),
		slog.String("user_id", userID),
		slog.Float64("total", total),
	)

	return &BeginResult{
		TranID:      tranID,
		RedirectURL: session.GatewayURL,
		TotalAmount: total,
	}, nil
}

// Complete consumes a terminal redirect outcome for a pending transaction.
// Success validates the payment, records the order, and clears the cart
// (which persists the empty snapshot). Fail and cancel discard the pending
// session and leave the cart untouched. A cancelled checkout returns a nil
// order with no error.
func (s *Service) Complete(ctx context.Context, outcome payment.Outcome, tranID string) (*domain.Order, error) {
	s.mu.Lock()
	p, ok := s.pending[tranID]
	if ok {
		delete(s.pending, tranID)
	}
	s.mu.Unlock()

	if !ok || s.now().Sub(p.createdAt) > pendingTTL {
		return nil, apperrors.NotFound("transaction", tranID)
	}

	switch outcome {
	case payment.OutcomeSuccess:
		return s.completeSuccess(ctx, tranID, p)

	case payment.OutcomeFail:
		s.logger.WarnContext(ctx, "payment failed", slog.String("tran_id", tranID))
		return nil, apperrors.PaymentFailed("payment was not completed")

	case payment.OutcomeCancel:
		s.logger.InfoContext(ctx, "payment cancelled", slog.String("tran_id", tranID))
		return nil, nil

	default:
		// Unknown redirect; restore the pending session so a later terminal
		// redirect can still complete it.
		s.mu.Lock()
		s.pending[tranID] = p
		s.mu.Unlock()
		return nil, apperrors.InvalidInput("unrecognized payment outcome")
	}
}

func (s *Service) completeSuccess(ctx context.Context, tranID string, p pendingOrder) (*domain.Order, error) {
	if err := s.gateway.Validate(ctx, tranID, p.total, s.currency); err != nil {
		return nil, err
	}

	order, err := s.orders.Save(ctx, domain.Order{
		UserID:        p.userID,
		Items:         p.items,
		TotalAmount:   p.total,
		Status:        domain.OrderStatusProcessing,
		CustomerInfo:  p.customer,
		TransactionID: tranID,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "record order")
	}

	// The external payment flow owns clearing the cart on success; this also
	// persists the empty snapshot.
	s.cart.Clear()

	s.bus.Publish(event.TopicOrderPlaced, event.OrderPlacedData{
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		TransactionID: tranID,
	})

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("tran_id", tranID),
		slog.Float64("total", order.TotalAmount),
	)

	return order, nil
}

// RunSweeper discards expired pending sessions until ctx is done. Run it in
// its own goroutine.
func (s *Service) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	cutoff := s.now().Add(-pendingTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for tranID, p := range s.pending {
		if p.createdAt.Before(cutoff) {
			delete(s.pending, tranID)
			s.logger.Warn("pending checkout expired", slog.String("tran_id", tranID))
		}
	}
}

// PendingCount reports the number of sessions awaiting a terminal redirect.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
