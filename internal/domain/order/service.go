// internal/domain/order/service.go
package order

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
	"github.com/your-org/coffee-backend/internal/pkg/txn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store persists orders. Get returns nil, nil for an unknown id.
type Store interface {
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
}

// HistoryWriter appends points ledger entries
type HistoryWriter interface {
	AppendHistory(ctx context.Context, entry *reward.HistoryEntry) error
}

// Service handles order business logic
type Service struct {
	store   Store
	history HistoryWriter
	cart    *cart.Service
	loyalty *loyalty.Service
	tx      txn.Transactor
	locks   *keylock.Locker
	policy  Policy
	log     logrus.FieldLogger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewService creates a new order service
func NewService(
	store Store,
	history HistoryWriter,
	cartService *cart.Service,
	loyaltyService *loyalty.Service,
	tx txn.Transactor,
	locks *keylock.Locker,
	policy Policy,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		store:   store,
		history: history,
		cart:    cartService,
		loyalty: loyaltyService,
		tx:      tx,
		locks:   locks,
		policy:  policy,
		log:     log,
		tracer:  otel.Tracer("coffee-backend/order"),
		now:     time.Now,
	}
}

// Result is returned after an order is placed
type Result struct {
	Order          *Order          `json:"order"`
	PointsEarned   int64           `json:"points_earned"`
	PointsUsed     int64           `json:"points_used"`
	VouchersUsed   int             `json:"vouchers_used"`
	DiscountAmount int64           `json:"discount_amount"`
	Loyalty        loyalty.Summary `json:"loyalty"`
}

// PlaceOrder turns the customer's cart into an order. The order, the member's
// new balance and the ledger entries are written in one transaction; the cart
// is cleared only after it commits.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, req *PlaceRequest) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "order.place",
		trace.WithAttributes(
			attribute.String("customer.id", customerID),
			attribute.Bool("use.points", req.UsePoints),
			attribute.Int64("points.requested", req.PointsToUse),
			attribute.Int("vouchers.requested", req.UseVouchers),
		),
	)
	defer span.End()

	unlock := s.locks.Lock(customerID)
	defer unlock()

	result, err := s.place(ctx, customerID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.CodeOf(err)))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", result.Order.ID),
		attribute.Int64("order.total", int64(result.Order.Total)),
		attribute.Int64("points.earned", result.PointsEarned),
	)
	return result, nil
}

func (s *Service) place(ctx context.Context, customerID string, req *PlaceRequest) (*Result, error) {
	c, err := s.cart.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	member, err := s.loyalty.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	plan, err := s.policy.Plan(c.Snapshot(), *member, *req, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Insert(ctx, plan.Order); err != nil {
			return apperror.Store("failed to create order", err)
		}
		if err := s.loyalty.Save(ctx, plan.Member); err != nil {
			return err
		}
		for i := range plan.History {
			if err := s.history.AppendHistory(ctx, &plan.History[i]); err != nil {
				return apperror.Store("failed to append reward history", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Store("order transaction failed", err)
	}

	// The order is committed, so clearing the cart must outlive the request deadline.
	// Log error but don't fail the order
	if err := s.cart.Discard(context.WithoutCancel(ctx), customerID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID,
			"order_id":    plan.Order.ID,
		}).Warn("failed to clear cart after order creation")
	}

	s.log.WithFields(logrus.Fields{
		"customer_id":   customerID,
		"order_id":      plan.Order.ID,
		"total":         plan.Order.Total,
		"discount":      plan.DiscountAmount,
		"points_used":   plan.PointsUsed,
		"vouchers_used": plan.VouchersUsed,
		"points_earned": plan.PointsEarned,
		"stamps":        plan.Member.Account.Stamps,
	}).Info("order placed")

	s.loyalty.Publish(plan.Member)

	return &Result{
		Order:          plan.Order,
		PointsEarned:   plan.PointsEarned,
		PointsUsed:     plan.PointsUsed,
		VouchersUsed:   plan.VouchersUsed,
		DiscountAmount: int64(plan.DiscountAmount),
		Loyalty:        plan.Member.Summary(),
	}, nil
}

// GetOrder retrieves an order by id
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, apperror.Store("failed to get order", err)
	}
	if order == nil {
		return nil, apperror.NotFound(apperror.CodeOrderNotFound, "order %q not found", id)
	}
	return order, nil
}

// ListOrders returns a customer's orders, newest first
func (s *Service) ListOrders(ctx context.Context, customerID string) ([]Order, error) {
	orders, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.Store("failed to list orders", err)
	}
	return orders, nil
}

// CancelOrder cancels an active order. Points spent or earned are not reverted.
func (s *Service) CancelOrder(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, StatusCancelled)
}

// CompleteOrder marks an active order as completed
func (s *Service) CompleteOrder(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, StatusCompleted)
}

func (s *Service) transition(ctx context.Context, id string, next Status) (*Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(order.CustomerID)
	defer unlock()

	// Re-read under the lock so two transitions cannot both pass the check
	order, err = s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperror.State(apperror.CodeInvalidTransition,
			"cannot move order %s from %s to %s", id, order.Status, next)
	}

	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, apperror.Store("failed to update order status", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"from":     order.Status,
		"to":       next,
	}).Info("order status changed")

	order.Status = next
	order.UpdatedAt = s.now().UTC()
	return order, nil
}
