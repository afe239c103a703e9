package services

import (
	"context"
	"fmt"

	"asicshop/internal/apperr"
	"asicshop/internal/events"
	"asicshop/internal/models"
	"asicshop/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlaceOrderInput carries the contact and shipping details of a checkout.
type PlaceOrderInput struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Email         string  `json:"email" validate:"required,email,max=255"`
	Phone         string  `json:"phone" validate:"required,phone"`
	Country       string  `json:"country" validate:"required,max=128"`
	City          string  `json:"city" validate:"required,max=128"`
	Address       string  `json:"address" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,max=64"`
	TotalAmount   string  `json:"totalAmount" validate:"required,decimal"`
	Comment       *string `json:"comment"`
}

// OrderService turns carts into orders.
type OrderService struct {
	store     repositories.Store
	locks     *OwnerLocks
	publisher events.Publisher
	log       *zap.Logger
}

// NewOrderService creates a new OrderService. A nil publisher disables events.
func NewOrderService(store repositories.Store, publisher events.Publisher, log *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		store:     store,
		locks:     NewOwnerLocks(),
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrder creates an order from owner's cart and empties the cart. The
// submitted total is stored as given. Concurrent checkouts of one owner are
// serialized and either the whole order is written or nothing is.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput, owner models.Owner) (*models.Order, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(owner.Key())
	defer unlock()

	var (
		order    *models.Order
		subtotal decimal.Decimal
	)
	err := s.store.Transaction(func(tx repositories.Store) error {
		lines, err := resolveLines(tx, owner, s.log)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyCart
		}
		subtotal, _ = totals(lines)

		order = &models.Order{
			UserID:        owner.UserID,
			Name:          in.Name,
			Email:         in.Email,
			Phone:         in.Phone,
			Country:       in.Country,
			City:          in.City,
			Address:       in.Address,
			PaymentMethod: in.PaymentMethod,
			TotalAmount:   in.TotalAmount,
			Comment:       in.Comment,
			Status:        models.OrderStatusPending,
		}
		if !owner.Authenticated() {
			sid := owner.SessionID
			order.SessionID = &sid
		}
		if err := tx.Orders().Create(order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		order.Items = make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.Product.Price,
			}
			if err := tx.Orders().CreateItem(&item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			order.Items = append(order.Items, item)
		}

		return tx.Cart().ClearOwner(owner)
	})
	if err != nil {
		return nil, err
	}

	if submitted, err := decimal.NewFromString(in.TotalAmount); err == nil && submitted.LessThan(subtotal) {
		s.log.Warn("order total below cart subtotal",
			zap.Uint("order_id", order.ID),
			zap.String("submitted", submitted.StringFixed(2)),
			zap.String("subtotal", subtotal.StringFixed(2)),
		)
	}

	if err := s.publisher.PublishOrderCreated(ctx, events.NewOrderCreated(*order)); err != nil {
		s.log.Warn("failed to publish order created event", zap.Uint("order_id", order.ID), zap.Error(err))
	} else {
		s.log.Info("order placed", zap.Uint("order_id", order.ID), zap.Int("items", len(order.Items)))
	}
	return order, nil
}

// ListForUser returns the orders of userID.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	return s.store.Orders().ListByUser(userID)
}

// Get returns an order with its items if requester owns it. A user owns the
// orders placed under their ID. A guest order belongs to the session that
// placed it.
func (s *OrderService) Get(orderID uint, requester models.Owner) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !ownsOrder(requester, order) {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrForbidden)
	}
	return order, nil
}

// UpdateStatus sets an order's status to any known status.
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%q: %w", status, apperr.ErrInvalidStatus)
	}
	order, err := s.store.Orders().UpdateStatus(orderID, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("order status updated", zap.Uint("order_id", orderID), zap.String("status", status))
	return order, nil
}

func ownsOrder(requester models.Owner, order *models.Order) bool {
	if order.UserID != nil {
		return requester.UserID != nil && *requester.UserID == *order.UserID
	}
	return order.SessionID != nil && requester.SessionID != "" && *order.SessionID == requester.SessionID
}
