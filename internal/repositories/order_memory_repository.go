package repositories

import (
	"fmt"
	"slices"

	"asicshop/internal/apperr"
	"asicshop/internal/models"
)

type memoryOrderRepository struct {
	s *MemoryStore
}

// Create adds a new order. Items are stored separately via CreateItem.
func (r *memoryOrderRepository) Create(order *models.Order) error {
	defer r.s.lock()()

	r.s.seq.order++
	order.ID = r.s.seq.order
	order.CreatedAt = r.s.now()
	stored := *order
	stored.Items = nil
	r.s.state.orders[order.ID] = stored
	return nil
}

// CreateItem adds an order line to an existing order.
func (r *memoryOrderRepository) CreateItem(item *models.OrderItem) error {
	defer r.s.lock()()

	if _, ok := r.s.state.orders[item.OrderID]; !ok {
		return fmt.Errorf("order with ID %d: %w", item.OrderID, apperr.ErrNotFound)
	}
	r.s.seq.orderItem++
	item.ID = r.s.seq.orderItem
	r.s.state.orderItems[item.ID] = *item
	return nil
}

// GetByID returns an order with its items.
func (r *memoryOrderRepository) GetByID(id uint) (*models.Order, error) {
	defer r.s.rlock()()

	order, ok := r.s.state.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d: %w", id, apperr.ErrNotFound)
	}
	order.Items = r.itemsOf(id)
	return &order, nil
}

// ListByUser returns the user's orders ordered by ID, without items.
func (r *memoryOrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	defer r.s.rlock()()

	orderList := make([]models.Order, 0)
	for _, order := range r.s.state.orders {
		if order.UserID != nil && *order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	slices.SortFunc(orderList, func(a, b models.Order) int { return int(a.ID) - int(b.ID) })
	return orderList, nil
}

// ListItems returns the lines of an order.
func (r *memoryOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	defer r.s.rlock()()
	return r.itemsOf(orderID), nil
}

// UpdateStatus overwrites the status of an order.
func (r *memoryOrderRepository) UpdateStatus(id uint, status string) (*models.Order, error) {
	defer r.s.lock()()

	order, ok := r.s.state.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d not found for status update: %w", id, apperr.ErrNotFound)
	}
	order.Status = status
	r.s.state.orders[id] = order
	order.Items = r.itemsOf(id)
	return &order, nil
}

func (r *memoryOrderRepository) itemsOf(orderID uint) []models.OrderItem {
	items := make([]models.OrderItem, 0)
	for _, item := range r.s.state.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b models.OrderItem) int { return int(a.ID) - int(b.ID) })
	return items
}
