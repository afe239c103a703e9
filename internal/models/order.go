package models

import "time"

// Order statuses. Transitions are not enforced.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// ValidOrderStatus reports whether status is one of the known order statuses.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem represents a single line of an order.
type OrderItem struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint   `json:"orderId" gorm:"index"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price" gorm:"type:varchar(32)"` // unit price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        *uint       `json:"userId" gorm:"index"`
	SessionID     *string     `json:"-" gorm:"index;type:varchar(64)"` // placing session for guest checkout
	Name          string      `json:"name" gorm:"type:varchar(255)"`
	Email         string      `json:"email" gorm:"type:varchar(255)"`
	Phone         string      `json:"phone" gorm:"type:varchar(64)"`
	Country       string      `json:"country" gorm:"type:varchar(128)"`
	City          string      `json:"city" gorm:"type:varchar(128)"`
	Address       string      `json:"address" gorm:"type:text"`
	PaymentMethod string      `json:"paymentMethod" gorm:"type:varchar(64)"`
	TotalAmount   string      `json:"totalAmount" gorm:"type:varchar(32)"`
	Comment       *string     `json:"comment" gorm:"type:text"`
	Status        string      `json:"status" gorm:"type:varchar(32)"`
	Items         []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `json:"createdAt"`
}
