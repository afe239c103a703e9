package models

import (
	"strconv"
	"time"
)

// Owner identifies whose cart an operation applies to. When UserID is set the
// cart is keyed on the user, otherwise on SessionID.
type Owner struct {
	UserID    *uint
	SessionID string
}

// Authenticated reports whether the owner carries a user identity.
func (o Owner) Authenticated() bool {
	return o.UserID != nil
}

// Key returns a string that is stable for the owner, suitable for locking.
func (o Owner) Key() string {
	if o.UserID != nil {
		return "user:" + strconv.FormatUint(uint64(*o.UserID), 10)
	}
	return "session:" + o.SessionID
}

// Matches reports whether the cart item belongs to the owner.
func (o Owner) Matches(item CartItem) bool {
	if o.UserID != nil {
		return item.UserID != nil && *item.UserID == *o.UserID
	}
	return o.SessionID != "" && item.SessionID != nil && *item.SessionID == o.SessionID
}

// CartItem is a product placed in a cart by a user or an anonymous session.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *uint     `json:"userId" gorm:"index"`
	SessionID *string   `json:"sessionId" gorm:"index;type:varchar(64)"`
	ProductID uint      `json:"productId" gorm:"index"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartLine is a cart item joined with its product.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// NewCartItem builds an item for owner, setting exactly one of the owner columns.
func NewCartItem(owner Owner, productID uint, quantity int) CartItem {
	item := CartItem{ProductID: productID, Quantity: quantity}
	if owner.UserID != nil {
		id := *owner.UserID
		item.UserID = &id
	} else {
		sid := owner.SessionID
		item.SessionID = &sid
	}
	return item
}
