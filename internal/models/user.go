package models

import "time"

// User represents a customer account of the store.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // stored as submitted, never serialized
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Phone     *string   `json:"phone" gorm:"type:varchar(64)"`
	Country   *string   `json:"country" gorm:"type:varchar(128)"`
	City      *string   `json:"city" gorm:"type:varchar(128)"`
	Address   *string   `json:"address" gorm:"type:text"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	Password *string
	Name     *string
	Phone    *string
	Country  *string
	City     *string
	Address  *string
}

// Apply merges the non-nil fields of u into user.
func (u UserUpdate) Apply(user *User) {
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Phone != nil {
		user.Phone = u.Phone
	}
	if u.Country != nil {
		user.Country = u.Country
	}
	if u.City != nil {
		user.City = u.City
	}
	if u.Address != nil {
		user.Address = u.Address
	}
}
