package repositories

import (
	"fmt"

	"asicshop/internal/apperr"
	"asicshop/internal/models"
)

type memoryUserRepository struct {
	s *MemoryStore
}

// Create adds a new user. The email check and insert happen under one lock.
func (r *memoryUserRepository) Create(user *models.User) error {
	defer r.s.lock()()

	if _, ok := r.findByEmail(user.Email); ok {
		return fmt.Errorf("email %s: %w", user.Email, apperr.ErrDuplicateEmail)
	}

	r.s.seq.user++
	user.ID = r.s.seq.user
	user.IsActive = true
	user.CreatedAt = r.s.now()
	r.s.state.users[user.ID] = *user
	return nil
}

// GetByID returns a user by its ID.
func (r *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	defer r.s.rlock()()

	user, ok := r.s.state.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, apperr.ErrNotFound)
	}
	return &user, nil
}

// GetByEmail scans all users for the given email.
func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	defer r.s.rlock()()

	user, ok := r.findByEmail(email)
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, apperr.ErrNotFound)
	}
	return &user, nil
}

// Update merges upd over the stored user.
func (r *memoryUserRepository) Update(id uint, upd models.UserUpdate) (*models.User, error) {
	defer r.s.lock()()

	user, ok := r.s.state.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d not found for update: %w", id, apperr.ErrNotFound)
	}
	if upd.Email != nil && *upd.Email != user.Email {
		if other, taken := r.findByEmail(*upd.Email); taken && other.ID != id {
			return nil, fmt.Errorf("email %s: %w", *upd.Email, apperr.ErrDuplicateEmail)
		}
	}
	upd.Apply(&user)
	r.s.state.users[id] = user
	return &user, nil
}

// findByEmail expects the caller to hold the lock.
func (r *memoryUserRepository) findByEmail(email string) (models.User, bool) {
	for _, u := range r.s.state.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}
