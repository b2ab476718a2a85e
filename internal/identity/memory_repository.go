package identity

import (
	"context"
	"sync"

	"github.com/placefinder/placefinder/internal/apperr"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for development and
// tests. It enforces the same uniqueness rules as the users table.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(user.ID, user.Username, user.Email); err != nil {
		return err
	}
	r.users[user.ID] = user
	return nil
}

// checkUnique must be called with the lock held.
func (r *memoryRepository) checkUnique(id, username, email string) error {
	for _, u := range r.users {
		if u.ID == id {
			continue
		}
		if email != "" && u.Email == email {
			return apperr.New(apperr.CodeDuplicateEmail, "Bad request: Email already exists.")
		}
		if username != "" && u.Username == username {
			return apperr.New(apperr.CodeDuplicateUsername, "Bad request: Username already exists.")
		}
	}
	return nil
}

func (r *memoryRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *memoryRepository) UpdateUsername(_ context.Context, id, username string) error {
	return r.update(id, func(u *User) error {
		if err := r.checkUnique(id, username, ""); err != nil {
			return err
		}
		u.Username = username
		return nil
	})
}

func (r *memoryRepository) UpdateEmail(_ context.Context, id, email string) error {
	return r.update(id, func(u *User) error {
		if err := r.checkUnique(id, "", email); err != nil {
			return err
		}
		u.Email = email
		return nil
	})
}

func (r *memoryRepository) UpdatePassword(_ context.Context, id, salt, hash string) error {
	return r.update(id, func(u *User) error {
		u.PasswordSalt, u.PasswordHash = salt, hash
		return nil
	})
}

func (r *memoryRepository) UpdatePasswordByEmail(_ context.Context, email, salt, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			u.PasswordSalt, u.PasswordHash = salt, hash
			r.users[id] = u
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepository) update(id string, apply func(*User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if err := apply(&user); err != nil {
		return err
	}
	r.users[id] = user
	return nil
}
