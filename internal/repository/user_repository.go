package repository // repository holds data access logic for accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/storage"
	"github.com/iliyamo/lab-lighting/internal/utils"
)

// UsersKey names the blob that holds every account.
func UsersKey(prefix string) string { return prefix + ":users" }

// UserRepo keeps accounts in memory and writes the full list to the backend
// on every change.  Account writes are synchronous: a failed write is
// reported and the change rolled back.
type UserRepo struct {
	mu      sync.RWMutex
	users   []model.User
	backend storage.Backend
	key     string
	lastID  int64
}

// NewUserRepo loads the account list from the backend (an absent blob means
// no accounts yet).
func NewUserRepo(ctx context.Context, backend storage.Backend, prefix string) (*UserRepo, error) {
	r := &UserRepo{backend: backend, key: UsersKey(prefix)}
	bs, err := backend.Get(ctx, r.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("read users: %w", err)
	default:
		if err := json.Unmarshal(bs, &r.users); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
	}
	return r, nil
}

// Create adds an account with a bcrypt hash of password.  Emails are
// compared case-insensitively; a duplicate returns ErrConflict.
func (r *UserRepo) Create(ctx context.Context, email, name, password, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return model.User{}, ErrConflict
		}
	}
	u := model.User{ID: r.newID(), Email: email, Name: name, PasswordHash: hash, Role: role}
	prev := r.users
	r.users = append(append([]model.User(nil), r.users...), u)
	if err := r.save(ctx); err != nil {
		r.users = prev
		return model.User{}, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin when no account has that email.
// It reports whether an account was created.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, password string, cost int) (bool, error) {
	if _, err := r.GetByEmail(email); err == nil {
		return false, nil
	}
	if password == "" {
		return false, errors.New("ADMIN_PASSWORD required to create the bootstrap admin")
	}
	if _, err := r.Create(ctx, email, "Administrator", password, model.RoleAdmin, cost); err != nil {
		return false, err
	}
	return true, nil
}

// GetByEmail returns the account with the given email.
func (r *UserRepo) GetByEmail(email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// GetByID returns the account with the given id.
func (r *UserRepo) GetByID(id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// ListByRole returns the accounts with role, ordered by email.
func (r *UserRepo) ListByRole(role string) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// Delete removes an account by id.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, u := range r.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUserNotFound
	}
	prev := r.users
	next := make([]model.User, 0, len(r.users)-1)
	next = append(next, r.users[:idx]...)
	r.users = append(next, r.users[idx+1:]...)
	if err := r.save(ctx); err != nil {
		r.users = prev
		return err
	}
	return nil
}

// save writes the full list.  Caller holds mu.
func (r *UserRepo) save(ctx context.Context) error {
	bs, err := json.Marshal(r.users)
	if err != nil {
		return err
	}
	if err := r.backend.Put(ctx, r.key, bs); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

// newID mirrors the time-derived ids of the lab store.  Caller holds mu.
func (r *UserRepo) newID() string {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return "u" + strconv.FormatInt(id, 10)
}
