package v1

import (
	"context"
	"sort"
	"time"

	"github.com/ordercrm/crm-service/internal/core/domain"
)

// In-memory repository fakes implementing the domain contracts, including
// the (nil, nil) absent convention and the storage sentinels.

type fakeUserRepo struct {
	byID map[string]*domain.UserRow

	lastLoginErr   error
	lastLoginCalls []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.UserRow)}
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.UserRow, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.UserRow, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.UserRow, error) {
	var rows []domain.UserRow
	for _, u := range f.byID {
		cp := *u
		cp.PasswordHash = ""
		rows = append(rows, cp)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.UserRow) error {
	for _, u := range f.byID {
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.UserRow) error {
	existing, ok := f.byID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, u := range f.byID {
		if id != user.ID && u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}
	existing.Username = user.Username
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Role = user.Role
	if user.PasswordHash != "" {
		existing.PasswordHash = user.PasswordHash
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	f.lastLoginCalls = append(f.lastLoginCalls, id)
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	if u, ok := f.byID[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int, error) {
	count := 0
	for _, u := range f.byID {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	users    *fakeUserRepo

	createErr error
	deleteErr error
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session), users: users}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValid(_ context.Context, sessionID string, now time.Time) (*domain.SessionUserRow, error) {
	s, ok := f.sessions[sessionID]
	if !ok || !now.Before(s.ExpiresAt) {
		return nil, nil
	}
	u, ok := f.users.byID[s.UserID]
	if !ok {
		return nil, nil
	}
	return &domain.SessionUserRow{Session: *s, User: *u}, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionRepo) DeleteAllForUser(_ context.Context, userID string) error {
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for id, s := range f.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(f.sessions, id)
			count++
		}
	}
	return count, nil
}

type fakeOrderRepo struct {
	orders []domain.Order

	batchErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (f *fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, len(f.orders))
	copy(out, f.orders)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	for i := range f.orders {
		if f.orders[i].ID == order.ID {
			created := f.orders[i].CreatedAt
			f.orders[i] = *order
			f.orders[i].CreatedAt = created
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeOrderRepo) DeleteAll(_ context.Context) error {
	f.orders = nil
	return nil
}

func (f *fakeOrderRepo) CreateBatch(_ context.Context, orders []domain.Order) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.orders = append(f.orders, orders...)
	return nil
}
