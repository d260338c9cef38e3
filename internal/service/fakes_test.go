package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/model"
	"github.com/and161185/agenda/internal/repository"
)

// memStore is an in-memory backend for all three repositories.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]model.User
	categories map[uuid.UUID]model.Category
	events     map[uuid.UUID]model.Event

	writes  int   // successful inserts, updates and deletes
	failGet error // returned by every GetByID when set
	failAll error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]model.User{},
		categories: map[uuid.UUID]model.Category{},
		events:     map[uuid.UUID]model.Event{},
	}
}

func (m *memStore) stores() repository.Stores {
	return repository.Stores{Users: fakeUsers{m}, Categories: fakeCategories{m}, Events: fakeEvents{m}}
}

type fakeUsers struct{ m *memStore }
type fakeCategories struct{ m *memStore }
type fakeEvents struct{ m *memStore }

var (
	_ repository.UserRepository     = fakeUsers{}
	_ repository.CategoryRepository = fakeCategories{}
	_ repository.EventRepository    = fakeEvents{}
)

func (f fakeUsers) Create(_ context.Context, u *model.User) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	for _, x := range m.users {
		if x.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	u.ID = uuid.Must(uuid.NewV4())
	m.users[u.ID] = *u
	m.writes++
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f fakeUsers) List(_ context.Context) ([]model.User, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := []model.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeUsers) Update(_ context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if p.Email != nil {
		for _, x := range m.users {
			if x.ID != id && x.Email == *p.Email {
				return nil, errs.ErrAlreadyExists
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	u.UpdatedAt = p.UpdatedAt
	m.users[id] = u
	m.writes++
	return &u, nil
}

func (f fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.users, id)
	m.writes++
	return nil
}

func (f fakeCategories) Create(_ context.Context, c *model.Category) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	c.ID = uuid.Must(uuid.NewV4())
	m.categories[c.ID] = *c
	m.writes++
	return nil
}

func (f fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	if m.failGet != nil {
		return nil, m.failGet
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

func (f fakeCategories) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Category, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := []model.Category{}
	for _, c := range m.categories {
		if c.OwnerUserID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeCategories) Update(_ context.Context, id uuid.UUID, p model.CategoryPatch) (*model.Category, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	c.Description = p.Description.Or(c.Description)
	if p.OwnerUserID != nil {
		c.OwnerUserID = *p.OwnerUserID
	}
	c.UpdatedAt = p.UpdatedAt
	m.categories[id] = c
	m.writes++
	return &c, nil
}

func (f fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.categories[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.categories, id)
	m.writes++
	return nil
}

func (f fakeEvents) Create(_ context.Context, e *model.Event) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	e.ID = uuid.Must(uuid.NewV4())
	m.events[e.ID] = *e
	m.writes++
	return nil
}

func (f fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	e, ok := m.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &e, nil
}

func (f fakeEvents) list(keep func(model.Event) bool) ([]model.Event, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := []model.Event{}
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (f fakeEvents) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Event, error) {
	return f.list(func(e model.Event) bool { return e.OwnerUserID == ownerID })
}

func between(t, from, to time.Time) bool { return !t.Before(from) && !t.After(to) }

func (f fakeEvents) ListByDateRange(_ context.Context, from, to time.Time, ownerID *uuid.UUID) ([]model.Event, error) {
	return f.list(func(e model.Event) bool {
		if ownerID != nil && e.OwnerUserID != *ownerID {
			return false
		}
		if between(e.StartAt, from, to) {
			return true
		}
		if e.EndAt == nil {
			return false
		}
		return between(*e.EndAt, from, to) || (!e.StartAt.After(from) && !e.EndAt.Before(to))
	})
}

func (f fakeEvents) ListByCategory(_ context.Context, categoryID uuid.UUID, ownerID *uuid.UUID) ([]model.Event, error) {
	return f.list(func(e model.Event) bool {
		if e.CategoryID == nil || *e.CategoryID != categoryID {
			return false
		}
		return ownerID == nil || e.OwnerUserID == *ownerID
	})
}

func (f fakeEvents) Update(_ context.Context, id uuid.UUID, p model.EventPatch) (*model.Event, error) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	e, ok := m.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.StartAt != nil {
		e.StartAt = *p.StartAt
	}
	if p.OwnerUserID != nil {
		e.OwnerUserID = *p.OwnerUserID
	}
	e.Description = p.Description.Or(e.Description)
	e.EndAt = p.EndAt.Or(e.EndAt)
	e.Location = p.Location.Or(e.Location)
	e.CategoryID = p.CategoryID.Or(e.CategoryID)
	e.Recurrence = p.Recurrence.Or(e.Recurrence)
	e.ReminderMinutes = p.ReminderMinutes.Or(e.ReminderMinutes)
	e.UpdatedAt = p.UpdatedAt
	m.events[id] = e
	m.writes++
	return &e, nil
}

func (f fakeEvents) Delete(_ context.Context, id uuid.UUID) error {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.events[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.events, id)
	m.writes++
	return nil
}

// fakeTx runs on the same store and records how it ended.
type fakeTx struct {
	m         *memStore
	committed bool
	rolled    bool
	commitErr error
}

func (t *fakeTx) Stores() repository.Stores { return t.m.stores() }

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.committed {
		return nil
	}
	t.rolled = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (repository.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

var errDisk = errors.New("disk on fire")
