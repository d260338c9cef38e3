package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/model"
	"github.com/and161185/agenda/internal/repository"
)

// enricher attaches owner and category summaries to events. Lookups are
// memoised for the lifetime of one operation; missing records are remembered
// as nil and skipped.
type enricher struct {
	users      repository.UserRepository
	categories repository.CategoryRepository

	userSeen map[uuid.UUID]*model.UserSummary
	catSeen  map[uuid.UUID]*model.CategorySummary
}

func newEnricher(users repository.UserRepository, categories repository.CategoryRepository) *enricher {
	return &enricher{
		users:      users,
		categories: categories,
		userSeen:   map[uuid.UUID]*model.UserSummary{},
		catSeen:    map[uuid.UUID]*model.CategorySummary{},
	}
}

func (e *enricher) user(ctx context.Context, id uuid.UUID) (*model.UserSummary, error) {
	if s, ok := e.userSeen[id]; ok {
		return s, nil
	}
	u, err := e.users.GetByID(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		e.userSeen[id] = nil
		return nil, nil
	case err != nil:
		return nil, err
	}
	e.userSeen[id] = u.Summary()
	return e.userSeen[id], nil
}

func (e *enricher) category(ctx context.Context, id uuid.UUID) (*model.CategorySummary, error) {
	if s, ok := e.catSeen[id]; ok {
		return s, nil
	}
	c, err := e.categories.GetByID(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		e.catSeen[id] = nil
		return nil, nil
	case err != nil:
		return nil, err
	}
	e.catSeen[id] = c.Summary()
	return e.catSeen[id], nil
}

// event fills ev.User and ev.Category when the referenced records exist.
func (e *enricher) event(ctx context.Context, ev *model.Event) error {
	u, err := e.user(ctx, ev.OwnerUserID)
	if err != nil {
		return err
	}
	ev.User = u
	ev.Category = nil
	if ev.CategoryID != nil {
		c, err := e.category(ctx, *ev.CategoryID)
		if err != nil {
			return err
		}
		ev.Category = c
	}
	return nil
}

func (e *enricher) events(ctx context.Context, evs []model.Event) error {
	for i := range evs {
		if err := e.event(ctx, &evs[i]); err != nil {
			return err
		}
	}
	return nil
}
