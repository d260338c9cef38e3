package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
	"github.com/and161185/agenda/internal/repository"
	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/validate"
)

// ownerUserId and categoryId are checked by the identifier codec, not by type.
var eventSchema = validate.Schema{
	{Name: "title", Type: validate.Text},
	{Name: "description", Type: validate.Text},
	{Name: "startAt", Type: validate.Timestamp},
	{Name: "endAt", Type: validate.Timestamp},
	{Name: "location", Type: validate.Text},
	{Name: "recurrence", Type: validate.Text},
	{Name: "reminderMinutes", Type: validate.Number},
}

var rangeSchema = validate.Schema{
	{Name: "startDate", Type: validate.Timestamp},
	{Name: "endDate", Type: validate.Timestamp},
}

// EventService manages scheduled events. Every returned event carries the
// summaries of its owner and category when those still exist.
type EventService struct {
	events     repository.EventRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	deps
}

func (s *EventService) enricher() *enricher { return newEnricher(s.users, s.categories) }

// Create validates in and inserts an event.
func (s *EventService) Create(ctx context.Context, in validate.Input) result.Result[*model.Event] {
	return result.Run(ctx, s.rep, "event.create", func(ctx context.Context) (*model.Event, error) {
		if err := check(in, eventSchema, "title", "startAt", "ownerUserId"); err != nil {
			return nil, err
		}
		start, end := stamp(in, "startAt"), stamp(in, "endAt")
		if err := checkSpan(*start, end); err != nil {
			return nil, err
		}
		rec, err := recurrence(in)
		if err != nil {
			return nil, err
		}
		remind, err := reminder(in)
		if err != nil {
			return nil, err
		}
		owner, err := ref(in, "ownerUserId")
		if err != nil {
			return nil, err
		}
		cat, err := ref(in, "categoryId")
		if err != nil {
			return nil, err
		}

		now := s.now()
		ev := &model.Event{
			Title:           *text(in, "title"),
			Description:     optText(in, "description").Value,
			StartAt:         *start,
			EndAt:           end,
			Location:        optText(in, "location").Value,
			OwnerUserID:     *owner,
			CategoryID:      cat,
			Recurrence:      rec.Value,
			ReminderMinutes: remind.Value,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.events.Create(ctx, ev); err != nil {
			return nil, err
		}
		out, err := s.events.GetByID(ctx, ev.ID)
		if err != nil {
			return nil, missing(err, "event")
		}
		if err := s.enricher().event(ctx, out); err != nil {
			return nil, err
		}
		s.log.Info("event created", zap.String("id", ident.String(out.ID)))
		return out, nil
	})
}

// GetByID loads an event.
func (s *EventService) GetByID(ctx context.Context, id string) result.Result[*model.Event] {
	return result.Run(ctx, s.rep, "event.get", func(ctx context.Context) (*model.Event, error) {
		eid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		ev, err := s.events.GetByID(ctx, eid)
		if err != nil {
			return nil, missing(err, "event")
		}
		if err := s.enricher().event(ctx, ev); err != nil {
			return nil, err
		}
		return ev, nil
	})
}

// ListByOwner returns a user's events ordered by start time.
func (s *EventService) ListByOwner(ctx context.Context, ownerID string) result.Result[[]model.Event] {
	return result.Run(ctx, s.rep, "event.list_by_owner", func(ctx context.Context) ([]model.Event, error) {
		owner, err := ident.Parse(ownerID)
		if err != nil {
			return nil, err
		}
		evs, err := s.events.ListByOwner(ctx, owner)
		if err != nil {
			return nil, err
		}
		return evs, s.enricher().events(ctx, evs)
	})
}

// ListByDateRange returns events intersecting [start, end], ordered by start
// time. An empty ownerID lists events of every owner.
func (s *EventService) ListByDateRange(ctx context.Context, start, end any, ownerID string) result.Result[[]model.Event] {
	return result.Run(ctx, s.rep, "event.list_by_date_range", func(ctx context.Context) ([]model.Event, error) {
		in := validate.Input{"startDate": start, "endDate": end}
		if err := check(in, rangeSchema, "startDate", "endDate"); err != nil {
			return nil, err
		}
		from, to := stamp(in, "startDate"), stamp(in, "endDate")
		if to.Before(*from) {
			return nil, errs.Validation("endDate must not be before startDate")
		}
		owner, err := optOwner(ownerID)
		if err != nil {
			return nil, err
		}
		evs, err := s.events.ListByDateRange(ctx, *from, *to, owner)
		if err != nil {
			return nil, err
		}
		return evs, s.enricher().events(ctx, evs)
	})
}

// ListByCategory returns a category's events ordered by start time,
// optionally narrowed to one owner.
func (s *EventService) ListByCategory(ctx context.Context, categoryID, ownerID string) result.Result[[]model.Event] {
	return result.Run(ctx, s.rep, "event.list_by_category", func(ctx context.Context) ([]model.Event, error) {
		cat, err := ident.Parse(categoryID)
		if err != nil {
			return nil, err
		}
		owner, err := optOwner(ownerID)
		if err != nil {
			return nil, err
		}
		evs, err := s.events.ListByCategory(ctx, cat, owner)
		if err != nil {
			return nil, err
		}
		return evs, s.enricher().events(ctx, evs)
	})
}

// Update changes the supplied fields of an event. The effective start and end
// are re-checked against each other.
func (s *EventService) Update(ctx context.Context, id string, in validate.Input) result.Result[*model.Event] {
	return result.Run(ctx, s.rep, "event.update", func(ctx context.Context) (*model.Event, error) {
		if err := validate.Types(in, eventSchema); err != nil {
			return nil, err
		}
		if err := notNull(in, "title", "startAt", "ownerUserId"); err != nil {
			return nil, err
		}
		rec, err := recurrence(in)
		if err != nil {
			return nil, err
		}
		remind, err := reminder(in)
		if err != nil {
			return nil, err
		}
		eid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		cur, err := s.events.GetByID(ctx, eid)
		if err != nil {
			return nil, missing(err, "event")
		}

		start := stamp(in, "startAt")
		var endAt model.Opt[time.Time]
		if validate.Supplied(in, "endAt") {
			endAt = model.Opt[time.Time]{Set: true, Value: stamp(in, "endAt")}
		}
		effStart := cur.StartAt
		if start != nil {
			effStart = *start
		}
		if err := checkSpan(effStart, endAt.Or(cur.EndAt)); err != nil {
			return nil, err
		}

		owner, err := ref(in, "ownerUserId")
		if err != nil {
			return nil, err
		}
		cat, err := optRef(in, "categoryId")
		if err != nil {
			return nil, err
		}

		ev, err := s.events.Update(ctx, eid, model.EventPatch{
			Title:           text(in, "title"),
			Description:     optText(in, "description"),
			StartAt:         start,
			EndAt:           endAt,
			Location:        optText(in, "location"),
			OwnerUserID:     owner,
			CategoryID:      cat,
			Recurrence:      rec,
			ReminderMinutes: remind,
			UpdatedAt:       s.now(),
		})
		if err != nil {
			return nil, missing(err, "event")
		}
		if err := s.enricher().event(ctx, ev); err != nil {
			return nil, err
		}
		s.log.Info("event updated", zap.String("id", id))
		return ev, nil
	})
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) result.Result[string] {
	return result.Run(ctx, s.rep, "event.delete", func(ctx context.Context) (string, error) {
		eid, err := ident.Parse(id)
		if err != nil {
			return "", err
		}
		if err := s.events.Delete(ctx, eid); err != nil {
			return "", missing(err, "event")
		}
		s.log.Info("event deleted", zap.String("id", id))
		return "event deleted", nil
	})
}

func optOwner(ownerID string) (*uuid.UUID, error) {
	if ownerID == "" {
		return nil, nil
	}
	id, err := ident.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
