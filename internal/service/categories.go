package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
	"github.com/and161185/agenda/internal/repository"
	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/validate"
)

// ownerUserId is checked by the identifier codec, not by type.
var categorySchema = validate.Schema{
	{Name: "name", Type: validate.Text},
	{Name: "color", Type: validate.Text},
	{Name: "description", Type: validate.Text},
}

// CategoryService manages a user's event categories.
type CategoryService struct {
	categories repository.CategoryRepository
	deps
}

// Create validates in and inserts a category; a missing color gets the default.
func (s *CategoryService) Create(ctx context.Context, in validate.Input) result.Result[*model.Category] {
	return result.Run(ctx, s.rep, "category.create", func(ctx context.Context) (*model.Category, error) {
		if err := check(in, categorySchema, "name", "ownerUserId"); err != nil {
			return nil, err
		}
		owner, err := ref(in, "ownerUserId")
		if err != nil {
			return nil, err
		}
		color := model.DefaultCategoryColor
		if validate.Present(in, "color") {
			color = *text(in, "color")
		}
		now := s.now()
		c := &model.Category{
			Name:        *text(in, "name"),
			Color:       color,
			Description: optText(in, "description").Value,
			OwnerUserID: *owner,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.categories.Create(ctx, c); err != nil {
			return nil, err
		}
		out, err := s.categories.GetByID(ctx, c.ID)
		if err != nil {
			return nil, missing(err, "category")
		}
		s.log.Info("category created", zap.String("id", ident.String(out.ID)))
		return out, nil
	})
}

// GetByID loads a category.
func (s *CategoryService) GetByID(ctx context.Context, id string) result.Result[*model.Category] {
	return result.Run(ctx, s.rep, "category.get", func(ctx context.Context) (*model.Category, error) {
		cid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		c, err := s.categories.GetByID(ctx, cid)
		if err != nil {
			return nil, missing(err, "category")
		}
		return c, nil
	})
}

// ListByOwner returns a user's categories, oldest first.
func (s *CategoryService) ListByOwner(ctx context.Context, ownerID string) result.Result[[]model.Category] {
	return result.Run(ctx, s.rep, "category.list_by_owner", func(ctx context.Context) ([]model.Category, error) {
		owner, err := ident.Parse(ownerID)
		if err != nil {
			return nil, err
		}
		return s.categories.ListByOwner(ctx, owner)
	})
}

// Update changes the supplied fields of a category. A null or empty color
// resets it to the default.
func (s *CategoryService) Update(ctx context.Context, id string, in validate.Input) result.Result[*model.Category] {
	return result.Run(ctx, s.rep, "category.update", func(ctx context.Context) (*model.Category, error) {
		if err := validate.Types(in, categorySchema); err != nil {
			return nil, err
		}
		if err := notNull(in, "name", "ownerUserId"); err != nil {
			return nil, err
		}
		cid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		if _, err := s.categories.GetByID(ctx, cid); err != nil {
			return nil, missing(err, "category")
		}
		owner, err := ref(in, "ownerUserId")
		if err != nil {
			return nil, err
		}

		p := model.CategoryPatch{
			Name:        text(in, "name"),
			Description: optText(in, "description"),
			OwnerUserID: owner,
			UpdatedAt:   s.now(),
		}
		if validate.Supplied(in, "color") {
			color := model.DefaultCategoryColor
			if validate.Present(in, "color") {
				color = *text(in, "color")
			}
			p.Color = &color
		}

		c, err := s.categories.Update(ctx, cid, p)
		if err != nil {
			return nil, missing(err, "category")
		}
		s.log.Info("category updated", zap.String("id", id))
		return c, nil
	})
}

// Delete removes a category. Events keep their now dangling reference.
func (s *CategoryService) Delete(ctx context.Context, id string) result.Result[string] {
	return result.Run(ctx, s.rep, "category.delete", func(ctx context.Context) (string, error) {
		cid, err := ident.Parse(id)
		if err != nil {
			return "", err
		}
		if err := s.categories.Delete(ctx, cid); err != nil {
			return "", missing(err, "category")
		}
		s.log.Info("category deleted", zap.String("id", id))
		return "category deleted", nil
	})
}
