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

var userSchema = validate.Schema{
	{Name: "name", Type: validate.Text},
	{Name: "email", Type: validate.Text},
	{Name: "password", Type: validate.Text},
}

// UserService manages user accounts.
type UserService struct {
	users repository.UserRepository
	deps
}

// Create validates in and inserts a user. Email must be unique.
func (s *UserService) Create(ctx context.Context, in validate.Input) result.Result[*model.User] {
	return result.Run(ctx, s.rep, "user.create", func(ctx context.Context) (*model.User, error) {
		if err := check(in, userSchema, "name", "email", "password"); err != nil {
			return nil, err
		}
		now := s.now()
		u := &model.User{
			Name:      *text(in, "name"),
			Email:     *text(in, "email"),
			Password:  *text(in, "password"),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		out, err := s.users.GetByID(ctx, u.ID)
		if err != nil {
			return nil, missing(err, "user")
		}
		s.log.Info("user created", zap.String("id", ident.String(out.ID)))
		return out, nil
	})
}

// GetByID loads a user.
func (s *UserService) GetByID(ctx context.Context, id string) result.Result[*model.User] {
	return result.Run(ctx, s.rep, "user.get", func(ctx context.Context) (*model.User, error) {
		uid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		u, err := s.users.GetByID(ctx, uid)
		if err != nil {
			return nil, missing(err, "user")
		}
		return u, nil
	})
}

// GetByEmail loads a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) result.Result[*model.User] {
	return result.Run(ctx, s.rep, "user.get_by_email", func(ctx context.Context) (*model.User, error) {
		if err := validate.Required(validate.Input{"email": email}, "email"); err != nil {
			return nil, err
		}
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, missing(err, "user")
		}
		return u, nil
	})
}

// List returns all users, oldest first.
func (s *UserService) List(ctx context.Context) result.Result[[]model.User] {
	return result.Run(ctx, s.rep, "user.list", func(ctx context.Context) ([]model.User, error) {
		return s.users.List(ctx)
	})
}

// Update changes the supplied fields of a user.
func (s *UserService) Update(ctx context.Context, id string, in validate.Input) result.Result[*model.User] {
	return result.Run(ctx, s.rep, "user.update", func(ctx context.Context) (*model.User, error) {
		if err := validate.Types(in, userSchema); err != nil {
			return nil, err
		}
		if err := notNull(in, userSchema.Names()...); err != nil {
			return nil, err
		}
		uid, err := ident.Parse(id)
		if err != nil {
			return nil, err
		}
		if _, err := s.users.GetByID(ctx, uid); err != nil {
			return nil, missing(err, "user")
		}
		u, err := s.users.Update(ctx, uid, model.UserPatch{
			Name:      text(in, "name"),
			Email:     text(in, "email"),
			Password:  text(in, "password"),
			UpdatedAt: s.now(),
		})
		if err != nil {
			return nil, missing(err, "user")
		}
		s.log.Info("user updated", zap.String("id", id))
		return u, nil
	})
}

// Delete removes a user. Owned categories and events are left in place.
func (s *UserService) Delete(ctx context.Context, id string) result.Result[string] {
	return result.Run(ctx, s.rep, "user.delete", func(ctx context.Context) (string, error) {
		uid, err := ident.Parse(id)
		if err != nil {
			return "", err
		}
		if err := s.users.Delete(ctx, uid); err != nil {
			return "", missing(err, "user")
		}
		s.log.Info("user deleted", zap.String("id", id))
		return "user deleted", nil
	})
}
