package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
)

const userCols = `id, name, email, password, created_at, updated_at`

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ src source }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{src: db} }

// Create inserts a new user row, assigning its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	q, err := r.src.querier()
	if err != nil {
		return err
	}
	id, err := ident.New()
	if err != nil {
		return err
	}
	const ins = `
INSERT INTO users (id, name, email, password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = q.Exec(ctx, ins, id, u.Name, u.Email, u.Password, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	return scanUser(q.QueryRow(ctx, sel, id))
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + userCols + ` FROM users WHERE email=$1`
	return scanUser(q.QueryRow(ctx, sel, email))
}

// List returns all users, oldest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + userCols + ` FROM users ORDER BY created_at ASC`
	rows, err := q.Query(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update sets the supplied columns and returns the updated row.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Email != nil {
		s.add("email", *p.Email)
	}
	if p.Password != nil {
		s.add("password", *p.Password)
	}
	s.add("updated_at", p.UpdatedAt)

	sql, args := s.update("users", id, userCols)
	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if isUniqueViolation(err) {
		return nil, errs.ErrAlreadyExists
	}
	return u, err
}

// Delete removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.src, "users", id)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFoundOr(err)
	}
	return &u, nil
}
