package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/model"
)

const categoryCols = `id, name, color, description, owner_user_id, created_at, updated_at`

// CategoryRepo implements CategoryRepository using PostgreSQL.
type CategoryRepo struct{ src source }

// NewCategoryRepo constructs a category repository.
func NewCategoryRepo(db *DB) *CategoryRepo { return &CategoryRepo{src: db} }

// Create inserts a new category row, assigning its ID.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	q, err := r.src.querier()
	if err != nil {
		return err
	}
	id, err := ident.New()
	if err != nil {
		return err
	}
	const ins = `
INSERT INTO categories (id, name, color, description, owner_user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := q.Exec(ctx, ins, id, c.Name, c.Color, c.Description, c.OwnerUserID, c.CreatedAt, c.UpdatedAt); err != nil {
		return err
	}
	c.ID = id
	return nil
}

// GetByID selects a category by ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + categoryCols + ` FROM categories WHERE id=$1`
	return scanCategory(q.QueryRow(ctx, sel, id))
}

// ListByOwner returns the owner's categories, oldest first.
func (r *CategoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Category, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + categoryCols + ` FROM categories WHERE owner_user_id=$1 ORDER BY created_at ASC`
	rows, err := q.Query(ctx, sel, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update sets the supplied columns and returns the updated row.
func (r *CategoryRepo) Update(ctx context.Context, id uuid.UUID, p model.CategoryPatch) (*model.Category, error) {
	q, err := r.src.querier()
	if err != nil {
		return nil, err
	}
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Color != nil {
		s.add("color", *p.Color)
	}
	if p.Description.Set {
		s.add("description", p.Description.Value)
	}
	if p.OwnerUserID != nil {
		s.add("owner_user_id", *p.OwnerUserID)
	}
	s.add("updated_at", p.UpdatedAt)

	sql, args := s.update("categories", id, categoryCols)
	return scanCategory(q.QueryRow(ctx, sql, args...))
}

// Delete removes a category row.
func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.src, "categories", id)
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Description, &c.OwnerUserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}
