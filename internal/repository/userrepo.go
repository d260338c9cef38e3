// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/agenda/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for users.
type UserRepository interface {
	// Create inserts a new user and assigns u.ID.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]model.User, error)
	// Update applies the supplied fields and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error)
	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Stores bundles the entity repositories sharing one storage handle.
type Stores struct {
	Users      UserRepository
	Categories CategoryRepository
	Events     EventRepository
}

// Tx is a caller-driven transaction whose repositories all run inside it.
type Tx interface {
	// Stores returns repositories bound to the transaction.
	Stores() Stores
	// Commit makes the transaction's writes durable.
	Commit(ctx context.Context) error
	// Rollback aborts the transaction; calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}

// TxBeginner opens transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}
