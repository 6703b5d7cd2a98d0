package repository

import (
	"context"
	"errors"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
)

// ErrNotFound is returned when a record does not exist. For orders this also
// covers records owned by another user; the two cases are indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert hits the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}
