package repository

import (
	"context"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// UserRepository defines the storage operations for back-office users.
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
}
