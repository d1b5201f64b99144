package ports

import (
	"context"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
