package ports

import (
	"context"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
)

// RegisterInput carries the data needed to register a new portal user.
type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       string
	Department string // officials only
}

// AuthService performs registration and credential matching. This is not a
// full authorization system: it only matches credentials and issues a signed
// token carrying the user's role.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
