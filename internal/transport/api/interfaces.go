package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type OrderServicer interface {
	Create(ctx context.Context, userID int64, args service.CreateOrderArgs) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetByID(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	Update(ctx context.Context, userID, orderID int64, args service.UpdateOrderArgs) (*domain.Order, error)
}
