package service

import (
	"fmt"

	"github.com/fsdevblog/orderdesk/internal/service/psswd"
	"github.com/fsdevblog/orderdesk/pkg/uow"
)

type AppServices struct {
	UserService  *UserService
	OrderService *OrderService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, psswd.PasswordHash(""))

	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	return &AppServices{
		UserService:  userService,
		OrderService: orderService,
	}, nil
}
