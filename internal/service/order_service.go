package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/repository/repoargs"
	"github.com/fsdevblog/orderdesk/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

type CreateOrderArgs struct {
	ItemName        string
	Quantity        int32
	Price           decimal.Decimal
	ShippingAddress string
	PaymentStatus   domain.PaymentStatusType
}

// Create создает новый заказ. Владельцем заказа всегда становится userID - значение приходит
// из валидированного токена, клиент повлиять на него не может. Возвращает созданный заказ и ошибку.
func (o *OrderService) Create(ctx context.Context, userID int64, args CreateOrderArgs) (*domain.Order, error) {
	order, createErr := o.orderRepo.CreateOrder(ctx, repoargs.CreateOrder{
		UserID:          userID,
		ItemName:        args.ItemName,
		Quantity:        args.Quantity,
		Price:           args.Price,
		ShippingAddress: args.ShippingAddress,
		PaymentStatus:   args.PaymentStatus,
	})
	if createErr != nil {
		return nil, fmt.Errorf("creating order: %w", createErr)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера userID отсортированные по дате создания по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetByID возвращает заказ orderID при условии что он принадлежит юзеру userID.
// Если заказа нет - domain.ErrRecordNotFound. Если заказ принадлежит другому юзеру -
// domain.ErrAccessDenied, данные заказа при этом наружу не отдаются.
func (o *OrderService) GetByID(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", orderID, err)
	}
	if !order.OwnedBy(userID) {
		return nil, fmt.Errorf("getting order %d: %w", orderID, domain.ErrAccessDenied)
	}
	return order, nil
}

type UpdateOrderArgs struct {
	ShippingAddress *string
	PaymentStatus   *domain.PaymentStatusType
}

// Update изменяет заказ orderID юзера userID. Изменяемы только адрес доставки и статус оплаты,
// отсутствующие (nil) поля остаются нетронутыми. Проверка владения выполняется до любой мутации,
// внутри той же транзакции что и запись (строка блокируется через SELECT ... FOR UPDATE).
//
// Возвращаемые ошибки:
//   - domain.ErrRecordNotFound - заказа не существует;
//   - domain.ErrAccessDenied - заказ принадлежит другому юзеру;
//   - *domain.InvalidStatusTransitionError - недопустимый переход статуса оплаты.
func (o *OrderService) Update(ctx context.Context, userID, orderID int64, args UpdateOrderArgs) (*domain.Order, error) {
	var updated *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		order, findErr := repo.FindByIDForUpdate(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if !order.OwnedBy(userID) {
			return domain.ErrAccessDenied
		}

		updateArgs := repoargs.UpdateOrder{
			ID:              order.ID,
			ShippingAddress: order.ShippingAddress,
			PaymentStatus:   order.PaymentStatus,
		}
		if args.ShippingAddress != nil {
			updateArgs.ShippingAddress = *args.ShippingAddress
		}
		if args.PaymentStatus != nil {
			if !order.PaymentStatus.CanTransitionTo(*args.PaymentStatus) {
				return domain.NewInvalidStatusTransitionError(order.PaymentStatus, *args.PaymentStatus)
			}
			updateArgs.PaymentStatus = *args.PaymentStatus
		}

		var updErr error
		updated, updErr = repo.UpdateOrder(c, updateArgs)
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("updating order %d: %w", orderID, txErr)
	}
	return updated, nil
}
