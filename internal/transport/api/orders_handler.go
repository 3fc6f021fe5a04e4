package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultShippingAddress = "N/A"
	defaultQuantity        = 1
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderResponse struct {
	ID              int64                    `json:"id"`
	ItemName        string                   `json:"item_name"`
	Quantity        int32                    `json:"quantity"`
	Price           float64                  `json:"price"`
	ShippingAddress string                   `json:"shipping_address"`
	PaymentStatus   domain.PaymentStatusType `json:"payment_status"`
	UserID          int64                    `json:"user_id"`
	CreatedAt       time.Time                `json:"created_at"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:              order.ID,
		ItemName:        order.ItemName,
		Quantity:        order.Quantity,
		Price:           order.Price.InexactFloat64(),
		ShippingAddress: order.ShippingAddress,
		PaymentStatus:   order.PaymentStatus,
		UserID:          order.UserID,
		CreatedAt:       order.CreatedAt,
	}
}

// OrderCreateParams параметры создания заказа. Каждое опциональное поле имеет явный дефолт
// (см. resolve). Поля владельца здесь нет и быть не может - владелец всегда берется из токена.
type OrderCreateParams struct {
	ItemName        string           `binding:"required,min=1,max=150"    json:"item_name"`
	Quantity        *int32           `binding:"omitempty,gt=0"            json:"quantity"`
	Price           *decimal.Decimal `json:"price"`
	ShippingAddress *string          `binding:"omitempty,max_bytes=255"   json:"shipping_address"`
	PaymentStatus   *string          `json:"payment_status"`
}

// resolve применяет дефолты к отсутствующим полям и валидирует значения, которые не покрываются
// тегами binding: неотрицательность цены и принадлежность статуса множеству известных.
func (p *OrderCreateParams) resolve() (service.CreateOrderArgs, error) {
	args := service.CreateOrderArgs{
		ItemName:        p.ItemName,
		Quantity:        defaultQuantity,
		Price:           decimal.Zero,
		ShippingAddress: defaultShippingAddress,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	if p.Quantity != nil {
		args.Quantity = *p.Quantity
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return args, errors.New("price must be non-negative")
		}
		args.Price = *p.Price
	}
	if p.ShippingAddress != nil {
		args.ShippingAddress = *p.ShippingAddress
	}
	if p.PaymentStatus != nil {
		status := domain.PaymentStatusType(*p.PaymentStatus)
		if !status.IsValid() {
			return args, errors.New("unknown payment status: " + *p.PaymentStatus)
		}
		args.PaymentStatus = status
	}
	return args, nil
}

// Create POST RouteGroup + OrdersRoute.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params OrderCreateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	args, resolveErr := params.resolve()
	if resolveErr != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": resolveErr.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, currentUserID, args)
	if createErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": order.ID})
}

// Index GET RouteGroup + OrdersRoute. Возвращает исключительно заказы текущего юзера.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, gin.H{"orders": response})
}

// Show GET RouteGroup + OrderRoute. Заказ отдается только владельцу: сервисный слой выполняет
// проверку владения до возврата данных, чужой заказ - 403.
func (o *OrdersHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetByID(reqCtx, currentUserID, orderID)
	if err != nil {
		abortWithOrderAccessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

type OrderUpdateParams struct {
	ShippingAddress *string `binding:"omitempty,max_bytes=255" json:"shipping_address"`
	PaymentStatus   *string `json:"payment_status"`
}

// Update PUT RouteGroup + OrderRoute. Изменяемы только адрес доставки и статус оплаты. Проверка
// владения та же что и в Show и выполняется до любой мутации.
func (o *OrdersHandler) Update(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var params OrderUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	args := service.UpdateOrderArgs{
		ShippingAddress: params.ShippingAddress,
	}
	if params.PaymentStatus != nil {
		status := domain.PaymentStatusType(*params.PaymentStatus)
		if !status.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
				gin.H{"error": "unknown payment status: " + *params.PaymentStatus})
			return
		}
		args.PaymentStatus = &status
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Update(reqCtx, currentUserID, orderID, args)
	if err != nil {
		var transitionErr *domain.InvalidStatusTransitionError
		if errors.As(err, &transitionErr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": transitionErr.Error()})
			return
		}
		abortWithOrderAccessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

// orderIDParam извлекает числовой id заказа из пути. Нечисловой id эквивалентен отсутствующему
// заказу - 404.
func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return 0, false
	}
	return orderID, true
}

// abortWithOrderAccessError транслирует ошибки доступа к заказу в http статусы: нет записи - 404,
// чужой заказ - 403, всё прочее - 500.
func abortWithOrderAccessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, domain.ErrAccessDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
