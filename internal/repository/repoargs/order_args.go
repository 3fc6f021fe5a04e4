package repoargs

import (
	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID          int64
	ItemName        string
	Quantity        int32
	Price           decimal.Decimal
	ShippingAddress string
	PaymentStatus   domain.PaymentStatusType
}

// UpdateOrder содержит уже разрешенные (смерженные с текущим состоянием заказа) значения
// изменяемых полей. Слияние частичных параметров запроса - ответственность сервисного слоя.
type UpdateOrder struct {
	ID              int64
	ShippingAddress string
	PaymentStatus   domain.PaymentStatusType
}
