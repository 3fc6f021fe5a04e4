package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Password  string
}

type Order struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          int64
	ItemName        string
	Quantity        int32
	Price           decimal.Decimal
	ShippingAddress string
	PaymentStatus   PaymentStatusType
}

// OwnedBy сообщает, принадлежит ли заказ юзеру с указанным id. Единственный предикат авторизации
// для заказов. Все операции чтения/изменения одиночного заказа обязаны проверять его до возврата
// данных или мутации.
func (o *Order) OwnedBy(userID int64) bool {
	return o.UserID == userID
}
