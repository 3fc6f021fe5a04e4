package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	// ErrAccessDenied возвращается когда аутентифицированный юзер запрашивает чужой заказ.
	ErrAccessDenied = errors.New("access denied")
)

type InvalidStatusTransitionError struct {
	From PaymentStatusType
	To   PaymentStatusType
}

func NewInvalidStatusTransitionError(from, to PaymentStatusType) error {
	return &InvalidStatusTransitionError{From: from, To: to}
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("payment status transition %s -> %s is not allowed", e.From, e.To)
}
