package domain

type PaymentStatusType string

const (
	PaymentStatusPending   PaymentStatusType = "Pending"
	PaymentStatusPaid      PaymentStatusType = "Paid"
	PaymentStatusShipped   PaymentStatusType = "Shipped"
	PaymentStatusCancelled PaymentStatusType = "Cancelled"
)

// allowedTransitions описывает граф переходов статуса оплаты. Обратных переходов нет.
var allowedTransitions = map[PaymentStatusType][]PaymentStatusType{
	PaymentStatusPending:   {PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusPaid:      {PaymentStatusShipped},
	PaymentStatusShipped:   {},
	PaymentStatusCancelled: {},
}

// IsValid проверяет, что значение входит в множество известных статусов.
func (p PaymentStatusType) IsValid() bool {
	_, ok := allowedTransitions[p]
	return ok
}

// CanTransitionTo проверяет допустимость перехода из текущего статуса в target.
// Переход в тот же самый статус считается допустимым (no-op).
func (p PaymentStatusType) CanTransitionTo(target PaymentStatusType) bool {
	if p == target {
		return true
	}
	for _, next := range allowedTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}
