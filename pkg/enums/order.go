package enums

// OrderStatus is the order state machine. PENDING_PAYMENT1 is the state an
// order materializes in; COMPLETED and CANCELLED are terminal.
type OrderStatus string

const (
	OrderPendingPayment1 OrderStatus = "PENDING_PAYMENT1"
	OrderPendingOrder    OrderStatus = "PENDING_ORDER"
	OrderOnProcess       OrderStatus = "ON_PROCESS"
	OrderPendingPayment2 OrderStatus = "PENDING_PAYMENT2"
	OrderCompleted       OrderStatus = "COMPLETED"
	OrderCancelled       OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPendingPayment1, OrderPendingOrder, OrderOnProcess,
		OrderPendingPayment2, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPendingPayment1: {OrderPendingOrder},
	OrderPendingOrder:    {OrderOnProcess},
	OrderOnProcess:       {OrderPendingPayment2, OrderCompleted},
	OrderPendingPayment2: {OrderCompleted},
}

// CanTransition reports whether s → to is a legal move. CANCELLED is
// reachable from every non-terminal state.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentType selects single payment or a two-installment plan.
type PaymentType string

const (
	PaymentTypeSingle      PaymentType = "SINGLE"
	PaymentTypeInstallment PaymentType = "INSTALLMENT"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypeSingle || p == PaymentTypeInstallment
}

// PaymentMethod mirrors the provider-side payment method selection.
type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodPromptPay PaymentMethod = "PROMPTPAY"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentMethodCard || p == PaymentMethodPromptPay
}

// ReceivedVia is the fulfillment method chosen at checkout.
type ReceivedVia string

const (
	ReceivedPickUp   ReceivedVia = "PICK_UP"
	ReceivedDelivery ReceivedVia = "DELIVERY"
)

func (r ReceivedVia) Valid() bool {
	return r == ReceivedPickUp || r == ReceivedDelivery
}
