package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to OrderStatus }{
		{OrderPendingPayment1, OrderPendingOrder},
		{OrderPendingOrder, OrderOnProcess},
		{OrderOnProcess, OrderPendingPayment2},
		{OrderOnProcess, OrderCompleted},
		{OrderPendingPayment2, OrderCompleted},
		{OrderPendingPayment1, OrderCancelled},
		{OrderPendingOrder, OrderCancelled},
		{OrderOnProcess, OrderCancelled},
		{OrderPendingPayment2, OrderCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderPendingPayment1, OrderOnProcess},
		{OrderPendingPayment1, OrderCompleted},
		{OrderPendingOrder, OrderPendingPayment1},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderPendingOrder},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	if !OrderCompleted.Terminal() || !OrderCancelled.Terminal() {
		t.Fatalf("completed and cancelled must be terminal")
	}
	if OrderPendingPayment1.Terminal() || OrderOnProcess.Terminal() {
		t.Fatalf("live states must not be terminal")
	}
}
