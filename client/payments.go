package client

import "context"

// PaymentsAPI covers /payments/. Payments are append-only.
type PaymentsAPI struct{ crud[Payment] }

func (a *PaymentsAPI) Create(ctx context.Context, in PaymentInput) (*Payment, error) {
	return a.create(ctx, in)
}

// Recent returns the latest payments received.
func (a *PaymentsAPI) Recent(ctx context.Context) ([]Payment, error) {
	return fetchList[Payment](ctx, a.c, a.path+"recent/")
}
