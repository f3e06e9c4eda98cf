package domain

import "context"

// PaymentGateway es el acceso del núcleo a los pagos del motor de facturación.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, p NewPayment) (*Payment, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context, q PaymentQuery) (*PaymentPage, error)
}
