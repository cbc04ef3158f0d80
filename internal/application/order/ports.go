package order

import (
	"context"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"
	dompay "github.com/Zhima-Mochi/order-processor/internal/domain/payment"
	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"

	"github.com/shopspring/decimal"
)

// OrderRepository is the read side of order storage the processor needs.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
}

// UserService supplies the calling user and delivers messages to users.
type UserService interface {
	CurrentUser(ctx context.Context) (*domuser.User, error)
	NotifyUser(ctx context.Context, u *domuser.User, message string) error
}

type Validator interface {
	Validate(ctx context.Context, o *domain.Order) error
}

type PaymentService interface {
	Process(ctx context.Context, amount decimal.Decimal) (dompay.Receipt, error)
}
