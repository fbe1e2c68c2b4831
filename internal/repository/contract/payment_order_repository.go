package contract

import (
	"context"
	"time"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
)

type PaymentOrderRepository interface {
	Create(ctx context.Context, order *entity.PaymentOrder) error
	Update(ctx context.Context, order *entity.PaymentOrder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentOrder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentOrder, error)

	// ConfirmPending flips a pending order to confirmed. Returns false when
	// the order was not pending, so concurrent confirmations apply once.
	ConfirmPending(ctx context.Context, orderId string, confirmedAt time.Time) (bool, error)

	// RecordWebhookEvent stores the raw gateway payload for audit.
	RecordWebhookEvent(ctx context.Context, orderId, gateway, status string, payload []byte) error
}
