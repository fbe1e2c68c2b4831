package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Ledger mutations. Both are atomic relative updates; DebitCredits is
	// guarded so the balance can never go negative and reports whether the
	// debit was applied.
	DebitCredits(ctx context.Context, userId uuid.UUID, amount int64) (bool, error)
	CreditCredits(ctx context.Context, userId uuid.UUID, amount int64) error
	UpdatePlanTier(ctx context.Context, userId uuid.UUID, tier entity.PlanTier) error
}
