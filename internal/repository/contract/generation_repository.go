package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
)

type GenerationRepository interface {
	Create(ctx context.Context, image *entity.GeneratedImage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type CreditTransactionRepository interface {
	Create(ctx context.Context, txn *entity.CreditTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
}
