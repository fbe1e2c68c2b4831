package unitofwork

import (
	"context"

	"ai-imagestudio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	GenerationRepository() contract.GenerationRepository
	CreditTransactionRepository() contract.CreditTransactionRepository
	PaymentOrderRepository() contract.PaymentOrderRepository
}
