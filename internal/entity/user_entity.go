package entity

import (
	"time"

	"github.com/google/uuid"
)

type PlanTier string

const (
	PlanTierMetered   PlanTier = "metered"
	PlanTierUnlimited PlanTier = "unlimited"
)

// SignupCreditGrant is the starting balance for a freshly created account.
const SignupCreditGrant int64 = 1000

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	AvatarURL    *string
	Credits      int64
	PlanTier     PlanTier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
