package entity

import (
	"time"

	"github.com/google/uuid"
)

type PlanName string

const (
	PlanBasic    PlanName = "Basic"
	PlanPro      PlanName = "Pro"
	PlanUltimate PlanName = "Ultimate"
)

// Plan is static configuration, not a persisted entity. Prices are minor units
// (IDR has no subunit; USD price is in cents).
type Plan struct {
	Name        PlanName
	CreditGrant int64
	Unlimited   bool
	PriceIDR    int64
	PriceUSD    int64
}

var Plans = []Plan{
	{Name: PlanBasic, CreditGrant: 2000, PriceIDR: 50000, PriceUSD: 500},
	{Name: PlanPro, CreditGrant: 5000, PriceIDR: 100000, PriceUSD: 1000},
	{Name: PlanUltimate, Unlimited: true, PriceIDR: 200000, PriceUSD: 2000},
}

// PlanByName resolves a client-supplied plan string. Unknown plans resolve to
// a zero-grant plan so a bogus confirmation credits nothing.
func PlanByName(name string) Plan {
	for _, p := range Plans {
		if string(p.Name) == name {
			return p
		}
	}
	return Plan{Name: PlanName(name)}
}

type PaymentMethod string

const (
	PaymentMethodMidtrans PaymentMethod = "midtrans"
	PaymentMethodPayPal   PaymentMethod = "paypal"
)

type PaymentOrderStatus string

const (
	PaymentOrderPending   PaymentOrderStatus = "pending"
	PaymentOrderConfirmed PaymentOrderStatus = "confirmed"
	PaymentOrderFailed    PaymentOrderStatus = "failed"
)

// PaymentOrder correlates a checkout attempt with its confirmation callback.
// OrderId is unique; an order is confirmed at most once.
type PaymentOrder struct {
	Id          uuid.UUID
	OrderId     string
	UserId      uuid.UUID
	Plan        PlanName
	Method      PaymentMethod
	Amount      int64
	Currency    string
	Status      PaymentOrderStatus
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
