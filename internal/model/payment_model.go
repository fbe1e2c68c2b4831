package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentOrder struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId     string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Plan        string    `gorm:"type:varchar(50);not null"`
	Method      string    `gorm:"type:varchar(20);not null"`
	Amount      int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(8);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ConfirmedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// PaymentWebhookEvent stores raw gateway notifications for audit and debugging.
type PaymentWebhookEvent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId   string         `gorm:"type:varchar(64);index;not null"`
	Gateway   string         `gorm:"type:varchar(20);not null"`
	Status    string         `gorm:"type:varchar(32);not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (PaymentWebhookEvent) TableName() string {
	return "payment_webhook_events"
}
