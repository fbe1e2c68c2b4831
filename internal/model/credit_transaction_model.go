package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransaction struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Amount    int64     `gorm:"not null"`
	Reference *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
