package model

import (
	"time"

	"github.com/google/uuid"
)

type GeneratedImage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageUrl  string    `gorm:"type:text;not null"`
	Prompt    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
