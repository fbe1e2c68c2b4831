package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type GenerateImageRequest struct {
	Prompt    string `json:"prompt"`
	Image     string `json:"image,omitempty"`   // data URL; presence switches text-to-image into image editing
	Model     string `json:"model,omitempty"`   // gemini (default), dalle, gen3
	Action    string `json:"action,omitempty"`  // "remove-background" bypasses prompt-driven generation
	SessionId string `json:"session_id,omitempty"`
}

type GenerateImageResponse struct {
	Image       string          `json:"image,omitempty"` // data URL of the generated image
	Description string          `json:"description,omitempty"`
	ImageUrl    string          `json:"image_url,omitempty"` // hosted copy, empty when upload failed
	VideoResult json.RawMessage `json:"video_result,omitempty"`
	SessionId   string          `json:"session_id,omitempty"`
	Credits     int64           `json:"credits"` // balance after the operation
}

type TextToSpeechRequest struct {
	Text string `json:"text"`
}

type TextToSpeechResponse struct {
	AudioUrl string `json:"audio_url"`
	Credits  int64  `json:"credits"`
}

type GalleryItemResponse struct {
	Id        uuid.UUID `json:"id"`
	ImageUrl  string    `json:"image_url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadImageRequest struct {
	File     string `json:"file"` // data URL or bare base64
	FileName string `json:"fileName"`
}

type UploadImageResponse struct {
	Url string `json:"url"`
}
