package dto

import "github.com/google/uuid"

// PublishGenerationCompletedMessage is the payload queued after a successful
// metered operation. Consumers fan it out to the event bus.
type PublishGenerationCompletedMessage struct {
	UserId    uuid.UUID  `json:"user_id"`
	ImageId   *uuid.UUID `json:"image_id,omitempty"`
	Operation string     `json:"operation"`
	Engine    string     `json:"engine,omitempty"`
	Prompt    string     `json:"prompt,omitempty"`
}
