package entity

const (
	ConversationRoleUser  = "user"
	ConversationRoleModel = "model"
)

// ConversationPart holds either a text fragment or an image. Images are data
// URLs while a session is live and remote URLs once persisted.
type ConversationPart struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type ConversationTurn struct {
	Role  string             `json:"role"`
	Parts []ConversationPart `json:"parts"`
}
