package entity

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind is the closed set of metered operations. Dispatch happens by
// switching on this value instead of comparing free-form request strings.
type OperationKind string

const (
	OperationTextToImage       OperationKind = "text_to_image"
	OperationImageEdit         OperationKind = "image_edit"
	OperationBackgroundRemoval OperationKind = "background_removal"
	OperationTextToSpeech      OperationKind = "text_to_speech"
)

type Engine string

const (
	EngineGemini Engine = "gemini"
	EngineDallE  Engine = "dalle"
	EngineGen3   Engine = "gen3"
)

// OperationCost is the fixed credit price of one metered operation.
const OperationCost int64 = 10

type GeneratedImage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ImageUrl  string
	Prompt    string
	CreatedAt time.Time
}

type CreditTransactionType string

const (
	CreditTransactionDebit  CreditTransactionType = "debit"
	CreditTransactionRefund CreditTransactionType = "refund"
	CreditTransactionGrant  CreditTransactionType = "grant"
	CreditTransactionSignup CreditTransactionType = "signup"
)

// CreditTransaction is the append-only audit trail of every ledger mutation.
type CreditTransaction struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      CreditTransactionType
	Amount    int64
	Reference *string
	CreatedAt time.Time
}
