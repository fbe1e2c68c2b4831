package service

import "errors"

// Sentinel errors returned by services. Controllers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientCredits  = errors.New("insufficient credits")
	ErrPromptRequired       = errors.New("prompt is required")
	ErrTextRequired         = errors.New("text is required to generate speech")
	ErrImageRequired        = errors.New("image data is required")
	ErrUnsupportedOperation = errors.New("image editing is not supported with the selected model")
	ErrSafetyBlocked        = errors.New("the image couldn't be processed due to safety concerns")
	ErrEmptyModelResponse   = errors.New("the model couldn't generate an image, please try a different prompt")
	ErrUnknownPlan          = errors.New("unknown plan")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrPaymentGateway       = errors.New("payment gateway error")
)
