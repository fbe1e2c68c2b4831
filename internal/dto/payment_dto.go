package dto

type PlanResponse struct {
	Name      string `json:"name"`
	Credits   int64  `json:"credits"` // 0 for the unlimited tier
	Unlimited bool   `json:"unlimited"`
	PriceIDR  int64  `json:"price_idr"`
	PriceUSD  int64  `json:"price_usd"` // cents
}

type CheckoutRequest struct {
	Plan   string `json:"plan"`
	Method string `json:"method,omitempty"` // midtrans (default) or paypal
}

type CheckoutResponse struct {
	OrderId         string `json:"order_id"`
	SnapToken       string `json:"token,omitempty"`
	SnapRedirectUrl string `json:"redirect_url,omitempty"`
	ApproveUrl      string `json:"approve_url,omitempty"` // PayPal buyer approval link
}

type ChargeRequest struct {
	Plan string `json:"plan"`
	Bank string `json:"bank,omitempty"` // defaults to bca
}

type VANumber struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

type ChargeResponse struct {
	OrderId    string     `json:"order_id"`
	VANumbers  []VANumber `json:"va_numbers,omitempty"`
	PaymentUrl string     `json:"payment_url,omitempty"`
}

// MidtransWebhookRequest is the notification body Midtrans posts. The
// signature_key must equal SHA512(order_id + status_code + gross_amount +
// server key).
type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

type PayPalConfirmRequest struct {
	OrderId       string `json:"order_id"`        // our internal order reference
	PayPalOrderId string `json:"paypal_order_id"` // PayPal's order id to capture
}

type ConfirmationResponse struct {
	OrderId string `json:"order_id"`
	Status  string `json:"status"`
	Credits int64  `json:"credits"` // balance after confirmation
}
