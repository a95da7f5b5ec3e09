package payment

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// HourPurchase is a credit-hour top-up paid through the gateway.
type HourPurchase struct {
	ID              string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID          uint           `gorm:"index;not null" json:"userId"`
	Hours           float64        `gorm:"not null" json:"hours"`
	Amount          float64        `gorm:"not null" json:"amount"`
	Currency        string         `gorm:"size:3" json:"currency"`
	Status          Status         `gorm:"size:20;not null" json:"status"`
	ProviderStatus  string         `gorm:"size:40" json:"providerStatus"`
	ProviderPayload datatypes.JSON `json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (HourPurchase) TableName() string { return "hour_purchases" }

// PurchaseInput carries the card token produced by the checkout widget.
type PurchaseInput struct {
	Hours             float64 `json:"hours" binding:"required,gt=0"`
	Token             string  `json:"token"`
	PaymentMethodID   string  `json:"paymentMethodId"`
	IssuerID          string  `json:"issuerId"`
	Installments      int     `json:"installments"`
	PayerEmail        string  `json:"payerEmail"`
	IdentificationNum string  `json:"identificationNumber"`
}

// Gateway captures a payment with the provider.
type Gateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}

// StatusFromProvider folds provider statuses into ours.
func StatusFromProvider(s string) Status {
	switch s {
	case "approved", "accredited":
		return StatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return StatusDenied
	}
	return StatusPending
}
