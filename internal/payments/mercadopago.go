package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
)

var (
	ErrMissingAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrGatewayNotConfigured = errors.New("mercado pago gateway not configured")
)

type MercadoPagoGateway struct {
	client   mppayment.Client
	mockMode bool
}

var _ payment.Gateway = (*MercadoPagoGateway)(nil)

// NewMercadoPagoGateway builds the gateway. In mock mode every payment is
// approved locally without contacting the provider.
func NewMercadoPagoGateway(accessToken string, mock bool) (*MercadoPagoGateway, error) {
	if mock {
		slog.Info("payment gateway in mock mode")
		return &MercadoPagoGateway{mockMode: true}, nil
	}
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("create mercado pago config: %w", err)
	}
	slog.Info("mercado pago client initialized")
	return &MercadoPagoGateway{client: mppayment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	if g != nil && g.mockMode {
		return g.mockPayment(requestPayload)
	}
	if g == nil || g.client == nil {
		return "", "", nil, ErrGatewayNotConfigured
	}

	var req mppayment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		return "", "", nil, fmt.Errorf("decode payment request: %w", err)
	}
	resp, err := g.client.Create(ctx, req)
	if err != nil {
		slog.Error("mercado pago create failed", "error", err)
		return "", "", nil, err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	slog.Info("mercado pago payment created", "providerPaymentID", resp.ID, "status", resp.Status)
	return fmt.Sprintf("%d", resp.ID), resp.Status, b, nil
}

func (g *MercadoPagoGateway) mockPayment(requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	resp := map[string]any{}
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		if err := json.Unmarshal(requestPayload, &resp); err != nil {
			resp = map[string]any{"request_payload_raw": string(requestPayload)}
		}
	}
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now

	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	slog.Info("mock payment approved", "providerPaymentID", id)
	return id, "approved", b, nil
}

// BuildRequest turns a purchase into the provider's payment request body.
func BuildRequest(in payment.PurchaseInput, amount float64, description string) (json.RawMessage, error) {
	installments := in.Installments
	if installments <= 0 {
		installments = 1
	}
	payer := map[string]any{"email": in.PayerEmail}
	if in.IdentificationNum != "" {
		payer["identification"] = map[string]any{"type": "CPF", "number": in.IdentificationNum}
	}
	req := map[string]any{
		"transaction_amount": amount,
		"description":        description,
		"token":              in.Token,
		"payment_method_id":  in.PaymentMethodID,
		"installments":       installments,
		"payer":              payer,
	}
	if in.IssuerID != "" {
		req["issuer_id"] = in.IssuerID
	}
	return json.Marshal(req)
}
