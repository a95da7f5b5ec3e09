package payments

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayRequiresToken(t *testing.T) {
	_, err := NewMercadoPagoGateway("", false)
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestNilGatewayIsNotConfigured(t *testing.T) {
	var g *MercadoPagoGateway
	_, _, _, err := g.CreatePayment(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestMockGatewayApprovesLocally(t *testing.T) {
	g, err := NewMercadoPagoGateway("", true)
	require.NoError(t, err)

	req, err := BuildRequest(payment.PurchaseInput{Hours: 3, Token: "card", PayerEmail: "jane@example.com"}, 300, "3 credit hours")
	require.NoError(t, err)

	id, status, raw, err := g.CreatePayment(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "approved", status)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, id, resp["id"])
	assert.Equal(t, "accredited", resp["status_detail"])
	assert.Equal(t, 300.0, resp["transaction_amount"])
}

func TestBuildRequest(t *testing.T) {
	raw, err := BuildRequest(payment.PurchaseInput{
		Hours:             2,
		Token:             "tok",
		PaymentMethodID:   "visa",
		IssuerID:          "24",
		PayerEmail:        "jane@example.com",
		IdentificationNum: "12345678909",
	}, 199.9, "2 credit hours")
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, 199.9, req["transaction_amount"])
	assert.Equal(t, 1.0, req["installments"])
	assert.Equal(t, "24", req["issuer_id"])
	payer := req["payer"].(map[string]any)
	assert.Equal(t, "jane@example.com", payer["email"])
	assert.Equal(t, "CPF", payer["identification"].(map[string]any)["type"])

	raw, err = BuildRequest(payment.PurchaseInput{Hours: 1, Installments: 3}, 100, "1 credit hour")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, 3.0, req["installments"])
	assert.NotContains(t, string(raw), "identification")
	assert.NotContains(t, string(raw), "issuer_id")
}
