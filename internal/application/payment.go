package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/payments"
	"github.com/linskybing/scan2cad/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPaymentNotConfigured = errors.New("payments are not configured")

type PaymentService struct {
	Repos   *repository.Repos
	gateway payment.Gateway
	events  events.Publisher
}

func NewPaymentService(repos *repository.Repos, gateway payment.Gateway, publisher events.Publisher) *PaymentService {
	return &PaymentService{
		Repos:   repos,
		gateway: gateway,
		events:  publisher,
	}
}

// PurchaseHours charges the active hourly rate for in.Hours and credits the
// balance once the provider approves.
func (s *PaymentService) PurchaseHours(ctx context.Context, userID uint, in payment.PurchaseInput) (payment.HourPurchase, error) {
	if s.gateway == nil {
		return payment.HourPurchase{}, ErrPaymentNotConfigured
	}
	if in.Hours <= 0 {
		return payment.HourPurchase{}, fmt.Errorf("%w: hours must be positive", quotation.ErrHoursInvalid)
	}
	active, err := s.Repos.Rate.GetActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payment.HourPurchase{}, rate.ErrNoActiveRate
		}
		return payment.HourPurchase{}, err
	}

	amount := active.Price(in.Hours)
	body, err := payments.BuildRequest(in, amount, fmt.Sprintf("%.2f credit hours", in.Hours))
	if err != nil {
		return payment.HourPurchase{}, err
	}
	providerID, providerStatus, raw, err := s.gateway.CreatePayment(ctx, body)
	if err != nil {
		slog.Error("payment gateway failed", "userID", userID, "error", err)
		return payment.HourPurchase{}, err
	}

	p := payment.HourPurchase{
		ID:              providerID,
		UserID:          userID,
		Hours:           in.Hours,
		Amount:          amount,
		Currency:        active.Currency,
		Status:          payment.StatusFromProvider(providerStatus),
		ProviderStatus:  providerStatus,
		ProviderPayload: datatypes.JSON(raw),
	}
	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.Payment.Create(&p); err != nil {
			return err
		}
		if p.Status == payment.StatusApproved {
			_, err := r.User.AddHours(userID, p.Hours)
			return err
		}
		return nil
	})
	if err != nil {
		slog.Error("record payment failed", "providerPaymentID", providerID, "userID", userID, "error", err)
		return payment.HourPurchase{}, err
	}

	slog.Info("hours purchased", "userID", userID, "hours", p.Hours, "status", p.Status)
	if p.Status == payment.StatusApproved {
		s.events.Publish(events.Event{Name: quotation.EventUserUpdated}, events.ToUser(userID))
	}
	return p, nil
}

func (s *PaymentService) List(userID uint) ([]payment.HourPurchase, error) {
	return s.Repos.Payment.ListByUser(userID)
}
