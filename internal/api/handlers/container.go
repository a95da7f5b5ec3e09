package handlers

import (
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/events"
)

type Handlers struct {
	Quotation    *QuotationHandler
	User         *UserHandler
	Notification *NotificationHandler
	Rate         *RateHandler
	Payment      *PaymentHandler
	Socket       *SocketHandler
}

func New(svc *application.Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Quotation:    NewQuotationHandler(svc.Quotation),
		User:         NewUserHandler(svc.User),
		Notification: NewNotificationHandler(svc.Notification),
		Rate:         NewRateHandler(svc.Rate),
		Payment:      NewPaymentHandler(svc.Payment),
		Socket:       NewSocketHandler(hub),
	}
}
