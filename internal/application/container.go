package application

import (
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/storage"
)

// Dependencies are the outside systems the services talk to.
type Dependencies struct {
	Store    storage.ObjectStore
	Events   events.Publisher
	Alerter  events.Alerter
	Mailer   Mailer
	Gateway  payment.Gateway
	Policies upload.Policies
}

type Services struct {
	Quotation    *QuotationService
	User         *UserService
	Notification *NotificationService
	Rate         *RateService
	Payment      *PaymentService
}

func New(repos *repository.Repos, deps Dependencies) *Services {
	if deps.Alerter == nil {
		deps.Alerter = events.NopAlerter{}
	}
	if deps.Mailer == nil {
		deps.Mailer = LogMailer{}
	}
	if deps.Policies == nil {
		deps.Policies = upload.DefaultPolicies()
	}
	notifications := NewNotificationService(repos, deps.Events)
	return &Services{
		Quotation:    NewQuotationService(repos, deps.Store, deps.Events, notifications, deps.Alerter, deps.Policies),
		User:         NewUserService(repos, deps.Mailer, deps.Events),
		Notification: notifications,
		Rate:         NewRateService(repos),
		Payment:      NewPaymentService(repos, deps.Gateway, deps.Events),
	}
}
