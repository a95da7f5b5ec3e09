package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Quotation    QuotationRepo
	User         UserRepo
	Notification NotificationRepo
	Rate         RateRepo
	Payment      PaymentRepo

	db *gorm.DB
}

type Option func(*Repos)

// WithNotificationRepo swaps the notification backend.
func WithNotificationRepo(repo NotificationRepo) Option {
	return func(r *Repos) {
		r.Notification = repo
	}
}

func NewRepositories(db *gorm.DB, opts ...Option) *Repos {
	r := &Repos{
		Quotation:    NewQuotationRepo(db),
		User:         NewUserRepo(db),
		Notification: NewNotificationRepo(db),
		Rate:         NewRateRepo(db),
		Payment:      NewPaymentRepo(db),
		db:           db,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Quotation:    r.Quotation.WithTx(tx),
		User:         r.User.WithTx(tx),
		Notification: r.Notification,
		Rate:         r.Rate.WithTx(tx),
		Payment:      r.Payment.WithTx(tx),
		db:           tx,
	}
}

// ExecTx runs fn against repositories bound to one transaction. Without a
// database (unit tests with mocks) fn runs directly on r.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepos := r.WithTx(tx)
		return fn(txRepos)
	})
}
