package repository

import (
	"github.com/linskybing/scan2cad/internal/domain/payment"
	"gorm.io/gorm"
)

type PaymentRepo interface {
	Create(p *payment.HourPurchase) error
	ListByUser(userID uint) ([]payment.HourPurchase, error)
	WithTx(tx *gorm.DB) PaymentRepo
}

type DBPaymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) *DBPaymentRepo {
	return &DBPaymentRepo{db: db}
}

func (r *DBPaymentRepo) Create(p *payment.HourPurchase) error {
	return r.db.Create(p).Error
}

func (r *DBPaymentRepo) ListByUser(userID uint) ([]payment.HourPurchase, error) {
	var out []payment.HourPurchase
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *DBPaymentRepo) WithTx(tx *gorm.DB) PaymentRepo {
	if tx == nil {
		return r
	}
	return &DBPaymentRepo{db: tx}
}
