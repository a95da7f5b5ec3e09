package repository

import (
	"errors"
	"time"

	"github.com/linskybing/scan2cad/internal/domain/user"
	"gorm.io/gorm"
)

var ErrNegativeBalance = errors.New("balance would become negative")

type UserRepo interface {
	Create(u *user.User) error
	GetByID(id uint) (user.User, error)
	GetByEmail(email string) (user.User, error)
	GetByVerificationToken(token string) (user.User, error)
	GetByResetToken(token string) (user.User, error)
	ListAdmins() ([]user.User, error)
	Save(u *user.User) error
	// AddHours adjusts the credit balance by delta and returns the new
	// balance. It never lets the balance drop below zero.
	AddHours(id uint, delta float64) (float64, error)
	// ClearExpiredResets drops reset tokens that expired before cutoff.
	ClearExpiredResets(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{
		db: db,
	}
}

func (r *DBUserRepo) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *DBUserRepo) GetByID(id uint) (user.User, error) {
	var u user.User
	err := r.db.First(&u, id).Error
	return u, err
}

func (r *DBUserRepo) GetByEmail(email string) (user.User, error) {
	var u user.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	return u, err
}

func (r *DBUserRepo) GetByVerificationToken(token string) (user.User, error) {
	var u user.User
	err := r.db.Where("verification_token = ?", token).First(&u).Error
	return u, err
}

func (r *DBUserRepo) GetByResetToken(token string) (user.User, error) {
	var u user.User
	err := r.db.Where("reset_token = ?", token).First(&u).Error
	return u, err
}

func (r *DBUserRepo) ListAdmins() ([]user.User, error) {
	var users []user.User
	err := r.db.Where("role = ?", user.RoleAdmin).Find(&users).Error
	return users, err
}

func (r *DBUserRepo) Save(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *DBUserRepo) AddHours(id uint, delta float64) (float64, error) {
	res := r.db.Model(&user.User{}).
		Where("id = ? AND available_hours + ? >= 0", id, delta).
		Update("available_hours", gorm.Expr("ROUND((available_hours + ?)::numeric, 2)", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return 0, err
		}
		return 0, ErrNegativeBalance
	}
	var balance float64
	err := r.db.Model(&user.User{}).Select("available_hours").Where("id = ?", id).Scan(&balance).Error
	return balance, err
}

func (r *DBUserRepo) ClearExpiredResets(cutoff time.Time) (int64, error) {
	res := r.db.Model(&user.User{}).
		Where("reset_token <> '' AND reset_expires_at < ?", cutoff).
		Updates(map[string]any{"reset_token": "", "reset_expires_at": nil})
	return res.RowsAffected, res.Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{db: tx}
}
