package repository

import (
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"gorm.io/gorm"
)

type RateRepo interface {
	List() ([]rate.Config, error)
	Get(id uint) (rate.Config, error)
	GetActive() (rate.Config, error)
	Create(c *rate.Config) error
	Save(c *rate.Config) error
	Delete(id uint) error
	// DeactivateOthers clears the active flag on every rate except id.
	DeactivateOthers(id uint) error
	WithTx(tx *gorm.DB) RateRepo
}

type DBRateRepo struct {
	db *gorm.DB
}

func NewRateRepo(db *gorm.DB) *DBRateRepo {
	return &DBRateRepo{db: db}
}

func (r *DBRateRepo) List() ([]rate.Config, error) {
	var out []rate.Config
	err := r.db.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *DBRateRepo) Get(id uint) (rate.Config, error) {
	var c rate.Config
	err := r.db.First(&c, id).Error
	return c, err
}

func (r *DBRateRepo) GetActive() (rate.Config, error) {
	var c rate.Config
	err := r.db.Where("active = ?", true).Order("updated_at DESC").First(&c).Error
	return c, err
}

func (r *DBRateRepo) Create(c *rate.Config) error {
	return r.db.Create(c).Error
}

func (r *DBRateRepo) Save(c *rate.Config) error {
	return r.db.Save(c).Error
}

func (r *DBRateRepo) Delete(id uint) error {
	res := r.db.Delete(&rate.Config{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DBRateRepo) DeactivateOthers(id uint) error {
	return r.db.Model(&rate.Config{}).
		Where("id <> ? AND active = ?", id, true).
		Update("active", false).Error
}

func (r *DBRateRepo) WithTx(tx *gorm.DB) RateRepo {
	if tx == nil {
		return r
	}
	return &DBRateRepo{db: tx}
}
