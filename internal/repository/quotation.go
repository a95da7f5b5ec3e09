package repository

import (
	"strings"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotationRepo interface {
	Create(q *quotation.Quotation) error
	GetByID(id string) (quotation.Quotation, error)
	// GetForUpdate locks the quotation row for the rest of the transaction.
	GetForUpdate(id string) (quotation.Quotation, error)
	List(filter quotation.ListFilter) ([]quotation.Quotation, error)
	Save(q *quotation.Quotation) error
	WithTx(tx *gorm.DB) QuotationRepo
}

type DBQuotationRepo struct {
	db *gorm.DB
}

func NewQuotationRepo(db *gorm.DB) *DBQuotationRepo {
	return &DBQuotationRepo{
		db: db,
	}
}

func withFiles(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("InfoFiles")
}

func (r *DBQuotationRepo) Create(q *quotation.Quotation) error {
	return r.db.Create(q).Error
}

func (r *DBQuotationRepo) GetByID(id string) (quotation.Quotation, error) {
	var q quotation.Quotation
	err := withFiles(r.db).Where("id = ?", id).First(&q).Error
	return q, err
}

func (r *DBQuotationRepo) GetForUpdate(id string) (quotation.Quotation, error) {
	var q quotation.Quotation
	err := withFiles(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&q).Error
	return q, err
}

func (r *DBQuotationRepo) List(filter quotation.ListFilter) ([]quotation.Quotation, error) {
	var out []quotation.Quotation
	q := withFiles(r.db).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("project_name ILIKE ?", "%"+s+"%")
	}
	err := q.Find(&out).Error
	return out, err
}

// Save writes the quotation together with its files.
func (r *DBQuotationRepo) Save(q *quotation.Quotation) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(q).Error
}

func (r *DBQuotationRepo) WithTx(tx *gorm.DB) QuotationRepo {
	if tx == nil {
		return r
	}
	return &DBQuotationRepo{db: tx}
}
