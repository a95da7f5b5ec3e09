package repository

import (
	"context"

	"github.com/linskybing/scan2cad/internal/domain/notification"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every backend when a record is missing.
var ErrNotFound = gorm.ErrRecordNotFound

const defaultNotificationLimit = 50

// NotificationRepo stores user notifications. Backends may live outside the
// relational database, so it takes no transaction.
type NotificationRepo interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListByUser(ctx context.Context, userID uint, opts notification.ListOptions) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id string, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id string, userID uint) error
}

type DBNotificationRepo struct {
	db *gorm.DB
}

var _ NotificationRepo = (*DBNotificationRepo)(nil)

func NewNotificationRepo(db *gorm.DB) *DBNotificationRepo {
	return &DBNotificationRepo{db: db}
}

func (r *DBNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *DBNotificationRepo) ListByUser(ctx context.Context, userID uint, opts notification.ListOptions) ([]notification.Notification, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if opts.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []notification.Notification
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// MarkRead is idempotent: reading an already-read notification is not an
// error, and nothing ever sets is_read back to false.
func (r *DBNotificationRepo) MarkRead(ctx context.Context, id string, userID uint) error {
	res := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DBNotificationRepo) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *DBNotificationRepo) Delete(ctx context.Context, id string, userID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&notification.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
