package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
)

type NotificationService struct {
	repo   repository.NotificationRepo
	users  repository.UserRepo
	events events.Publisher
}

func NewNotificationService(repos *repository.Repos, publisher events.Publisher) *NotificationService {
	return &NotificationService{
		repo:   repos.Notification,
		users:  repos.User,
		events: publisher,
	}
}

// Notify stores a notification for userID and pings their open sessions.
func (s *NotificationService) Notify(ctx context.Context, userID uint, quotationID, title, message string) error {
	n := notification.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuotationID: quotationID,
		Title:       title,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return err
	}
	s.events.Publish(events.Event{Name: notification.EventNew, NotificationID: n.ID, QuotationID: quotationID}, events.ToUser(userID))
	return nil
}

func (s *NotificationService) NotifyAdmins(ctx context.Context, quotationID, title, message string) error {
	admins, err := s.users.ListAdmins()
	if err != nil {
		return err
	}
	for _, a := range admins {
		if err := s.Notify(ctx, a.ID, quotationID, title, message); err != nil {
			slog.Error("notify admin failed", "adminID", a.ID, "quotationID", quotationID, "error", err)
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, opts notification.ListOptions) ([]notification.Notification, error) {
	return s.repo.ListByUser(ctx, userID, opts)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string, userID uint) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.events.Publish(events.Event{Name: notification.EventRead, NotificationID: id}, events.ToUser(userID))
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.events.Publish(events.Event{Name: notification.EventRead}, events.ToUser(userID))
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string, userID uint) error {
	return s.repo.Delete(ctx, id, userID)
}
