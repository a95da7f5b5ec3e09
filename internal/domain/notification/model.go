package notification

import "time"

const (
	EventNew  = "notification:new"
	EventRead = "notification:read"
)

// Notification is created by the server on lifecycle events. IsRead only
// ever moves from false to true.
type Notification struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id" dynamodbav:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId" dynamodbav:"user_id"`
	QuotationID string    `gorm:"type:varchar(36);index" json:"quotationId,omitempty" dynamodbav:"quotation_id,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title" dynamodbav:"title"`
	Message     string    `json:"message" dynamodbav:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"isRead" dynamodbav:"is_read"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type ListOptions struct {
	UnreadOnly bool `form:"unread"`
	Limit      int  `form:"limit"`
}
