package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is an in-app message addressed to one or more users.
// Recipients is a JSON array of user IDs; an empty array means broadcast.
// A non-nil ScheduledAt in the future keeps the notification out of feeds
// until the dispatcher promotes it.
type Notification struct {
	ID          uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string         `json:"title" gorm:"not null"`
	Body        string         `json:"body" gorm:"not null"`
	Priority    Priority       `json:"priority" gorm:"default:normal"`
	Recipients  datatypes.JSON `json:"recipients" gorm:"type:jsonb"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	SentAt      *time.Time     `json:"sent_at"`
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// ReadStatus marks a notification as read by one user.
type ReadStatus struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	NotificationID uuid.UUID `json:"notification_id" gorm:"type:uuid;not null;uniqueIndex:idx_read_once,priority:1"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_read_once,priority:2"`
	ReadAt         time.Time `json:"read_at" gorm:"autoCreateTime"`
}

func (ReadStatus) TableName() string {
	return "notification_read_statuses"
}

// UserNotification is a notification joined with the caller's read state.
type UserNotification struct {
	Notification
	Read bool `json:"read"`
}

// Message is the websocket frame pushed to connected clients.
type Message struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}
