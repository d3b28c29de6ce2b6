package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	db     *gorm.DB
	hub    *Hub
	logger *zap.Logger
}

func NewService(db *gorm.DB, hub *Hub, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Notification{}, &ReadStatus{}); err != nil {
		return nil, err
	}
	return &Service{db: db, hub: hub, logger: logger}, nil
}

type CreateRequest struct {
	Title       string      `json:"title" binding:"required"`
	Body        string      `json:"body" binding:"required"`
	Priority    Priority    `json:"priority"`
	Recipients  []uuid.UUID `json:"recipients"`
	ScheduledAt *time.Time  `json:"scheduled_at"`
	CreatedBy   uuid.UUID   `json:"-"`
}

// Create stores a notification. Immediate notifications are pushed to
// connected recipients right away; scheduled ones wait for the dispatcher.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	recipients, err := encodeRecipients(req.Recipients)
	if err != nil {
		return nil, err
	}

	n := &Notification{
		ID:          uuid.New(),
		Title:       req.Title,
		Body:        req.Body,
		Priority:    priority,
		Recipients:  recipients,
		ScheduledAt: req.ScheduledAt,
		CreatedBy:   req.CreatedBy,
	}

	now := time.Now()
	if req.ScheduledAt == nil || !req.ScheduledAt.After(now) {
		n.SentAt = &now
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}

	if n.SentAt != nil {
		s.push(n)
	}

	s.logger.Info("notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("priority", string(n.Priority)),
		zap.Bool("scheduled", n.SentAt == nil))
	return n, nil
}

// encodeRecipients serializes the recipient list for storage. A nil slice is
// stored as an empty JSON array, not JSON null, so broadcast rows always
// match the feed predicate.
func encodeRecipients(ids []uuid.UUID) (datatypes.JSON, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// audienceArg is the jsonb containment argument matching notifications
// addressed to the user. Shared by the feed, unread count and mark-all-read
// queries.
func audienceArg(userID uuid.UUID) string {
	return `"` + userID.String() + `"`
}

// DispatchDue promotes scheduled notifications whose time has come and pushes
// them to connected clients. Called by the cron dispatcher.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	var due []Notification
	err := s.db.WithContext(ctx).
		Where("sent_at IS NULL AND scheduled_at <= ?", time.Now()).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	for i := range due {
		now := time.Now()
		if err := s.db.WithContext(ctx).Model(&due[i]).Update("sent_at", now).Error; err != nil {
			s.logger.Error("failed to mark notification sent",
				zap.String("notification_id", due[i].ID.String()), zap.Error(err))
			continue
		}
		due[i].SentAt = &now
		s.push(&due[i])
	}
	return len(due), nil
}

func (s *Service) push(n *Notification) {
	if s.hub == nil {
		return
	}

	var recipients []uuid.UUID
	if len(n.Recipients) > 0 {
		if err := json.Unmarshal(n.Recipients, &recipients); err != nil {
			s.logger.Warn("unreadable recipients list",
				zap.String("notification_id", n.ID.String()), zap.Error(err))
			return
		}
	}

	msg := Message{Type: "notification", Notification: n}
	if len(recipients) == 0 {
		s.hub.Broadcast(msg)
		return
	}
	for _, userID := range recipients {
		s.hub.SendToUser(userID, msg)
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &n, err
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Notification, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Notification
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, total, err
}

// ListForUser returns sent notifications addressed to the user (or broadcast),
// joined with the user's read state.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserNotification, error) {
	var list []Notification
	err := s.db.WithContext(ctx).
		Where("sent_at IS NOT NULL").
		Where("recipients = '[]'::jsonb OR recipients @> ?", audienceArg(userID)).
		Order("sent_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}

	read := make(map[uuid.UUID]bool)
	if len(ids) > 0 {
		var statuses []ReadStatus
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND notification_id IN ?", userID, ids).
			Find(&statuses).Error
		if err != nil {
			return nil, err
		}
		for _, st := range statuses {
			read[st.NotificationID] = true
		}
	}

	result := make([]UserNotification, len(list))
	for i, n := range list {
		result[i] = UserNotification{Notification: n, Read: read[n.ID]}
	}
	return result, nil
}

// MarkRead records that the user has read the notification. Idempotent.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, notificationID); err != nil {
		return err
	}

	status := ReadStatus{
		ID:             uuid.New(),
		NotificationID: notificationID,
		UserID:         userID,
	}
	err := s.db.WithContext(ctx).Create(&status).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

// isDuplicateKey reports whether err is a unique constraint violation.
// Checked both as gorm's translated error and as the raw pq error, since
// translation depends on the handle's configuration.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// MarkAllRead marks every sent notification visible to the user as read, in
// one statement so the feed size does not matter.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO notification_read_statuses (id, notification_id, user_id, read_at)
		SELECT gen_random_uuid(), n.id, ?, NOW()
		FROM notifications n
		WHERE n.sent_at IS NOT NULL
		  AND (n.recipients = '[]'::jsonb OR n.recipients @> ?)
		ON CONFLICT (notification_id, user_id) DO NOTHING`,
		userID, audienceArg(userID)).Error
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("sent_at IS NOT NULL").
		Where("recipients = '[]'::jsonb OR recipients @> ?", audienceArg(userID)).
		Where("NOT EXISTS (SELECT 1 FROM notification_read_statuses rs WHERE rs.notification_id = notifications.id AND rs.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Notification{}, "id = ?", id).Error
}
