package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawAnnouncement struct {
	ID        flexInt  `json:"id"`
	CourseID  flexInt  `json:"course_id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Content   string   `json:"content"`
	PostedAt  flexTime `json:"posted_at"`
	CreatedAt flexTime `json:"created_at"`
}

func mapAnnouncements(raw json.RawMessage) ([]models.Announcement, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("announcements: %w", err)
	}
	var rows []rawAnnouncement
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("announcements: %w", err)
	}
	out := make([]models.Announcement, 0, len(rows))
	for _, r := range rows {
		posted := r.PostedAt.Time
		if posted.IsZero() {
			posted = r.CreatedAt.Time
		}
		out = append(out, models.Announcement{
			ID:       int(r.ID),
			CourseID: int(r.CourseID),
			Title:    r.Title,
			Body:     firstNonEmpty(r.Body, r.Content),
			PostedAt: posted,
		})
	}
	return out, nil
}

// NewAnnouncements builds the announcement adapter. Seed: empty list.
func NewAnnouncements(st store.Store, log *zap.Logger) *Adapter[[]models.Announcement] {
	return newAdapter(st, log, KeyAnnouncements, mapAnnouncements, func() []models.Announcement {
		return []models.Announcement{}
	})
}

type rawNotification struct {
	ID        flexString `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Message   string     `json:"message"`
	Read      *bool      `json:"read"`
	IsRead    *bool      `json:"is_read"`
	CreatedAt flexTime   `json:"created_at"`
}

func mapNotifications(raw json.RawMessage) ([]models.Notification, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	var rows []rawNotification
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	out := make([]models.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Notification{
			ID:        string(r.ID),
			Title:     r.Title,
			Body:      firstNonEmpty(r.Body, r.Message),
			Read:      boolOr(false, r.Read, r.IsRead),
			CreatedAt: r.CreatedAt.Time,
		})
	}
	return out, nil
}

// NewNotifications builds the notification adapter. Seed: empty list.
func NewNotifications(st store.Store, log *zap.Logger) *Adapter[[]models.Notification] {
	return newAdapter(st, log, KeyNotifications, mapNotifications, func() []models.Notification {
		return []models.Notification{}
	})
}
