// Package syncer implements the cache-aside read path and the mutation
// write path over the remote API and the local resource caches. Reads never
// fail: every fetch falls back to the last cached snapshot, or to the
// resource's seed before the first successful fetch. Writes follow the
// per-operation strict/best-effort policy table.
package syncer

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/cache"
	"github.com/campussync/campussync/internal/models"
)

// Remote is the surface of the API client consumed by the sync layer.
type Remote interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Orchestrator is the cache-aside engine: remote first, cache on success,
// cached fallback on any failure.
type Orchestrator struct {
	remote Remote
	caches *cache.Set
	log    *zap.Logger
}

// NewOrchestrator builds an Orchestrator over the given remote and caches.
func NewOrchestrator(remote Remote, caches *cache.Set, log *zap.Logger) *Orchestrator {
	return &Orchestrator{remote: remote, caches: caches, log: log}
}

// fetch runs one cache-aside cycle for a resource kind. The second return
// is false when the cached fallback was served instead of a fresh result.
// The cached collection is replaced only when persist is set: a filtered
// fetch returns a server-side subset that must not clobber the full
// snapshot the offline fallback relies on.
func fetch[T any](ctx context.Context, o *Orchestrator, a *cache.Adapter[T], path string, query url.Values, persist bool) (T, bool) {
	var raw json.RawMessage
	if err := o.remote.Get(ctx, path, query, &raw); err != nil {
		o.log.Warn("remote fetch failed, serving cache",
			zap.String("path", path), zap.Error(err))
		return a.Read(), false
	}
	v, err := a.Map(raw)
	if err != nil {
		o.log.Warn("malformed payload, serving cache",
			zap.String("path", path), zap.Error(err))
		return a.Read(), false
	}
	if persist {
		if err := a.Write(v); err != nil {
			o.log.Warn("cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return v, true
}

// Courses returns the course collection.
func (o *Orchestrator) Courses(ctx context.Context) []models.Course {
	v, _ := fetch(ctx, o, o.caches.Courses, "/api/courses", nil, true)
	return v
}

// Assignments returns assignments, optionally scoped to one course
// (courseID <= 0 means all). A cached fallback is filtered client-side.
func (o *Orchestrator) Assignments(ctx context.Context, courseID int) []models.Assignment {
	q := url.Values{}
	if courseID > 0 {
		q.Set("course_id", strconv.Itoa(courseID))
	}
	v, fresh := fetch(ctx, o, o.caches.Assignments, "/api/assignments", q, courseID <= 0)
	if fresh || courseID <= 0 {
		return v
	}
	out := make([]models.Assignment, 0, len(v))
	for _, a := range v {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}

// Grades returns the per-course grade reports.
func (o *Orchestrator) Grades(ctx context.Context) []models.Grade {
	v, _ := fetch(ctx, o, o.caches.Grades, "/api/grades", nil, true)
	return v
}

// Contacts returns the directory, optionally filtered by a search query.
// A cached fallback is matched client-side against name and email.
func (o *Orchestrator) Contacts(ctx context.Context, query string) []models.Contact {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	v, fresh := fetch(ctx, o, o.caches.Contacts, "/api/contacts", q, query == "")
	if fresh || query == "" {
		return v
	}
	needle := strings.ToLower(query)
	out := make([]models.Contact, 0, len(v))
	for _, c := range v {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Conversations returns the message threads with their messages.
func (o *Orchestrator) Conversations(ctx context.Context) []models.Conversation {
	v, _ := fetch(ctx, o, o.caches.Conversations, "/api/conversations", nil, true)
	return v
}

// Announcements returns course announcements.
func (o *Orchestrator) Announcements(ctx context.Context) []models.Announcement {
	v, _ := fetch(ctx, o, o.caches.Announcements, "/api/announcements", nil, true)
	return v
}

// Notifications returns the notification feed.
func (o *Orchestrator) Notifications(ctx context.Context) []models.Notification {
	v, _ := fetch(ctx, o, o.caches.Notifications, "/api/notifications", nil, true)
	return v
}

// Settings returns the user's settings.
func (o *Orchestrator) Settings(ctx context.Context) models.Settings {
	v, _ := fetch(ctx, o, o.caches.Settings, "/api/settings", nil, true)
	return v
}

// Attendance returns the attendance records visible to the user.
func (o *Orchestrator) Attendance(ctx context.Context) []models.AttendanceRecord {
	v, _ := fetch(ctx, o, o.caches.Attendance, "/api/attendance", nil, true)
	return v
}

// UnreadCount asks the server for the total unread message and notification
// count. Unlike collection fetches this is a lightweight delta probe with no
// cache fallback; the error is returned for the caller (the poller) to
// swallow.
func (o *Orchestrator) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count       *int `json:"count"`
		UnreadCount *int `json:"unread_count"`
	}
	if err := o.remote.Get(ctx, "/api/notifications/unread_count", nil, &out); err != nil {
		return 0, err
	}
	switch {
	case out.Count != nil:
		return *out.Count, nil
	case out.UnreadCount != nil:
		return *out.UnreadCount, nil
	}
	return 0, nil
}
