package syncer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/api"
	"github.com/campussync/campussync/internal/client/cache"
	"github.com/campussync/campussync/internal/client/events"
	"github.com/campussync/campussync/internal/models"
)

// Policy classifies a mutation operation.
type Policy string

const (
	// PolicyStrict mutations must not diverge from server state: on remote
	// failure the error is surfaced and the local cache is untouched.
	PolicyStrict Policy = "strict"
	// PolicyBestEffort mutations are applied to the local cache regardless
	// of the remote outcome; a failed remote call is queued for retry and
	// the next successful fetch reconciles via last-write-wins.
	PolicyBestEffort Policy = "best_effort"
)

// policies is the per-operation policy table. The classification gates
// grading and enrollment correctness and must not be changed casually.
var policies = map[string]Policy{
	"assignment.submit": PolicyStrict,
	"course.enroll":     PolicyStrict,
	"course.unenroll":   PolicyStrict,
	"password.change":   PolicyStrict,
	"message.send":      PolicyBestEffort,
	"conversation.read": PolicyBestEffort,
	"settings.update":   PolicyBestEffort,
	"attendance.mark":   PolicyBestEffort,
	"progress.update":   PolicyBestEffort,
}

// PolicyFor returns the policy for an operation name, defaulting to strict
// for unknown operations.
func PolicyFor(op string) Policy {
	if p, ok := policies[op]; ok {
		return p
	}
	return PolicyStrict
}

// Gateway handles writes. Strict operations go remote-first and patch the
// cache only on success; best-effort operations apply optimistically and
// tolerate remote failure.
type Gateway struct {
	remote Remote
	caches *cache.Set
	bus    *events.Bus
	retry  *retryQueue
	log    *zap.Logger

	// now and newID are injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewGateway builds a Gateway.
func NewGateway(remote Remote, caches *cache.Set, bus *events.Bus, log *zap.Logger) *Gateway {
	return &Gateway{
		remote: remote,
		caches: caches,
		bus:    bus,
		retry:  newRetryQueue(log),
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// FlushPending retries queued best-effort mutations that are due. Called by
// the background poller on every cycle.
func (g *Gateway) FlushPending(ctx context.Context) {
	g.retry.flush(ctx)
}

// ClearPending drops all queued mutations. Called when the session ends.
func (g *Gateway) ClearPending() {
	g.retry.clear()
}

// PendingCount reports how many best-effort mutations await redelivery.
func (g *Gateway) PendingCount() int {
	return g.retry.size()
}

// SubmitAssignment uploads submission content for grading. Strict: a remote
// failure is returned and the local cache is left untouched.
func (g *Gateway) SubmitAssignment(ctx context.Context, courseID, assignmentID int, content string) error {
	if strings.TrimSpace(content) == "" {
		return api.Validationf("submission content is required")
	}
	path := fmt.Sprintf("/api/courses/%d/assignments/%d/submission", courseID, assignmentID)
	if err := g.remote.Post(ctx, path, map[string]string{"content": content}, nil); err != nil {
		return err
	}

	assignments := g.caches.Assignments.Read()
	for i := range assignments {
		if assignments[i].ID == assignmentID {
			assignments[i].Submitted = true
		}
	}
	writeOrLogTo(g.log, g.caches.Assignments, assignments, "assignment.submit")
	return nil
}

// EnrollCourse enrolls the user in a course. Strict.
func (g *Gateway) EnrollCourse(ctx context.Context, courseID int) error {
	path := fmt.Sprintf("/api/courses/%d/enrollment", courseID)
	if err := g.remote.Post(ctx, path, nil, nil); err != nil {
		return err
	}
	g.setEnrolled(courseID, true)
	return nil
}

// UnenrollCourse removes the user from a course. Strict.
func (g *Gateway) UnenrollCourse(ctx context.Context, courseID int) error {
	path := fmt.Sprintf("/api/courses/%d/enrollment", courseID)
	if err := g.remote.Delete(ctx, path); err != nil {
		return err
	}
	g.setEnrolled(courseID, false)
	return nil
}

// ChangePassword replaces the account password. Strict; raises the session
// data changed signal on success.
func (g *Gateway) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return api.Validationf("current and new passwords are required")
	}
	body := map[string]string{"current_password": current, "new_password": next}
	if err := g.remote.Post(ctx, "/api/password", body, nil); err != nil {
		return err
	}
	g.bus.Publish(events.SessionDataChanged)
	return nil
}

// SendMessage appends a message to a conversation. Best-effort: the message
// is applied to the cached conversation with a locally generated id and the
// current timestamp regardless of the remote outcome; a failed send is
// queued for retry and the next successful fetch reconciles. The returned
// error is non-nil only for client-side validation, in which case nothing
// was applied.
func (g *Gateway) SendMessage(ctx context.Context, conversationID, body string, attachment *models.Attachment) (models.Message, error) {
	if conversationID == "" {
		return models.Message{}, api.Validationf("conversation id is required")
	}
	if strings.TrimSpace(body) == "" && attachment == nil {
		return models.Message{}, api.Validationf("message body or attachment is required")
	}

	msg := models.Message{
		ID:             "local-" + g.newID(),
		ConversationID: conversationID,
		Body:           body,
		Attachment:     attachment,
		CreatedAt:      g.now(),
		Pending:        true,
	}
	g.applyMessage(msg)

	payload := map[string]any{"body": body}
	if attachment != nil {
		payload["attachment"] = attachment
	}
	path := fmt.Sprintf("/api/conversations/%s/messages", conversationID)
	if err := g.remote.Post(ctx, path, payload, nil); err != nil {
		g.log.Warn("message send failed, keeping local copy",
			zap.String("conversation", conversationID), zap.Error(err))
		g.retry.add("message.send", func(ctx context.Context) error {
			return g.remote.Post(ctx, path, payload, nil)
		})
		return msg, nil
	}

	msg.Pending = false
	g.applyMessage(msg)
	return msg, nil
}

// MarkConversationRead resets a conversation's unread count to zero.
// Best-effort.
func (g *Gateway) MarkConversationRead(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return api.Validationf("conversation id is required")
	}

	conversations := g.caches.Conversations.Read()
	for i := range conversations {
		if conversations[i].ID == conversationID {
			conversations[i].UnreadCount = 0
		}
	}
	writeOrLogTo(g.log, g.caches.Conversations, conversations, "conversation.read")

	path := fmt.Sprintf("/api/conversations/%s/read", conversationID)
	if err := g.remote.Post(ctx, path, nil, nil); err != nil {
		g.log.Warn("mark-read failed, keeping local state",
			zap.String("conversation", conversationID), zap.Error(err))
		g.retry.add("conversation.read", func(ctx context.Context) error {
			return g.remote.Post(ctx, path, nil, nil)
		})
	}
	return nil
}

// UpdateSettings replaces the user's settings. Best-effort; always raises
// the session data changed signal so the UI refreshes displayed identity.
func (g *Gateway) UpdateSettings(ctx context.Context, s models.Settings) error {
	s.UpdatedAt = g.now()
	writeOrLogTo(g.log, g.caches.Settings, s, "settings.update")
	g.bus.Publish(events.SessionDataChanged)

	if err := g.remote.Put(ctx, "/api/settings", s, nil); err != nil {
		g.log.Warn("settings update failed, keeping local state", zap.Error(err))
		g.retry.add("settings.update", func(ctx context.Context) error {
			return g.remote.Put(ctx, "/api/settings", s, nil)
		})
	}
	return nil
}

// MarkAttendance records an attendance mark. Best-effort.
func (g *Gateway) MarkAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	if rec.CourseID <= 0 || rec.StudentID <= 0 {
		return api.Validationf("course and student ids are required")
	}
	if rec.ID == "" {
		rec.ID = "local-" + g.newID()
	}
	if rec.Date.IsZero() {
		rec.Date = g.now()
	}

	records := g.caches.Attendance.Read()
	replaced := false
	for i := range records {
		if records[i].ID == rec.ID {
			records[i] = rec
			replaced = true
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	writeOrLogTo(g.log, g.caches.Attendance, records, "attendance.mark")

	if err := g.remote.Post(ctx, "/api/attendance", rec, nil); err != nil {
		g.log.Warn("attendance mark failed, keeping local state",
			zap.Int("course", rec.CourseID), zap.Error(err))
		g.retry.add("attendance.mark", func(ctx context.Context) error {
			return g.remote.Post(ctx, "/api/attendance", rec, nil)
		})
	}
	return nil
}

// UpdateStudentProgress updates a course's progress figure. Best-effort.
func (g *Gateway) UpdateStudentProgress(ctx context.Context, courseID int, progress float64) error {
	if courseID <= 0 {
		return api.Validationf("course id is required")
	}
	if progress < 0 || progress > 100 {
		return api.Validationf("progress must be between 0 and 100")
	}

	courses := g.caches.Courses.Read()
	for i := range courses {
		if courses[i].ID == courseID {
			courses[i].Progress = progress
		}
	}
	writeOrLogTo(g.log, g.caches.Courses, courses, "progress.update")

	path := fmt.Sprintf("/api/courses/%d/progress", courseID)
	payload := map[string]float64{"progress": progress}
	if err := g.remote.Put(ctx, path, payload, nil); err != nil {
		g.log.Warn("progress update failed, keeping local state",
			zap.Int("course", courseID), zap.Error(err))
		g.retry.add("progress.update", func(ctx context.Context) error {
			return g.remote.Put(ctx, path, payload, nil)
		})
	}
	return nil
}

// applyMessage inserts or replaces msg in its cached conversation and
// refreshes the thread's last message and timestamp.
func (g *Gateway) applyMessage(msg models.Message) {
	conversations := g.caches.Conversations.Read()
	for i := range conversations {
		if conversations[i].ID != msg.ConversationID {
			continue
		}
		replaced := false
		for j := range conversations[i].Messages {
			if conversations[i].Messages[j].ID == msg.ID {
				conversations[i].Messages[j] = msg
				replaced = true
				break
			}
		}
		if !replaced {
			conversations[i].Messages = append(conversations[i].Messages, msg)
		}
		last := msg
		conversations[i].LastMessage = &last
		conversations[i].UpdatedAt = msg.CreatedAt
	}
	writeOrLogTo(g.log, g.caches.Conversations, conversations, "message.send")
}

func (g *Gateway) setEnrolled(courseID int, enrolled bool) {
	courses := g.caches.Courses.Read()
	for i := range courses {
		if courses[i].ID == courseID {
			courses[i].Enrolled = enrolled
		}
	}
	writeOrLogTo(g.log, g.caches.Courses, courses, "course.enrollment")
}

// writeOrLogTo persists a patched collection; a store failure is logged and
// swallowed since the next fetch rewrites the collection anyway.
func writeOrLogTo[T any](log *zap.Logger, a *cache.Adapter[T], v T, op string) {
	if err := a.Write(v); err != nil {
		log.Warn("cache patch failed", zap.String("op", op), zap.Error(err))
	}
}
