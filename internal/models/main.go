// Package models defines the stable internal schema for LMS resources.
// Raw API payloads are reconciled into these types by the cache adapters;
// everything above the adapters works with this schema only.
package models

import "time"

// Course represents a course the user can see or is enrolled in.
type Course struct {
	// ID is the unique identifier for the course.
	ID int `json:"id"`
	// Name is the display name of the course.
	Name string `json:"name"`
	// Code is the short catalogue code (e.g. "CS-201").
	Code string `json:"code"`
	// Instructor is the display name of the teaching staff member.
	Instructor string `json:"instructor"`
	// Progress is the completion percentage in [0, 100]. Absent in the raw
	// payload defaults to 0.
	Progress float64 `json:"progress"`
	// Enrolled reports whether the current user is enrolled.
	Enrolled bool `json:"enrolled"`
	// UpdatedAt is the server-side modification timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignment represents a gradable piece of coursework.
type Assignment struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	// DueAt is the submission deadline.
	DueAt time.Time `json:"due_at"`
	// MaxScore is the maximum attainable score; absent defaults to 100.
	MaxScore float64 `json:"max_score"`
	// Score is nil until the assignment has been graded.
	Score *float64 `json:"score"`
	// Submitted reports whether the current user has submitted work.
	Submitted bool `json:"submitted"`
}

// GradeItem is one graded component inside a course grade report.
type GradeItem struct {
	// Score is nil for ungraded components.
	Score  *float64 `json:"score"`
	Total  float64  `json:"total"`
	Weight float64  `json:"weight"`
}

// Grade is the per-course grade report for the current user.
type Grade struct {
	ID     int         `json:"id"`
	Course Course      `json:"course"`
	Items  []GradeItem `json:"items"`
}

// Contact is a directory entry (student, faculty or admin).
type Contact struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// ConversationType distinguishes direct threads from group threads.
type ConversationType string

const (
	// ConversationDirect is a two-participant thread.
	ConversationDirect ConversationType = "direct"
	// ConversationGroup is a multi-participant thread.
	ConversationGroup ConversationType = "group"
)

// Attachment is an optional file reference carried by a message.
type Attachment struct {
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}

// Message belongs to exactly one conversation. Messages created locally by
// an optimistic send carry a generated id and Pending=true until the server
// copy overwrites them on the next successful fetch.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	SenderID       int         `json:"sender_id"`
	SenderName     string      `json:"sender_name"`
	Body           string      `json:"body"`
	Attachment     *Attachment `json:"attachment,omitempty"`
	// CreatedAt orders messages chronologically within the conversation.
	CreatedAt time.Time `json:"created_at"`
	// Pending marks a locally applied send that the server has not
	// acknowledged.
	Pending bool `json:"pending,omitempty"`
}

// Conversation is a message thread with its participants and unread state.
// UnreadCount is reset to zero only by an explicit mark-as-read mutation and
// is otherwise only raised by server-observed new messages.
type Conversation struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Participants []Contact        `json:"participants"`
	UnreadCount  int              `json:"unread_count"`
	LastMessage  *Message         `json:"last_message,omitempty"`
	Messages     []Message        `json:"messages"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Announcement is a course-wide post from faculty.
type Announcement struct {
	ID       int       `json:"id"`
	CourseID int       `json:"course_id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	PostedAt time.Time `json:"posted_at"`
}

// Notification is a single feed entry shown in the notification tray.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds the user's profile and preference state.
type Settings struct {
	DisplayName        string    `json:"display_name"`
	Email              string    `json:"email"`
	Theme              string    `json:"theme"`
	Locale             string    `json:"locale"`
	EmailNotifications bool      `json:"email_notifications"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AttendanceRecord is one attendance mark for a student in a course session.
type AttendanceRecord struct {
	ID        string    `json:"id"`
	CourseID  int       `json:"course_id"`
	StudentID int       `json:"student_id"`
	Date      time.Time `json:"date"`
	Present   bool      `json:"present"`
}
