package mockapi

import "time"

// The fixture types mirror the wire shapes the real LMS API emits, aliases
// and all (course_name, due_date, unread, timestamp as unix seconds), so
// the client's reconciliation layer gets exercised against realistic
// payloads.

type srvCourse struct {
	ID             int     `json:"id"`
	CourseName     string  `json:"course_name"`
	CourseCode     string  `json:"course_code"`
	InstructorName string  `json:"instructor_name"`
	Progress       float64 `json:"progress,omitempty"`
	IsEnrolled     bool    `json:"is_enrolled"`
	UpdatedAt      string  `json:"updated_at"`
}

type srvAssignment struct {
	ID          int      `json:"id"`
	CourseID    int      `json:"course_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"due_date"`
	Total       *float64 `json:"total,omitempty"`
	Score       *float64 `json:"score"`
	IsSubmitted bool     `json:"is_submitted"`
}

type srvGradeItem struct {
	Score  *float64 `json:"score"`
	Total  float64  `json:"total"`
	Weight float64  `json:"weight"`
}

type srvGrade struct {
	ID          int            `json:"id"`
	Course      srvCourse      `json:"course"`
	Assignments []srvGradeItem `json:"assignments"`
}

type srvContact struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

type srvMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       int    `json:"sender_id"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

type srvConversation struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Participants []srvContact `json:"participants"`
	Unread       int          `json:"unread"`
	Messages     []srvMessage `json:"messages"`
	UpdatedAt    string       `json:"updated_at"`
}

type srvAnnouncement struct {
	ID        int    `json:"id"`
	CourseID  int    `json:"course_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type srvNotification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type srvSettings struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	NotifyByEmail bool   `json:"notify_by_email"`
	UpdatedAt     string `json:"updated_at"`
}

type srvAttendance struct {
	ID        string `json:"id"`
	CourseID  int    `json:"course_id"`
	StudentID int    `json:"student_id"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
}

// fixtures is the mutable in-memory dataset served by the mock API.
type fixtures struct {
	users         map[string]string // username -> password
	courses       []srvCourse
	assignments   []srvAssignment
	grades        []srvGrade
	contacts      []srvContact
	conversations []srvConversation
	announcements []srvAnnouncement
	notifications []srvNotification
	settings      srvSettings
	attendance    []srvAttendance
}

func seedFixtures() *fixtures {
	now := time.Now().UTC().Format(time.RFC3339)
	score85 := 85.0

	return &fixtures{
		users: map[string]string{
			"student": "passw0rd",
			"faculty": "ch4lkdust",
		},
		courses: []srvCourse{
			{ID: 10, CourseName: "Distributed Systems", CourseCode: "CS-401", InstructorName: "Dr. Ada Moreau", Progress: 42, IsEnrolled: true, UpdatedAt: now},
			{ID: 11, CourseName: "Databases", CourseCode: "CS-305", InstructorName: "Prof. Jonas Webb", Progress: 77, IsEnrolled: true, UpdatedAt: now},
			{ID: 12, CourseName: "Linear Algebra", CourseCode: "MATH-210", InstructorName: "Dr. Priya Nair", IsEnrolled: false, UpdatedAt: now},
		},
		assignments: []srvAssignment{
			{ID: 100, CourseID: 10, Name: "Consensus paper review", DueDate: "2026-09-15T23:59:00Z", Score: &score85},
			{ID: 101, CourseID: 10, Name: "Raft implementation", DueDate: "2026-10-01T23:59:00Z"},
			{ID: 102, CourseID: 11, Name: "Query planner exercise", DueDate: "2026-09-20T23:59:00Z"},
		},
		grades: []srvGrade{
			{
				ID:     1,
				Course: srvCourse{ID: 10, CourseName: "Distributed Systems", CourseCode: "CS-401", InstructorName: "Dr. Ada Moreau", IsEnrolled: true, UpdatedAt: now},
				Assignments: []srvGradeItem{
					{Score: &score85, Total: 100, Weight: 50},
					{Score: nil, Total: 100, Weight: 50},
				},
			},
		},
		contacts: []srvContact{
			{ID: 1, FullName: "Dr. Ada Moreau", Role: "faculty", Email: "a.moreau@campus.edu"},
			{ID: 2, FullName: "Jonas Webb", Role: "faculty", Email: "j.webb@campus.edu"},
			{ID: 3, FullName: "Riley Chen", Role: "student", Email: "r.chen@campus.edu"},
		},
		conversations: []srvConversation{
			{
				ID:   "c-1",
				Type: "direct",
				Participants: []srvContact{
					{ID: 1, FullName: "Dr. Ada Moreau", Role: "faculty", Email: "a.moreau@campus.edu"},
				},
				Unread: 1,
				Messages: []srvMessage{
					{ID: "m-1", ConversationID: "c-1", SenderID: 1, Sender: "Dr. Ada Moreau", Content: "Office hours moved to 3pm.", Timestamp: time.Now().Add(-2 * time.Hour).Unix()},
				},
				UpdatedAt: now,
			},
		},
		announcements: []srvAnnouncement{
			{ID: 1, CourseID: 10, Title: "Midterm date", Content: "Midterm on October 12.", CreatedAt: now},
		},
		notifications: []srvNotification{
			{ID: "n-1", Title: "New grade posted", Message: "Consensus paper review was graded.", IsRead: false, CreatedAt: now},
		},
		settings: srvSettings{
			Name:          "Sam Student",
			Email:         "s.student@campus.edu",
			Theme:         "light",
			Language:      "en",
			NotifyByEmail: true,
			UpdatedAt:     now,
		},
	}
}
