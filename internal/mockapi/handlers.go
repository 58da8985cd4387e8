package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	stored, ok := s.data.users[req.Username]
	s.mu.Unlock()
	if !ok || stored != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	s.log.Info("session issued", zap.String("user", req.Username))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// listCourses responds with an enveloped list; the other collections are
// bare arrays. Both shapes occur in the real API.
func (s *Server) listCourses(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": s.data.courses})
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	courseID, _ := strconv.Atoi(r.URL.Query().Get("course_id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]srvAssignment, 0, len(s.data.assignments))
	for _, a := range s.data.assignments {
		if courseID == 0 || a.CourseID == courseID {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listGrades(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.grades)
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]srvContact, 0, len(s.data.contacts))
	for _, c := range s.data.contacts {
		if q == "" || strings.Contains(strings.ToLower(c.FullName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listConversations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.conversations)
}

func (s *Server) listAnnouncements(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.announcements)
}

func (s *Server) listNotifications(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.notifications)
}

func (s *Server) unreadCount(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.data.conversations {
		count += c.Unread
	}
	for _, n := range s.data.notifications {
		if !n.IsRead {
			count++
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) getSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.settings)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName        string `json:"display_name"`
		Email              string `json:"email"`
		Theme              string `json:"theme"`
		Locale             string `json:"locale"`
		EmailNotifications bool   `json:"email_notifications"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	s.data.settings = srvSettings{
		Name:          req.DisplayName,
		Email:         req.Email,
		Theme:         req.Theme,
		Language:      req.Locale,
		NotifyByEmail: req.EmailNotifications,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	out := s.data.settings
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listAttendance(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.data.attendance)
}

func (s *Server) markAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID  int    `json:"course_id"`
		StudentID int    `json:"student_id"`
		Date      string `json:"date"`
		Present   bool   `json:"present"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.CourseID == 0 || req.StudentID == 0 {
		writeError(w, http.StatusBadRequest, "course_id and student_id are required")
		return
	}

	rec := srvAttendance{
		ID:        uuid.NewString(),
		CourseID:  req.CourseID,
		StudentID: req.StudentID,
		Date:      req.Date,
		Present:   req.Present,
	}
	s.mu.Lock()
	s.data.attendance = append(s.data.attendance, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "id")
	var req struct {
		Body       string `json:"body"`
		Attachment *struct {
			URL      string `json:"url"`
			MIMEType string `json:"mime_type"`
		} `json:"attachment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	sender, _ := r.Context().Value(userKey).(string)
	msg := srvMessage{
		ID:             uuid.NewString(),
		ConversationID: convID,
		Sender:         sender,
		Content:        req.Body,
		Timestamp:      time.Now().Unix(),
	}
	if req.Attachment != nil {
		msg.AttachmentURL = req.Attachment.URL
		msg.AttachmentType = req.Attachment.MIMEType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.conversations {
		if s.data.conversations[i].ID == convID {
			s.data.conversations[i].Messages = append(s.data.conversations[i].Messages, msg)
			s.data.conversations[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			writeJSON(w, http.StatusCreated, msg)
			return
		}
	}
	writeError(w, http.StatusNotFound, "conversation not found")
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.conversations {
		if s.data.conversations[i].ID == convID {
			s.data.conversations[i].Unread = 0
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "conversation not found")
}

func (s *Server) submitAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, _ := strconv.Atoi(chi.URLParam(r, "aid"))
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "submission content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.assignments {
		if s.data.assignments[i].ID == assignmentID {
			s.data.assignments[i].IsSubmitted = true
			writeJSON(w, http.StatusOK, s.data.assignments[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "assignment not found")
}

func (s *Server) enroll(w http.ResponseWriter, r *http.Request) {
	s.setEnrollment(w, r, true)
}

func (s *Server) unenroll(w http.ResponseWriter, r *http.Request) {
	s.setEnrollment(w, r, false)
}

func (s *Server) setEnrollment(w http.ResponseWriter, r *http.Request, enrolled bool) {
	courseID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.courses {
		if s.data.courses[i].ID == courseID {
			s.data.courses[i].IsEnrolled = enrolled
			s.data.courses[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			writeJSON(w, http.StatusOK, s.data.courses[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "course not found")
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	user, _ := r.Context().Value(userKey).(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.users[user] != req.CurrentPassword {
		writeError(w, http.StatusBadRequest, "current password incorrect")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "new password too short")
		return
	}
	s.data.users[user] = req.NewPassword
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	courseID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var req struct {
		Progress float64 `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.courses {
		if s.data.courses[i].ID == courseID {
			s.data.courses[i].Progress = req.Progress
			writeJSON(w, http.StatusOK, s.data.courses[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "course not found")
}
