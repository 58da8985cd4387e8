// Package mockapi provides an in-memory LMS API server for development and
// for the client integration tests. It serves the wire shapes the client's
// reconciliation layer expects to tolerate and issues JWT session tokens.
package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenTTL is the lifetime of issued session tokens.
const TokenTTL = 24 * time.Hour

// Server is the mock LMS API.
type Server struct {
	log    *zap.Logger
	secret []byte

	mu   sync.Mutex
	data *fixtures
}

// New constructs a Server with seeded fixtures. secret signs the session
// tokens; tests may pass any value.
func New(secret string, log *zap.Logger) *Server {
	return &Server{log: log, secret: []byte(secret), data: seedFixtures()}
}

// Handler builds the chi router serving the API.
//
// Routes:
//
//	POST /api/login                                        → issue session token
//	POST /api/logout                                       → end session
//	GET  /api/courses                                      → course list (enveloped)
//	GET  /api/assignments?course_id=                       → assignment list
//	GET  /api/grades                                       → grade reports
//	GET  /api/contacts?q=                                  → directory
//	GET  /api/conversations                                → threads with messages
//	GET  /api/announcements                                → course announcements
//	GET  /api/notifications                                → notification feed
//	GET  /api/notifications/unread_count                   → {count}
//	GET  /api/settings, PUT /api/settings                  → user settings
//	GET  /api/attendance, POST /api/attendance             → attendance records
//	POST /api/conversations/{id}/messages                  → send message
//	POST /api/conversations/{id}/read                      → mark thread read
//	POST /api/courses/{id}/assignments/{aid}/submission    → submit work
//	POST /api/courses/{id}/enrollment, DELETE (same)       → enroll/unenroll
//	POST /api/password                                     → change password
//	PUT  /api/courses/{id}/progress                        → update progress
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)

	r.Post("/api/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Post("/api/logout", s.logout)
		r.Get("/api/courses", s.listCourses)
		r.Get("/api/assignments", s.listAssignments)
		r.Get("/api/grades", s.listGrades)
		r.Get("/api/contacts", s.listContacts)
		r.Get("/api/conversations", s.listConversations)
		r.Get("/api/announcements", s.listAnnouncements)
		r.Get("/api/notifications", s.listNotifications)
		r.Get("/api/notifications/unread_count", s.unreadCount)
		r.Get("/api/settings", s.getSettings)
		r.Put("/api/settings", s.putSettings)
		r.Get("/api/attendance", s.listAttendance)
		r.Post("/api/attendance", s.markAttendance)
		r.Post("/api/conversations/{id}/messages", s.postMessage)
		r.Post("/api/conversations/{id}/read", s.markRead)
		r.Post("/api/courses/{id}/assignments/{aid}/submission", s.submitAssignment)
		r.Post("/api/courses/{id}/enrollment", s.enroll)
		r.Delete("/api/courses/{id}/enrollment", s.unenroll)
		r.Post("/api/password", s.changePassword)
		r.Put("/api/courses/{id}/progress", s.updateProgress)
	})

	return r
}

// bearerAuth validates the Authorization header's bearer token and stores
// the authenticated username in the request context.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		sub, _ := claims.GetSubject()
		ctx := context.WithValue(r.Context(), userKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// issueToken signs a session token for username.
func (s *Server) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
