// Package cache implements the per-resource cache adapters: each adapter
// reconciles raw API payloads into the stable internal schema, owns one key
// of the local store, and provides the deterministic seed value served
// before the first successful fetch.
package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

// Store keys, one per resource kind. The "cache:" prefix keeps resource
// collections from colliding with anything else in the flat store namespace.
const (
	KeyCourses       = "cache:courses"
	KeyAssignments   = "cache:assignments"
	KeyGrades        = "cache:grades"
	KeyContacts      = "cache:contacts"
	KeyConversations = "cache:conversations"
	KeyAnnouncements = "cache:announcements"
	KeyNotifications = "cache:notifications"
	KeySettings      = "cache:settings"
	KeyAttendance    = "cache:attendance"
)

// Adapter handles one resource kind. T is the whole collection value (a
// slice for most kinds, a single struct for settings). Adapters perform no
// network access; they are pure mapping plus storage.
type Adapter[T any] struct {
	key   string
	mapFn func(json.RawMessage) (T, error)
	seed  func() T
	store store.Store
	log   *zap.Logger
}

func newAdapter[T any](st store.Store, log *zap.Logger, key string, mapFn func(json.RawMessage) (T, error), seed func() T) *Adapter[T] {
	return &Adapter[T]{key: key, mapFn: mapFn, seed: seed, store: st, log: log}
}

// Key returns the adapter's store key.
func (a *Adapter[T]) Key() string { return a.key }

// Map reconciles a raw API payload into the stable schema.
func (a *Adapter[T]) Map(raw json.RawMessage) (T, error) {
	return a.mapFn(raw)
}

// Seed returns the documented default collection for this resource kind.
func (a *Adapter[T]) Seed() T { return a.seed() }

// Read returns the last successfully cached collection, or the seed when
// nothing has ever been cached (or the stored blob cannot be decoded).
func (a *Adapter[T]) Read() T {
	blob, ok, err := a.store.Get(a.key)
	if err != nil {
		a.log.Warn("cache read failed, serving seed", zap.String("key", a.key), zap.Error(err))
		return a.seed()
	}
	if !ok {
		return a.seed()
	}
	var v T
	if err := json.Unmarshal(blob, &v); err != nil {
		a.log.Warn("cache entry undecodable, serving seed", zap.String("key", a.key), zap.Error(err))
		return a.seed()
	}
	return v
}

// Write atomically replaces the cached collection.
func (a *Adapter[T]) Write(v T) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.key, err)
	}
	if err := a.store.Set(a.key, blob); err != nil {
		return fmt.Errorf("store %s: %w", a.key, err)
	}
	return nil
}

// Set bundles the adapters for every resource kind over one store.
type Set struct {
	Courses       *Adapter[[]models.Course]
	Assignments   *Adapter[[]models.Assignment]
	Grades        *Adapter[[]models.Grade]
	Contacts      *Adapter[[]models.Contact]
	Conversations *Adapter[[]models.Conversation]
	Announcements *Adapter[[]models.Announcement]
	Notifications *Adapter[[]models.Notification]
	Settings      *Adapter[models.Settings]
	Attendance    *Adapter[[]models.AttendanceRecord]
}

// NewSet builds the full adapter set over st.
func NewSet(st store.Store, log *zap.Logger) *Set {
	return &Set{
		Courses:       NewCourses(st, log),
		Assignments:   NewAssignments(st, log),
		Grades:        NewGrades(st, log),
		Contacts:      NewContacts(st, log),
		Conversations: NewConversations(st, log),
		Announcements: NewAnnouncements(st, log),
		Notifications: NewNotifications(st, log),
		Settings:      NewSettings(st, log),
		Attendance:    NewAttendance(st, log),
	}
}
