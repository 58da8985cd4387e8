package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawAttendance struct {
	ID        flexString `json:"id"`
	CourseID  flexInt    `json:"course_id"`
	StudentID flexInt    `json:"student_id"`
	Date      flexTime   `json:"date"`
	Present   *bool      `json:"present"`
	Attended  *bool      `json:"attended"`
}

func mapAttendance(raw json.RawMessage) ([]models.AttendanceRecord, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("attendance: %w", err)
	}
	var rows []rawAttendance
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("attendance: %w", err)
	}
	out := make([]models.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AttendanceRecord{
			ID:        string(r.ID),
			CourseID:  int(r.CourseID),
			StudentID: int(r.StudentID),
			Date:      r.Date.Time,
			Present:   boolOr(false, r.Present, r.Attended),
		})
	}
	return out, nil
}

// NewAttendance builds the attendance adapter. Seed: empty list.
func NewAttendance(st store.Store, log *zap.Logger) *Adapter[[]models.AttendanceRecord] {
	return newAdapter(st, log, KeyAttendance, mapAttendance, func() []models.AttendanceRecord {
		return []models.AttendanceRecord{}
	})
}
