package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

// rawCourse tolerates the field aliases the API is known to emit for
// courses. Absent progress defaults to 0; absent enrolled to false.
type rawCourse struct {
	ID             flexInt  `json:"id"`
	Name           string   `json:"name"`
	CourseName     string   `json:"course_name"`
	Title          string   `json:"title"`
	Code           string   `json:"code"`
	CourseCode     string   `json:"course_code"`
	Instructor     string   `json:"instructor"`
	InstructorName string   `json:"instructor_name"`
	Progress       *float64 `json:"progress"`
	Enrolled       *bool    `json:"enrolled"`
	IsEnrolled     *bool    `json:"is_enrolled"`
	UpdatedAt      flexTime `json:"updated_at"`
}

func mapCourse(r rawCourse) models.Course {
	return models.Course{
		ID:         int(r.ID),
		Name:       firstNonEmpty(r.Name, r.CourseName, r.Title),
		Code:       firstNonEmpty(r.Code, r.CourseCode),
		Instructor: firstNonEmpty(r.Instructor, r.InstructorName),
		Progress:   floatOr(r.Progress, 0),
		Enrolled:   boolOr(false, r.Enrolled, r.IsEnrolled),
		UpdatedAt:  r.UpdatedAt.Time,
	}
}

func mapCourses(raw json.RawMessage) ([]models.Course, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	var rows []rawCourse
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	out := make([]models.Course, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapCourse(r))
	}
	return out, nil
}

// NewCourses builds the course adapter. Seed: empty list.
func NewCourses(st store.Store, log *zap.Logger) *Adapter[[]models.Course] {
	return newAdapter(st, log, KeyCourses, mapCourses, func() []models.Course {
		return []models.Course{}
	})
}
