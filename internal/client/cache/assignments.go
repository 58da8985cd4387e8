package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawAssignment struct {
	ID          flexInt  `json:"id"`
	CourseID    flexInt  `json:"course_id"`
	Title       string   `json:"title"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DueAt       flexTime `json:"due_at"`
	DueDate     flexTime `json:"due_date"`
	MaxScore    *float64 `json:"max_score"`
	Total       *float64 `json:"total"`
	Score       *float64 `json:"score"`
	Submitted   *bool    `json:"submitted"`
	IsSubmitted *bool    `json:"is_submitted"`
}

func mapAssignment(r rawAssignment) models.Assignment {
	due := r.DueAt.Time
	if due.IsZero() {
		due = r.DueDate.Time
	}
	// max_score and total are aliases; a payload with neither means the
	// conventional 100-point scale.
	maxScore := floatOr(r.MaxScore, floatOr(r.Total, 100))
	return models.Assignment{
		ID:          int(r.ID),
		CourseID:    int(r.CourseID),
		Title:       firstNonEmpty(r.Title, r.Name),
		Description: r.Description,
		DueAt:       due,
		MaxScore:    maxScore,
		Score:       r.Score,
		Submitted:   boolOr(false, r.Submitted, r.IsSubmitted),
	}
}

func mapAssignments(raw json.RawMessage) ([]models.Assignment, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("assignments: %w", err)
	}
	var rows []rawAssignment
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("assignments: %w", err)
	}
	out := make([]models.Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapAssignment(r))
	}
	return out, nil
}

// NewAssignments builds the assignment adapter. Seed: empty list.
func NewAssignments(st store.Store, log *zap.Logger) *Adapter[[]models.Assignment] {
	return newAdapter(st, log, KeyAssignments, mapAssignments, func() []models.Assignment {
		return []models.Assignment{}
	})
}
