package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

// rawGrade mirrors the grade report shape: a nested course object and a
// list of graded components under "assignments" (alias "items"), each with
// a nullable score.
type rawGrade struct {
	ID          flexInt        `json:"id"`
	Course      rawCourse      `json:"course"`
	Assignments []rawGradeItem `json:"assignments"`
	Items       []rawGradeItem `json:"items"`
}

type rawGradeItem struct {
	Score  *float64 `json:"score"`
	Total  *float64 `json:"total"`
	Weight *float64 `json:"weight"`
}

func mapGrades(raw json.RawMessage) ([]models.Grade, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("grades: %w", err)
	}
	var rows []rawGrade
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("grades: %w", err)
	}
	out := make([]models.Grade, 0, len(rows))
	for _, r := range rows {
		items := r.Assignments
		if len(items) == 0 {
			items = r.Items
		}
		g := models.Grade{
			ID:     int(r.ID),
			Course: mapCourse(r.Course),
			Items:  make([]models.GradeItem, 0, len(items)),
		}
		for _, it := range items {
			g.Items = append(g.Items, models.GradeItem{
				Score:  it.Score,
				Total:  floatOr(it.Total, 100),
				Weight: floatOr(it.Weight, 0),
			})
		}
		out = append(out, g)
	}
	return out, nil
}

// NewGrades builds the grade adapter. Seed: empty list.
func NewGrades(st store.Store, log *zap.Logger) *Adapter[[]models.Grade] {
	return newAdapter(st, log, KeyGrades, mapGrades, func() []models.Grade {
		return []models.Grade{}
	})
}
