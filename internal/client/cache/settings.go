package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawSettings struct {
	DisplayName        string   `json:"display_name"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Theme              string   `json:"theme"`
	Locale             string   `json:"locale"`
	Language           string   `json:"language"`
	EmailNotifications *bool    `json:"email_notifications"`
	NotifyByEmail      *bool    `json:"notify_by_email"`
	UpdatedAt          flexTime `json:"updated_at"`
}

func mapSettings(raw json.RawMessage) (models.Settings, error) {
	var r rawSettings
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return models.Settings{
		DisplayName:        firstNonEmpty(r.DisplayName, r.Name),
		Email:              r.Email,
		Theme:              firstNonEmpty(r.Theme, "light"),
		Locale:             firstNonEmpty(r.Locale, r.Language, "en"),
		EmailNotifications: boolOr(true, r.EmailNotifications, r.NotifyByEmail),
		UpdatedAt:          r.UpdatedAt.Time,
	}, nil
}

// NewSettings builds the settings adapter. Seed: the documented defaults
// (light theme, English locale, email notifications on).
func NewSettings(st store.Store, log *zap.Logger) *Adapter[models.Settings] {
	return newAdapter(st, log, KeySettings, mapSettings, func() models.Settings {
		return models.Settings{Theme: "light", Locale: "en", EmailNotifications: true}
	})
}
