package cache

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawContact struct {
	ID        flexInt `json:"id"`
	Name      string  `json:"name"`
	FullName  string  `json:"full_name"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	Email     string  `json:"email"`
	Avatar    string  `json:"avatar"`
	AvatarURL string  `json:"avatar_url"`
}

func mapContact(r rawContact) models.Contact {
	return models.Contact{
		ID:        int(r.ID),
		Name:      firstNonEmpty(r.Name, r.FullName, r.Username),
		Role:      firstNonEmpty(r.Role, "student"),
		Email:     r.Email,
		AvatarURL: firstNonEmpty(r.AvatarURL, r.Avatar),
	}
}

func mapContacts(raw json.RawMessage) ([]models.Contact, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	var rows []rawContact
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	out := make([]models.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapContact(r))
	}
	return out, nil
}

// NewContacts builds the contact adapter. Seed: empty list.
func NewContacts(st store.Store, log *zap.Logger) *Adapter[[]models.Contact] {
	return newAdapter(st, log, KeyContacts, mapContacts, func() []models.Contact {
		return []models.Contact{}
	})
}
