package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

type rawMessage struct {
	ID             flexString `json:"id"`
	ConversationID flexString `json:"conversation_id"`
	SenderID       flexInt    `json:"sender_id"`
	SenderName     string     `json:"sender_name"`
	Sender         string     `json:"sender"`
	Body           string     `json:"body"`
	Content        string     `json:"content"`
	Text           string     `json:"text"`
	Attachment     *struct {
		URL      string `json:"url"`
		MIMEType string `json:"mime_type"`
	} `json:"attachment"`
	AttachmentURL  string   `json:"attachment_url"`
	AttachmentType string   `json:"attachment_type"`
	CreatedAt      flexTime `json:"created_at"`
	Timestamp      flexTime `json:"timestamp"`
}

func mapMessage(r rawMessage, conversationID string) models.Message {
	created := r.CreatedAt.Time
	if created.IsZero() {
		created = r.Timestamp.Time
	}
	m := models.Message{
		ID:             string(r.ID),
		ConversationID: firstNonEmpty(string(r.ConversationID), conversationID),
		SenderID:       int(r.SenderID),
		SenderName:     firstNonEmpty(r.SenderName, r.Sender),
		Body:           firstNonEmpty(r.Body, r.Content, r.Text),
		CreatedAt:      created,
	}
	switch {
	case r.Attachment != nil:
		m.Attachment = &models.Attachment{URL: r.Attachment.URL, MIMEType: r.Attachment.MIMEType}
	case r.AttachmentURL != "":
		m.Attachment = &models.Attachment{URL: r.AttachmentURL, MIMEType: r.AttachmentType}
	}
	return m
}

type rawConversation struct {
	ID           flexString   `json:"id"`
	Type         string       `json:"type"`
	Participants []rawContact `json:"participants"`
	UnreadCount  *int         `json:"unread_count"`
	Unread       *int         `json:"unread"`
	LastMessage  *rawMessage  `json:"last_message"`
	Messages     []rawMessage `json:"messages"`
	UpdatedAt    flexTime     `json:"updated_at"`
}

func mapConversations(raw json.RawMessage) ([]models.Conversation, error) {
	list, err := unwrapList(raw)
	if err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}
	var rows []rawConversation
	if err := json.Unmarshal(list, &rows); err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}
	out := make([]models.Conversation, 0, len(rows))
	for _, r := range rows {
		c := models.Conversation{
			ID:           string(r.ID),
			Type:         models.ConversationType(firstNonEmpty(r.Type, string(models.ConversationDirect))),
			Participants: make([]models.Contact, 0, len(r.Participants)),
			UnreadCount:  intOr(0, r.UnreadCount, r.Unread),
			Messages:     make([]models.Message, 0, len(r.Messages)),
			UpdatedAt:    r.UpdatedAt.Time,
		}
		for _, p := range r.Participants {
			c.Participants = append(c.Participants, mapContact(p))
		}
		for _, m := range r.Messages {
			c.Messages = append(c.Messages, mapMessage(m, c.ID))
		}
		// Chronological order within the conversation.
		sort.SliceStable(c.Messages, func(i, j int) bool {
			return c.Messages[i].CreatedAt.Before(c.Messages[j].CreatedAt)
		})
		if r.LastMessage != nil {
			last := mapMessage(*r.LastMessage, c.ID)
			c.LastMessage = &last
		} else if n := len(c.Messages); n > 0 {
			c.LastMessage = &c.Messages[n-1]
		}
		out = append(out, c)
	}
	return out, nil
}

// NewConversations builds the conversation adapter. Seed: empty list.
func NewConversations(st store.Store, log *zap.Logger) *Adapter[[]models.Conversation] {
	return newAdapter(st, log, KeyConversations, mapConversations, func() []models.Conversation {
		return []models.Conversation{}
	})
}
