package cache

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client/store"
	"github.com/campussync/campussync/internal/models"
)

func TestAdapter_ReadServesSeedWhenEmpty(t *testing.T) {
	set := NewSet(store.OpenMem(), zap.NewNop())

	if got := set.Courses.Read(); len(got) != 0 {
		t.Errorf("expected empty course seed, got %v", got)
	}
	s := set.Settings.Read()
	want := models.Settings{Theme: "light", Locale: "en", EmailNotifications: true}
	if s != want {
		t.Errorf("settings seed = %+v, want %+v", s, want)
	}
}

func TestAdapter_SeedIsDeterministic(t *testing.T) {
	set := NewSet(store.OpenMem(), zap.NewNop())
	first := set.Settings.Seed()
	second := set.Settings.Seed()
	if first != second {
		t.Errorf("seed not stable: %+v vs %+v", first, second)
	}
}

func TestAdapter_WriteThenRead(t *testing.T) {
	set := NewSet(store.OpenMem(), zap.NewNop())
	courses := []models.Course{{ID: 10, Name: "Algorithms", Code: "CS301", Enrolled: true}}
	if err := set.Courses.Write(courses); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := set.Courses.Read(); !reflect.DeepEqual(got, courses) {
		t.Errorf("Read = %+v, want %+v", got, courses)
	}
}

func TestAdapter_ReadServesSeedOnCorruptEntry(t *testing.T) {
	st := store.OpenMem()
	set := NewSet(st, zap.NewNop())
	_ = st.Set(KeyCourses, []byte(`{{{not json`))
	if got := set.Courses.Read(); len(got) != 0 {
		t.Errorf("expected seed on corrupt entry, got %v", got)
	}
}

func TestMapCourses_Aliases(t *testing.T) {
	raw := json.RawMessage(`{"data":[
		{"id":"10","course_name":"Algorithms","course_code":"CS301","instructor_name":"Dr. Ada","is_enrolled":true,"progress":62.5,"updated_at":"2026-02-01T10:00:00Z"},
		{"id":11,"title":"Databases","code":"CS305","instructor":"Dr. Codd"}
	]}`)
	got, err := mapCourses(raw)
	if err != nil {
		t.Fatalf("mapCourses failed: %v", err)
	}
	want := []models.Course{
		{ID: 10, Name: "Algorithms", Code: "CS301", Instructor: "Dr. Ada", Progress: 62.5, Enrolled: true,
			UpdatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 11, Name: "Databases", Code: "CS305", Instructor: "Dr. Codd"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestMapAssignments_DefaultsAndAliases(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":100,"course_id":10,"name":"Problem Set 1","due_date":"2026-03-01T00:00:00Z","is_submitted":true,"score":88},
		{"id":101,"course_id":10,"title":"Essay"}
	]`)
	got, err := mapAssignments(raw)
	if err != nil {
		t.Fatalf("mapAssignments failed: %v", err)
	}
	if got[0].Title != "Problem Set 1" || !got[0].Submitted || got[0].Score == nil || *got[0].Score != 88 {
		t.Errorf("aliased assignment mapped wrong: %+v", got[0])
	}
	if got[0].MaxScore != 100 {
		t.Errorf("absent max_score should default to 100, got %v", got[0].MaxScore)
	}
	if got[1].Submitted || got[1].Score != nil || !got[1].DueAt.IsZero() {
		t.Errorf("absent fields should take defaults: %+v", got[1])
	}
}

func TestMapGrades_NullableScores(t *testing.T) {
	raw := json.RawMessage(`[{
		"id":1,
		"course":{"id":10,"name":"Algorithms","code":"CS301"},
		"assignments":[
			{"score":88,"total":100,"weight":30},
			{"score":null,"total":100,"weight":70}
		]
	}]`)
	got, err := mapGrades(raw)
	if err != nil {
		t.Fatalf("mapGrades failed: %v", err)
	}
	if len(got) != 1 || len(got[0].Items) != 2 {
		t.Fatalf("unexpected shape: %+v", got)
	}
	if got[0].Course.Name != "Algorithms" {
		t.Errorf("nested course not mapped: %+v", got[0].Course)
	}
	if got[0].Items[0].Score == nil || *got[0].Items[0].Score != 88 {
		t.Errorf("graded item lost its score: %+v", got[0].Items[0])
	}
	if got[0].Items[1].Score != nil {
		t.Errorf("ungraded item must stay nil, got %v", *got[0].Items[1].Score)
	}
}

func TestMapConversations_OrderAndLastMessage(t *testing.T) {
	raw := json.RawMessage(`[{
		"id":"c-1",
		"unread":2,
		"messages":[
			{"id":"m-2","content":"second","timestamp":"2026-02-01T11:00:00Z"},
			{"id":"m-1","text":"first","created_at":"2026-02-01T10:00:00Z"}
		]
	}]`)
	got, err := mapConversations(raw)
	if err != nil {
		t.Fatalf("mapConversations failed: %v", err)
	}
	c := got[0]
	if c.Type != models.ConversationDirect {
		t.Errorf("absent type should default to direct, got %q", c.Type)
	}
	if c.UnreadCount != 2 {
		t.Errorf("unread alias not honored: %d", c.UnreadCount)
	}
	if c.Messages[0].ID != "m-1" || c.Messages[1].ID != "m-2" {
		t.Errorf("messages not chronological: %+v", c.Messages)
	}
	if c.LastMessage == nil || c.LastMessage.ID != "m-2" {
		t.Errorf("last message not derived: %+v", c.LastMessage)
	}
	if c.Messages[0].ConversationID != "c-1" {
		t.Errorf("conversation id not backfilled on message: %+v", c.Messages[0])
	}
	if c.Messages[0].Body != "first" || c.Messages[1].Body != "second" {
		t.Errorf("body aliases not folded: %+v", c.Messages)
	}
}

func TestMapMessage_AttachmentShapes(t *testing.T) {
	nested := rawMessage{Attachment: &struct {
		URL      string `json:"url"`
		MIMEType string `json:"mime_type"`
	}{URL: "https://files/x.pdf", MIMEType: "application/pdf"}}
	m := mapMessage(nested, "c-1")
	if m.Attachment == nil || m.Attachment.URL != "https://files/x.pdf" {
		t.Errorf("nested attachment lost: %+v", m.Attachment)
	}

	flat := rawMessage{AttachmentURL: "https://files/y.png", AttachmentType: "image/png"}
	m = mapMessage(flat, "c-1")
	if m.Attachment == nil || m.Attachment.MIMEType != "image/png" {
		t.Errorf("flat attachment lost: %+v", m.Attachment)
	}

	if m := mapMessage(rawMessage{}, "c-1"); m.Attachment != nil {
		t.Errorf("no attachment expected, got %+v", m.Attachment)
	}
}

func TestMapSettings_Defaults(t *testing.T) {
	got, err := mapSettings(json.RawMessage(`{"name":"Sam","email":"sam@campus.edu","language":"de","notify_by_email":false}`))
	if err != nil {
		t.Fatalf("mapSettings failed: %v", err)
	}
	want := models.Settings{DisplayName: "Sam", Email: "sam@campus.edu", Theme: "light", Locale: "de", EmailNotifications: false}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMapNotifications_ReadAliases(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"n-1","title":"Grade posted","message":"See CS301","is_read":true},
		{"id":"n-2","title":"Reminder","body":"PS1 due"}
	]`)
	got, err := mapNotifications(raw)
	if err != nil {
		t.Fatalf("mapNotifications failed: %v", err)
	}
	if !got[0].Read || got[0].Body != "See CS301" {
		t.Errorf("aliases not folded: %+v", got[0])
	}
	if got[1].Read {
		t.Errorf("absent read flag must default to unread: %+v", got[1])
	}
}

func TestMapAttendance_PresentAliases(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"att-1","course_id":10,"student_id":1,"attended":true},
		{"id":"att-2","course_id":10,"student_id":1}
	]`)
	got, err := mapAttendance(raw)
	if err != nil {
		t.Fatalf("mapAttendance failed: %v", err)
	}
	if !got[0].Present || got[1].Present {
		t.Errorf("present flags wrong: %+v", got)
	}
}

func TestMapCourses_MalformedPayload(t *testing.T) {
	if _, err := mapCourses(json.RawMessage(`{"count":3}`)); err == nil {
		t.Error("expected error for envelope without a list")
	}
	if _, err := mapCourses(json.RawMessage(`[{"id":"not-a-number"}]`)); err == nil {
		t.Error("expected error for unparseable id")
	}
}
