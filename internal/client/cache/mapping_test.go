package cache

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare array", raw: `[1,2]`, want: `[1,2]`},
		{name: "data envelope", raw: `{"data":[1]}`, want: `[1]`},
		{name: "items envelope", raw: `{"items":[2]}`, want: `[2]`},
		{name: "results envelope", raw: `{"results":[3]}`, want: `[3]`},
		{name: "no list", raw: `{"count":4}`, wantErr: true},
		{name: "not json", raw: `<html>`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrapList(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unwrapList failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFlexTime(t *testing.T) {
	var v struct {
		At flexTime `json:"at"`
	}

	if err := json.Unmarshal([]byte(`{"at":"2026-02-01T10:00:00Z"}`), &v); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	want := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	if !v.At.Time.Equal(want) {
		t.Errorf("rfc3339: got %v", v.At.Time)
	}

	if err := json.Unmarshal([]byte(`{"at":1767261600}`), &v); err != nil {
		t.Fatalf("unix: %v", err)
	}
	if !v.At.Time.Equal(time.Unix(1767261600, 0)) {
		t.Errorf("unix: got %v", v.At.Time)
	}

	if err := json.Unmarshal([]byte(`{"at":null}`), &v); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !v.At.Time.IsZero() {
		t.Errorf("null: got %v", v.At.Time)
	}

	if err := json.Unmarshal([]byte(`{"at":"yesterday"}`), &v); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestFlexInt(t *testing.T) {
	var v struct {
		ID flexInt `json:"id"`
	}
	if err := json.Unmarshal([]byte(`{"id":42}`), &v); err != nil || v.ID != 42 {
		t.Errorf("number: got %d, err %v", v.ID, err)
	}
	if err := json.Unmarshal([]byte(`{"id":"17"}`), &v); err != nil || v.ID != 17 {
		t.Errorf("string: got %d, err %v", v.ID, err)
	}
	if err := json.Unmarshal([]byte(`{"id":null}`), &v); err != nil || v.ID != 0 {
		t.Errorf("null: got %d, err %v", v.ID, err)
	}
	if err := json.Unmarshal([]byte(`{"id":"abc"}`), &v); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		ID flexString `json:"id"`
	}
	if err := json.Unmarshal([]byte(`{"id":"c-1"}`), &v); err != nil || v.ID != "c-1" {
		t.Errorf("string: got %q, err %v", v.ID, err)
	}
	if err := json.Unmarshal([]byte(`{"id":7}`), &v); err != nil || v.ID != "7" {
		t.Errorf("number: got %q, err %v", v.ID, err)
	}
	if err := json.Unmarshal([]byte(`{"id":null}`), &v); err != nil || v.ID != "" {
		t.Errorf("null: got %q, err %v", v.ID, err)
	}
}
