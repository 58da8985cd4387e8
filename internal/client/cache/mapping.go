package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unwrapList accepts either a bare JSON array or an envelope object with the
// records under "data", "items" or "results".
func unwrapList(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if trimmed[0] == '[' {
		return raw, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unwrap payload: %w", err)
	}
	for _, key := range []string{"data", "items", "results"} {
		if inner, ok := envelope[key]; ok {
			return inner, nil
		}
	}
	return nil, fmt.Errorf("payload has no record list")
}

// flexTime decodes a timestamp that may arrive as an RFC3339 string, a unix
// seconds number, or null.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if s[0] == '"' {
		parsed, err := time.Parse(time.RFC3339, strings.Trim(s, `"`))
		if err != nil {
			return fmt.Errorf("parse timestamp %s: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse unix timestamp %s: %w", s, err)
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

// flexInt decodes an integer id that may arrive as a number or a numeric
// string.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		*i = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse id %s: %w", s, err)
	}
	*i = flexInt(n)
	return nil
}

// flexString decodes an id that may arrive as a string or a number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	*s = flexString(trimmed)
	return nil
}

// firstNonEmpty returns the first non-empty string among vals.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// floatOr dereferences p, substituting def when absent.
func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// boolOr returns the first present bool among ps, or def.
func boolOr(def bool, ps ...*bool) bool {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return def
}

// intOr returns the first present int among ps, or def.
func intOr(def int, ps ...*int) int {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return def
}
