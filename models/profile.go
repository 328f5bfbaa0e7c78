package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MaxHealth is the health ceiling for every profile.
const MaxHealth = 100

// Profile represents a user's persistent economy state, keyed by Discord user ID
// in the users document.
type Profile struct {
	Balance      int64      `json:"balance"`
	Experience   int64      `json:"experience"`
	Health       int        `json:"health"`
	Job          string     `json:"job,omitempty"`
	LastWorkedAt *time.Time `json:"last_worked_at,omitempty"`
	Disease      string     `json:"disease,omitempty"`
	DiseaseSetAt *time.Time `json:"disease_set_at,omitempty"`
}

// NewProfile returns a profile with registration defaults.
func NewProfile() *Profile {
	return &Profile{Health: MaxHealth}
}

// Sick reports whether a disease is currently recorded.
func (p *Profile) Sick() bool {
	return p.Disease != ""
}

// ClearDisease removes the recorded disease and its timestamp.
func (p *Profile) ClearDisease() {
	p.Disease = ""
	p.DiseaseSetAt = nil
}

// UnmarshalJSON accepts both the canonical schema and the legacy documents
// written by earlier versions of the bot, which used Spanish/English key
// synonyms (dinero/money, experiencia/exp, salud/health, trabajo/job,
// date_job, date_disease). Legacy keys are migrated to the canonical schema
// here, once, so the rest of the codebase only ever sees canonical fields.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Balance = pickInt(raw, "balance", "dinero", "money")
	p.Experience = pickInt(raw, "experience", "experiencia", "exp")

	p.Health = MaxHealth
	if _, ok := firstPresent(raw, "health", "salud"); ok {
		p.Health = int(pickInt(raw, "health", "salud"))
	}

	p.Job = pickString(raw, "job", "trabajo")
	p.LastWorkedAt = pickTime(raw, "last_worked_at", "date_job")
	p.Disease = pickString(raw, "disease")
	p.DiseaseSetAt = pickTime(raw, "disease_set_at", "date_disease")
	return nil
}

func firstPresent(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func pickInt(raw map[string]json.RawMessage, keys ...string) int64 {
	v, ok := firstPresent(raw, keys...)
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return n
	}
	// Legacy documents occasionally stored numbers as strings.
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func pickString(raw map[string]json.RawMessage, keys ...string) string {
	v, ok := firstPresent(raw, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// pickTime parses ISO-8601 timestamps. Legacy documents written by
// datetime.isoformat() may omit the timezone offset; those are taken as UTC.
func pickTime(raw map[string]json.RawMessage, keys ...string) *time.Time {
	s := pickString(raw, keys...)
	if s == "" {
		return nil
	}
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
