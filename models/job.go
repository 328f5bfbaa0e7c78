package models

import (
	"encoding/json"
	"strings"
)

// Job represents a read-only entry of the job catalog. The catalog file is
// authored by operators, not by the bot.
type Job struct {
	Slug               string `json:"slug"`
	Name               string `json:"name"`
	Emoji              string `json:"emoji,omitempty"`
	Level              string `json:"level,omitempty"`
	RequiredExperience int64  `json:"required_experience"`
	Salary             *int64 `json:"salary,omitempty"`
}

// salaryKeys are the synonymous salary field names seen in operator-authored
// catalogs, checked in this order; the first non-null match wins.
var salaryKeys = []string{"salary", "pay", "income", "wage", "salary_per_day", "pago", "sueldo"}

// UnmarshalJSON normalizes the synonym keys a catalog entry may use:
// required_experience|required, level|category, and the salary variants.
// A missing slug is derived from the name.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	j.Slug = pickString(raw, "slug")
	j.Name = pickString(raw, "name", "display_name")
	j.Emoji = pickString(raw, "emoji")
	j.Level = pickString(raw, "level", "category")
	j.RequiredExperience = pickInt(raw, "required_experience", "required")

	j.Salary = nil
	if _, ok := firstPresent(raw, salaryKeys...); ok {
		salary := pickInt(raw, salaryKeys...)
		j.Salary = &salary
	}

	if j.Slug == "" && j.Name != "" {
		j.Slug = Slugify(j.Name)
	}
	return nil
}

// Slugify derives a catalog slug from a display name.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
