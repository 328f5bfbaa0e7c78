package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	log "github.com/sirupsen/logrus"

	"cantina/models"
	"cantina/storage"
)

// jobsSchema accepts the three catalog shapes operators have authored over
// time: a bare list of job objects, a {"jobs": [...]} wrapper, or a map keyed
// by slug. Anything else is rejected and treated as an empty catalog.
const jobsSchema = `{
	"oneOf": [
		{"type": "array", "items": {"type": "object"}},
		{
			"type": "object",
			"required": ["jobs"],
			"properties": {"jobs": {"type": "array", "items": {"type": "object"}}}
		},
		{"type": "object", "additionalProperties": {"type": "object"}}
	]
}`

// JobCatalog implements read access to the operator-authored job document.
type JobCatalog struct {
	store  *storage.Store
	doc    string
	schema *jsonschema.Schema
}

// NewJobCatalog creates a catalog reading from the named document.
func NewJobCatalog(store *storage.Store, doc string) *JobCatalog {
	return &JobCatalog{
		store:  store,
		doc:    doc,
		schema: jsonschema.MustCompileString("jobs.json", jobsSchema),
	}
}

// List returns jobs in catalog order. Missing or malformed catalog data
// yields an empty list: "no jobs" is a valid, displayable state.
func (c *JobCatalog) List(ctx context.Context) ([]*models.Job, error) {
	raw := json.RawMessage("{}")
	if err := c.store.Load(c.doc, &raw); err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil
	}
	if err := c.schema.Validate(doc); err != nil {
		log.WithFields(log.Fields{
			"document": c.doc,
			"error":    err,
		}).Warn("Job catalog failed schema validation, treating as empty")
		return nil, nil
	}

	return decodeJobs(raw), nil
}

// FindBySlugOrName matches the slug exactly or the name case-insensitively.
func (c *JobCatalog) FindBySlugOrName(ctx context.Context, text string) (*models.Job, error) {
	jobs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if job.Slug == text || strings.EqualFold(job.Name, text) {
			return job, nil
		}
	}
	return nil, nil
}

func decodeJobs(raw json.RawMessage) []*models.Job {
	// Bare list.
	var list []*models.Job
	if err := json.Unmarshal(raw, &list); err == nil {
		return compactJobs(list)
	}

	// {"jobs": [...]} wrapper.
	var wrapper struct {
		Jobs []*models.Job `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Jobs != nil {
		return compactJobs(wrapper.Jobs)
	}

	// Map keyed by slug. Maps carry no order, so sort by slug to keep List
	// output stable across loads.
	var bySlug map[string]*models.Job
	if err := json.Unmarshal(raw, &bySlug); err == nil {
		jobs := make([]*models.Job, 0, len(bySlug))
		for slug, job := range bySlug {
			if job == nil {
				continue
			}
			if job.Slug == "" {
				job.Slug = slug
			}
			jobs = append(jobs, job)
		}
		sort.Slice(jobs, func(i, j int) bool { return jobs[i].Slug < jobs[j].Slug })
		return jobs
	}

	return nil
}

func compactJobs(jobs []*models.Job) []*models.Job {
	out := jobs[:0]
	for _, job := range jobs {
		if job != nil && (job.Slug != "" || job.Name != "") {
			out = append(out, job)
		}
	}
	return out
}
