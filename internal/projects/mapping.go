package projects

import (
	"encoding/json"
	"net/url"

	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("name", "Name").
	Project("description", "Description").
	Project("texts", "Texts").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = "RETURNING id, user_id, name, description, texts, created_at, updated_at"

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for project queries.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

func scanProject(s repository.Scanner) (Project, error) {
	var (
		p     Project
		texts []byte
	)
	err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&texts,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Texts = []string{}
	if len(texts) > 0 {
		err = json.Unmarshal(texts, &p.Texts)
	}
	return p, err
}

func encodeTexts(texts []string) (string, error) {
	if texts == nil {
		texts = []string{}
	}
	data, err := json.Marshal(texts)
	return string(data), err
}
