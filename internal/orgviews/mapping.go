package orgviews

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coderman400/AIArchitect/pkg/query"
	"github.com/coderman400/AIArchitect/pkg/repository"
	"github.com/coderman400/AIArchitect/workflow"
)

const ownerColumn = "p.user_id"

var projection = query.
	NewProjectionMap("public", "orgviews", "o").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("tree", "Tree").
	Project("enriched", "Enriched").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "projects", "p", "JOIN", "o.project_id = p.id")

const returning = "RETURNING id, project_id, tree, enriched, version, created_at, updated_at"

func scanOrgView(s repository.Scanner) (OrgView, error) {
	var (
		ov       OrgView
		tree     []byte
		enriched []byte
	)
	err := s.Scan(
		&ov.ID,
		&ov.ProjectID,
		&tree,
		&enriched,
		&ov.Version,
		&ov.CreatedAt,
		&ov.UpdatedAt,
	)
	if err != nil {
		return ov, err
	}

	if err := json.Unmarshal(tree, &ov.Tree); err != nil {
		return ov, fmt.Errorf("decode stored tree: %w", err)
	}
	if len(enriched) > 0 {
		var d workflow.Detail
		if err := json.Unmarshal(enriched, &d); err != nil {
			return ov, fmt.Errorf("decode stored enriched tree: %w", err)
		}
		ov.Enriched = &d
	}
	return ov, nil
}

// encodeTrees marshals the trees for storage. A nil enriched tree is
// stored as SQL NULL.
func encodeTrees(tree workflow.Detail, enriched *workflow.Detail) (string, sql.Null[string], error) {
	t, err := json.Marshal(tree)
	if err != nil {
		return "", sql.Null[string]{}, fmt.Errorf("encode tree: %w", err)
	}
	if enriched == nil {
		return string(t), sql.Null[string]{}, nil
	}
	e, err := json.Marshal(enriched)
	if err != nil {
		return "", sql.Null[string]{}, fmt.Errorf("encode enriched tree: %w", err)
	}
	return string(t), sql.Null[string]{V: string(e), Valid: true}, nil
}
