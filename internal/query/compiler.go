// Package query compiles list-view parameters into record-store requests.
package query

import (
	"github.com/kensetsu-dev/kensetsu/internal/store"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

const ProjectsTable = "projects"

// sortableFields are the columns of the projects table a caller may order
// by. Anything else falls back to the default sort.
var sortableFields = map[string]bool{
	"id":                      true,
	"name":                    true,
	"customer_name":           true,
	"assignee":                true,
	"contract_amount":         true,
	"execution_budget":        true,
	"planned_start_date":      true,
	"planned_completion_date": true,
	"status":                  true,
	"created_at":              true,
	"updated_at":              true,
}

// Compile translates the (filters, sort, page, limit) tuple into a request
// against the projects table. Empty filter fields produce no clause.
func Compile(filters types.SearchFilters, sort types.SortParams, page, limit int) store.Query {
	page = NormalizePage(page)
	limit = NormalizeLimit(limit)

	q := store.Query{Table: ProjectsTable}

	if filters.ProjectID != "" {
		q.Clauses = append(q.Clauses, store.Clause{Field: "id", Op: store.OpContains, Value: filters.ProjectID})
	}
	if filters.ProjectName != "" {
		q.Clauses = append(q.Clauses, store.Clause{Field: "name", Op: store.OpContains, Value: filters.ProjectName})
	}
	if filters.Assignee != "" {
		// Substring match, consistent with the other text filters.
		q.Clauses = append(q.Clauses, store.Clause{Field: "assignee", Op: store.OpContains, Value: filters.Assignee})
	}
	if filters.Status != "" {
		q.Clauses = append(q.Clauses, store.Clause{Field: "status", Op: store.OpEq, Value: string(filters.Status)})
	}
	if filters.CompletionDateFrom != "" {
		q.Clauses = append(q.Clauses, store.Clause{Field: "planned_completion_date", Op: store.OpGte, Value: filters.CompletionDateFrom})
	}
	if filters.CompletionDateTo != "" {
		q.Clauses = append(q.Clauses, store.Clause{Field: "planned_completion_date", Op: store.OpLte, Value: filters.CompletionDateTo})
	}

	if !sortableFields[sort.Field] {
		sort = types.DefaultSort()
	}
	q.OrderField = sort.Field
	q.OrderAscending = sort.Direction == types.SortAsc

	offset := (page - 1) * limit
	q.From = offset
	q.To = offset + limit - 1

	return q
}

func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func NormalizeLimit(limit int) int {
	for _, allowed := range types.PageLimits {
		if limit == allowed {
			return limit
		}
	}
	return types.DefaultPageLimit
}
