package types

// ProjectStatus is the progress state of a construction project.
type ProjectStatus string

const (
	StatusPlanned    ProjectStatus = "planned"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// SearchFilters narrows the project list. Empty fields are absent from the
// compiled query; absence never means "match empty".
type SearchFilters struct {
	ProjectID          string        `json:"projectId,omitempty"`
	ProjectName        string        `json:"projectName,omitempty"`
	Assignee           string        `json:"assignee,omitempty"`
	Status             ProjectStatus `json:"status,omitempty"`
	CompletionDateFrom string        `json:"completionDateFrom,omitempty"`
	CompletionDateTo   string        `json:"completionDateTo,omitempty"`
}

func (f SearchFilters) Empty() bool {
	return f == SearchFilters{}
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortParams is a single-column sort; multi-column sorting is not supported.
type SortParams struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() SortParams {
	return SortParams{Field: "created_at", Direction: SortDesc}
}

// PageLimits are the page sizes the list view offers.
var PageLimits = []int{10, 25, 50, 100}

const DefaultPageLimit = 25

// ProjectInput is the form payload for creating or editing a project. The
// amount fields are pointers so "not entered" is distinguishable from zero.
type ProjectInput struct {
	Name                  string        `json:"name"`
	CustomerName          string        `json:"customer_name"`
	Assignee              string        `json:"assignee"`
	ContractAmount        *int64        `json:"contract_amount"`
	ExecutionBudget       *int64        `json:"execution_budget"`
	PlannedStartDate      string        `json:"planned_start_date"`
	PlannedCompletionDate string        `json:"planned_completion_date"`
	Status                ProjectStatus `json:"status"`
	Notes                 string        `json:"notes"`
}
