// Package forms wires the project form to the data service. Validation
// gates every submit; the store is never contacted while field errors
// remain.
package forms

import (
	"context"
	"strings"

	"github.com/kensetsu-dev/kensetsu/internal/models"
	"github.com/kensetsu-dev/kensetsu/internal/projects"
	"github.com/kensetsu-dev/kensetsu/internal/types"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

type Controller struct {
	svc *projects.Service
}

func NewController(svc *projects.Service) *Controller {
	return &Controller{svc: svc}
}

// SubmitResult carries either a field-keyed error map (validation blocked
// the submit) or the store error from a failed mutation. Both empty means
// success.
type SubmitResult struct {
	FieldErrors validation.Errors
	Err         error
}

func (r SubmitResult) OK() bool {
	return r.FieldErrors.Empty() && r.Err == nil
}

// SubmitCreate registers a new project. Status defaults to planned when the
// form leaves it unset.
func (c *Controller) SubmitCreate(ctx context.Context, in types.ProjectInput) SubmitResult {
	in = normalizeInput(in)
	if in.Status == "" {
		in.Status = types.StatusPlanned
	}

	if errs := validation.ValidateProject(in); !errs.Empty() {
		return SubmitResult{FieldErrors: errs}
	}

	if err := c.svc.CreateProject(ctx, in); err != nil {
		return SubmitResult{Err: err}
	}
	return SubmitResult{}
}

// SubmitUpdate validates the merged record, then persists only the fields
// that actually changed.
func (c *Controller) SubmitUpdate(ctx context.Context, existing models.Project, in types.ProjectInput) SubmitResult {
	in = normalizeInput(in)

	if errs := validation.ValidateProject(in); !errs.Empty() {
		return SubmitResult{FieldErrors: errs}
	}

	updates := diff(existing, in)
	if len(updates) == 0 {
		return SubmitResult{}
	}

	if err := c.svc.UpdateProject(ctx, existing.ID, updates); err != nil {
		return SubmitResult{Err: err}
	}
	return SubmitResult{}
}

// InputFromRecord turns a stored project back into form values, for the edit
// screen and for merging partial updates.
func InputFromRecord(rec models.Project) types.ProjectInput {
	contract := rec.ContractAmount
	budget := rec.ExecutionBudget
	return types.ProjectInput{
		Name:                  rec.Name,
		CustomerName:          rec.CustomerName,
		Assignee:              rec.Assignee,
		ContractAmount:        &contract,
		ExecutionBudget:       &budget,
		PlannedStartDate:      rec.PlannedStartDate,
		PlannedCompletionDate: rec.PlannedCompletionDate,
		Status:                rec.Status,
		Notes:                 rec.Notes,
	}
}

func normalizeInput(in types.ProjectInput) types.ProjectInput {
	in.Name = strings.TrimSpace(in.Name)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Assignee = strings.TrimSpace(in.Assignee)
	in.PlannedStartDate = strings.TrimSpace(in.PlannedStartDate)
	in.PlannedCompletionDate = strings.TrimSpace(in.PlannedCompletionDate)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

func diff(rec models.Project, in types.ProjectInput) map[string]interface{} {
	updates := make(map[string]interface{})

	if in.Name != rec.Name {
		updates["name"] = in.Name
	}
	if in.CustomerName != rec.CustomerName {
		updates["customer_name"] = in.CustomerName
	}
	if in.Assignee != rec.Assignee {
		updates["assignee"] = in.Assignee
	}
	if in.ContractAmount != nil && *in.ContractAmount != rec.ContractAmount {
		updates["contract_amount"] = *in.ContractAmount
	}
	if in.ExecutionBudget != nil && *in.ExecutionBudget != rec.ExecutionBudget {
		updates["execution_budget"] = *in.ExecutionBudget
	}
	if in.PlannedStartDate != rec.PlannedStartDate {
		updates["planned_start_date"] = in.PlannedStartDate
	}
	if in.PlannedCompletionDate != rec.PlannedCompletionDate {
		updates["planned_completion_date"] = in.PlannedCompletionDate
	}
	if in.Status != rec.Status {
		updates["status"] = string(in.Status)
	}
	if in.Notes != rec.Notes {
		updates["notes"] = in.Notes
	}

	return updates
}
