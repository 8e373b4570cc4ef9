package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kensetsu-dev/kensetsu/internal/filters"
	"github.com/kensetsu-dev/kensetsu/internal/forms"
	"github.com/kensetsu-dev/kensetsu/internal/models"
	"github.com/kensetsu-dev/kensetsu/internal/notify"
	"github.com/kensetsu-dev/kensetsu/internal/projects"
	"github.com/kensetsu-dev/kensetsu/internal/store"
	"github.com/kensetsu-dev/kensetsu/internal/types"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

// ProjectPatch is the partial-update request body. Pointer fields
// distinguish "leave unchanged" from "set to the zero value".
type ProjectPatch struct {
	Name                  *string              `json:"name"`
	CustomerName          *string              `json:"customer_name"`
	Assignee              *string              `json:"assignee"`
	ContractAmount        *int64               `json:"contract_amount"`
	ExecutionBudget       *int64               `json:"execution_budget"`
	PlannedStartDate      *string              `json:"planned_start_date"`
	PlannedCompletionDate *string              `json:"planned_completion_date"`
	Status                *types.ProjectStatus `json:"status"`
	Notes                 *string              `json:"notes"`
}

// Apply merges the patch over the stored record into full form values, so
// the whole record is re-validated before anything is persisted.
func (p ProjectPatch) Apply(rec models.Project) types.ProjectInput {
	in := forms.InputFromRecord(rec)

	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.CustomerName != nil {
		in.CustomerName = *p.CustomerName
	}
	if p.Assignee != nil {
		in.Assignee = *p.Assignee
	}
	if p.ContractAmount != nil {
		in.ContractAmount = p.ContractAmount
	}
	if p.ExecutionBudget != nil {
		in.ExecutionBudget = p.ExecutionBudget
	}
	if p.PlannedStartDate != nil {
		in.PlannedStartDate = *p.PlannedStartDate
	}
	if p.PlannedCompletionDate != nil {
		in.PlannedCompletionDate = *p.PlannedCompletionDate
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}

	return in
}

type ProjectHandlers struct {
	store    store.RecordStore
	notifier notify.Notifier
	hub      *refreshHub
}

func NewProjectHandlers(st store.RecordStore, notifier notify.Notifier) *ProjectHandlers {
	return &ProjectHandlers{
		store:    st,
		notifier: notifier,
		hub:      newRefreshHub(),
	}
}

// newService builds the data service for one request. List-view state
// (records, total, loading, error) belongs to a single consumer; a shared
// instance would let overlapping requests read each other's results.
func (h *ProjectHandlers) newService() *projects.Service {
	return projects.NewService(h.store, h.notifier)
}

// ListProjects serves the list view: filters, sort and pagination from the
// query string, the snapshot of the data service as the response. A failed
// fetch still carries the last good dataset alongside the error.
func (h *ProjectHandlers) ListProjects(ctx *gin.Context) {
	f := filters.Normalize(types.SearchFilters{
		ProjectID:          ctx.Query("project_id"),
		ProjectName:        ctx.Query("project_name"),
		Assignee:           ctx.Query("assignee"),
		Status:             types.ProjectStatus(ctx.Query("status")),
		CompletionDateFrom: ctx.Query("completion_date_from"),
		CompletionDateTo:   ctx.Query("completion_date_to"),
	})

	if errs := validation.ValidateSearchFilters(f); !errs.Empty() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search filters", "field_errors": errs})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(types.DefaultPageLimit)))

	sort := types.DefaultSort()
	if field := ctx.Query("sort_field"); field != "" {
		sort.Field = field
	}
	if direction := ctx.Query("sort_direction"); direction == string(types.SortAsc) {
		sort.Direction = types.SortAsc
	}

	svc := h.newService()
	svc.SetParams(ctx.Request.Context(), projects.Params{
		Filters: f,
		Sort:    sort,
		Page:    page,
		Limit:   limit,
	})

	snap := svc.Snapshot()
	status := http.StatusOK
	if snap.Error != "" {
		status = http.StatusInternalServerError
	}
	ctx.JSON(status, snap)
}

func (h *ProjectHandlers) GetProject(ctx *gin.Context) {
	rec, err := h.newService().Get(ctx.Request.Context(), ctx.Param("project_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

func (h *ProjectHandlers) CreateProject(ctx *gin.Context) {
	var body types.ProjectInput

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := forms.NewController(h.newService()).SubmitCreate(ctx.Request.Context(), body)
	if !result.FieldErrors.Empty() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "field_errors": result.FieldErrors})
		return
	}
	if result.Err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
		return
	}

	h.hub.broadcast()
	ctx.JSON(http.StatusCreated, gin.H{"message": "Project created"})
}

func (h *ProjectHandlers) UpdateProject(ctx *gin.Context) {
	svc := h.newService()

	existing, err := svc.Get(ctx.Request.Context(), ctx.Param("project_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var patch ProjectPatch
	if err := ctx.BindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := forms.NewController(svc).SubmitUpdate(ctx.Request.Context(), existing, patch.Apply(existing))
	if !result.FieldErrors.Empty() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "field_errors": result.FieldErrors})
		return
	}
	if result.Err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
		return
	}

	h.hub.broadcast()
	ctx.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

func (h *ProjectHandlers) DeleteProject(ctx *gin.Context) {
	id := ctx.Param("project_id")

	if err := h.newService().DeleteProject(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.hub.broadcast()
	ctx.Status(http.StatusNoContent)
}
