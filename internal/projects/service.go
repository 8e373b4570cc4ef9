// Package projects owns the authoritative client-side view of "the current
// page of projects matching the current filters and sort", plus every
// mutation entry point. Consistency after a write comes from a full refetch,
// never from patching local records.
package projects

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kensetsu-dev/kensetsu/internal/models"
	"github.com/kensetsu-dev/kensetsu/internal/notify"
	"github.com/kensetsu-dev/kensetsu/internal/query"
	"github.com/kensetsu-dev/kensetsu/internal/store"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

// Params is the full query-shaping tuple. Any change to it invalidates the
// current result and triggers exactly one new fetch.
type Params struct {
	Filters types.SearchFilters `json:"filters"`
	Sort    types.SortParams    `json:"sort"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
}

// Snapshot is the current list-view state. Records and Total survive a
// failed refetch so a transient error never blanks the screen; only the very
// first load starts empty.
type Snapshot struct {
	Records    []models.Project `json:"projects"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

// Service is the project data service. One instance backs one list-view
// consumer; all state transitions happen under its lock.
type Service struct {
	store    store.RecordStore
	notifier notify.Notifier

	mu      sync.Mutex
	params  Params
	seq     uint64
	records []models.Project
	total   int64
	loading bool
	errMsg  string

	nextSub int
	subs    map[int]func(Snapshot)
}

func NewService(st store.RecordStore, notifier notify.Notifier) *Service {
	return &Service{
		store:    st,
		notifier: notifier,
		params: Params{
			Sort:  types.DefaultSort(),
			Page:  1,
			Limit: types.DefaultPageLimit,
		},
		subs: make(map[int]func(Snapshot)),
	}
}

// OnChange registers a state subscriber and returns its unsubscribe func.
// Subscribers are invoked outside the state lock.
func (s *Service) OnChange(cb func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	totalPages := 0
	if s.params.Limit > 0 {
		totalPages = int((s.total + int64(s.params.Limit) - 1) / int64(s.params.Limit))
	}
	return Snapshot{
		Records:    s.records,
		Total:      s.total,
		TotalPages: totalPages,
		Page:       s.params.Page,
		Limit:      s.params.Limit,
		Loading:    s.loading,
		Error:      s.errMsg,
	}
}

func (s *Service) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetFilters replaces the filter value and refetches. A filter change always
// resets pagination to page 1: a stale page number from a larger unfiltered
// result set must never be applied to a smaller filtered one.
func (s *Service) SetFilters(ctx context.Context, filters types.SearchFilters) {
	s.mu.Lock()
	s.params.Filters = filters
	s.params.Page = 1
	s.mu.Unlock()
	s.FetchProjects(ctx)
}

func (s *Service) ClearFilters(ctx context.Context) {
	s.SetFilters(ctx, types.SearchFilters{})
}

// SetSort changes the ordering. The page is kept.
func (s *Service) SetSort(ctx context.Context, sort types.SortParams) {
	s.mu.Lock()
	s.params.Sort = sort
	s.mu.Unlock()
	s.FetchProjects(ctx)
}

func (s *Service) SetPage(ctx context.Context, page int) {
	s.mu.Lock()
	s.params.Page = query.NormalizePage(page)
	s.mu.Unlock()
	s.FetchProjects(ctx)
}

// SetLimit changes the page size and resets to page 1.
func (s *Service) SetLimit(ctx context.Context, limit int) {
	s.mu.Lock()
	s.params.Limit = query.NormalizeLimit(limit)
	s.params.Page = 1
	s.mu.Unlock()
	s.FetchProjects(ctx)
}

// SetParams replaces the whole tuple at once and refetches exactly once.
// When filters or limit differ from the current value the page resets to 1,
// regardless of what the caller asked for.
func (s *Service) SetParams(ctx context.Context, p Params) {
	s.mu.Lock()
	p.Page = query.NormalizePage(p.Page)
	p.Limit = query.NormalizeLimit(p.Limit)
	if p.Filters != s.params.Filters || p.Limit != s.params.Limit {
		p.Page = 1
	}
	s.params = p
	s.mu.Unlock()
	s.FetchProjects(ctx)
}

// FetchProjects (re)issues the compiled query for the current parameters.
// It always resolves: failures populate the error state instead of being
// returned. Safe to call concurrently with itself; each call takes a
// monotonically increasing token and a completion whose token has been
// superseded is discarded, so a slow early response can never overwrite the
// result of a newer request.
func (s *Service) FetchProjects(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.loading = true
	p := s.params
	s.mu.Unlock()
	s.notifyChange()

	q := query.Compile(p.Filters, p.Sort, p.Page, p.Limit)
	var records []models.Project
	count, err := s.store.Select(ctx, q, &records)

	s.mu.Lock()
	if token != s.seq {
		// Superseded while in flight; the newest request owns the state.
		s.mu.Unlock()
		return
	}
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		log.Printf("Failed to fetch projects: %v", err)
	} else {
		s.errMsg = ""
		s.records = records
		s.total = count
		log.Printf("Fetched %d of %d projects (page %d)", len(records), count, p.Page)
	}
	s.mu.Unlock()
	s.notifyChange()
}

// Get loads a single project for the detail and edit views.
func (s *Service) Get(ctx context.Context, id string) (models.Project, error) {
	var rec models.Project
	err := s.store.Get(ctx, query.ProjectsTable, id, &rec)
	return rec, err
}

// CreateProject inserts one record. The input is validated upstream by the
// form controller; this operation assumes already-valid data. On success it
// refetches the current page; on failure it does not.
func (s *Service) CreateProject(ctx context.Context, in types.ProjectInput) error {
	rec := recordFromInput(in)
	if err := s.store.Insert(ctx, query.ProjectsTable, &rec); err != nil {
		s.notifier.ShowError("Project create failed", err.Error())
		return err
	}

	s.notifier.ShowSuccess("Project created", fmt.Sprintf("Project %q has been registered", in.Name))
	s.FetchProjects(ctx)
	return nil
}

// UpdateProject applies a partial update (any subset of fields).
func (s *Service) UpdateProject(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := s.store.Update(ctx, query.ProjectsTable, id, updates); err != nil {
		s.notifier.ShowError("Project update failed", err.Error())
		return err
	}

	s.notifier.ShowSuccess("Project updated", "Project details have been updated")
	s.FetchProjects(ctx)
	return nil
}

// DeleteProject removes a record by id. Irreversible; there is no undo.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, query.ProjectsTable, id); err != nil {
		s.notifier.ShowError("Project delete failed", err.Error())
		return err
	}

	s.notifier.ShowSuccess("Project deleted", "Project data has been deleted")
	s.FetchProjects(ctx)
	return nil
}

func (s *Service) notifyChange() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	cbs := make([]func(Snapshot), 0, len(s.subs))
	for _, cb := range s.subs {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(snap)
	}
}

func recordFromInput(in types.ProjectInput) models.Project {
	rec := models.Project{
		Name:                  in.Name,
		CustomerName:          in.CustomerName,
		Assignee:              in.Assignee,
		PlannedStartDate:      in.PlannedStartDate,
		PlannedCompletionDate: in.PlannedCompletionDate,
		Status:                in.Status,
		Notes:                 in.Notes,
	}
	if in.ContractAmount != nil {
		rec.ContractAmount = *in.ContractAmount
	}
	if in.ExecutionBudget != nil {
		rec.ExecutionBudget = *in.ExecutionBudget
	}
	return rec
}
