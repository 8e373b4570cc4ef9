package projects_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kensetsu-dev/kensetsu/internal/models"
	"github.com/kensetsu-dev/kensetsu/internal/projects"
	"github.com/kensetsu-dev/kensetsu/internal/store"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

type fakeStore struct {
	mu      sync.Mutex
	selects []store.Query

	selectFn func(q store.Query, dest interface{}) (int64, error)
	insertFn func(table string, record interface{}) error
	updateFn func(table, id string, updates map[string]interface{}) error
	deleteFn func(table, id string) error
}

func (f *fakeStore) Select(ctx context.Context, q store.Query, dest interface{}) (int64, error) {
	f.mu.Lock()
	f.selects = append(f.selects, q)
	f.mu.Unlock()
	if f.selectFn != nil {
		return f.selectFn(q, dest)
	}
	return 0, nil
}

func (f *fakeStore) Get(ctx context.Context, table, id string, dest interface{}) error {
	return store.ErrNotFound
}

func (f *fakeStore) Insert(ctx context.Context, table string, record interface{}) error {
	if f.insertFn != nil {
		return f.insertFn(table, record)
	}
	return nil
}

func (f *fakeStore) Update(ctx context.Context, table, id string, updates map[string]interface{}) error {
	if f.updateFn != nil {
		return f.updateFn(table, id, updates)
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, table, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(table, id)
	}
	return nil
}

func (f *fakeStore) selectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.selects)
}

func (f *fakeStore) lastSelect() store.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects[len(f.selects)-1]
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (f *fakeNotifier) ShowSuccess(title, message string) {
	f.mu.Lock()
	f.successes = append(f.successes, title+": "+message)
	f.mu.Unlock()
}

func (f *fakeNotifier) ShowError(title, message string) {
	f.mu.Lock()
	f.errors = append(f.errors, title+": "+message)
	f.mu.Unlock()
}

func fillRecords(dest interface{}, recs ...models.Project) {
	*dest.(*[]models.Project) = recs
}

func int64p(v int64) *int64 { return &v }

func validInput() types.ProjectInput {
	return types.ProjectInput{
		Name:            "Bridge repair",
		Assignee:        "Tanaka",
		ContractAmount:  int64p(10_000_000),
		ExecutionBudget: int64p(8_000_000),
		Status:          types.StatusPlanned,
	}
}

func TestFetchProjectsPopulatesState(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{
		selectFn: func(q store.Query, dest interface{}) (int64, error) {
			fillRecords(dest, models.Project{ID: "p1"}, models.Project{ID: "p2"})
			return 25, nil
		},
	}

	svc := projects.NewService(st, &fakeNotifier{})
	svc.SetParams(ctx, projects.Params{Sort: types.DefaultSort(), Page: 1, Limit: 10})

	snap := svc.Snapshot()
	require.False(t, snap.Loading)
	require.Empty(t, snap.Error)
	require.Len(t, snap.Records, 2)
	require.EqualValues(t, 25, snap.Total)
	require.Equal(t, 3, snap.TotalPages)
	require.Equal(t, 1, st.selectCount())
}

func TestFetchFailureRetainsLastGoodData(t *testing.T) {
	ctx := context.Background()
	fail := false
	st := &fakeStore{
		selectFn: func(q store.Query, dest interface{}) (int64, error) {
			if fail {
				return 0, errors.New("connection reset")
			}
			fillRecords(dest, models.Project{ID: "p1"})
			return 1, nil
		},
	}

	svc := projects.NewService(st, &fakeNotifier{})
	svc.FetchProjects(ctx)

	fail = true
	svc.FetchProjects(ctx)

	snap := svc.Snapshot()
	require.Equal(t, "connection reset", snap.Error)
	require.Len(t, snap.Records, 1, "a failed refetch must not destroy previously shown data")
	require.EqualValues(t, 1, snap.Total)
	require.False(t, snap.Loading)
}

func TestFirstLoadFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{
		selectFn: func(q store.Query, dest interface{}) (int64, error) {
			return 0, errors.New("boom")
		},
	}

	svc := projects.NewService(st, &fakeNotifier{})
	svc.FetchProjects(ctx)

	snap := svc.Snapshot()
	require.Equal(t, "boom", snap.Error)
	require.Empty(t, snap.Records)
	require.EqualValues(t, 0, snap.Total)
}

func TestStaleFetchResultDiscarded(t *testing.T) {
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	st := &fakeStore{}
	st.selectFn = func(q store.Query, dest interface{}) (int64, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n == 1 {
			close(entered)
			<-release
			fillRecords(dest, models.Project{ID: "stale"})
			return 1, nil
		}
		fillRecords(dest, models.Project{ID: "fresh"})
		return 1, nil
	}

	svc := projects.NewService(st, &fakeNotifier{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.FetchProjects(ctx)
	}()

	<-entered
	svc.FetchProjects(ctx) // newer request completes first
	close(release)
	wg.Wait()

	snap := svc.Snapshot()
	require.False(t, snap.Loading)
	require.Len(t, snap.Records, 1)
	require.Equal(t, "fresh", snap.Records[0].ID, "a superseded fetch must not overwrite newer state")
}

func TestCreateProjectRefetchesAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	n := &fakeNotifier{}
	svc := projects.NewService(st, n)

	err := svc.CreateProject(ctx, validInput())
	require.NoError(t, err)

	require.Equal(t, 1, st.selectCount(), "exactly one refetch after a successful create")
	require.Len(t, n.successes, 1)
	require.Empty(t, n.errors)
	require.Contains(t, n.successes[0], `"Bridge repair"`)
}

func TestCreateProjectFailureDoesNotRefetch(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{
		insertFn: func(table string, record interface{}) error {
			return errors.New("insert rejected")
		},
	}
	n := &fakeNotifier{}
	svc := projects.NewService(st, n)

	err := svc.CreateProject(ctx, validInput())
	require.EqualError(t, err, "insert rejected")

	require.Equal(t, 0, st.selectCount(), "no refetch after a failed create")
	require.Empty(t, n.successes)
	require.Len(t, n.errors, 1)
}

func TestUpdateProjectRefetchesOnSuccess(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	n := &fakeNotifier{}
	svc := projects.NewService(st, n)

	require.NoError(t, svc.UpdateProject(ctx, "p1", map[string]interface{}{"name": "New name"}))
	require.Equal(t, 1, st.selectCount())
	require.Len(t, n.successes, 1)
}

func TestDeleteProjectFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{
		deleteFn: func(table, id string) error {
			return errors.New("delete failed")
		},
	}
	n := &fakeNotifier{}
	svc := projects.NewService(st, n)

	err := svc.DeleteProject(ctx, "p1")
	require.Error(t, err)
	require.Equal(t, 0, st.selectCount())
	require.Len(t, n.errors, 1)
}

func TestFilterChangeResetsPage(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	svc := projects.NewService(st, &fakeNotifier{})

	svc.SetPage(ctx, 3)
	require.Equal(t, 2*types.DefaultPageLimit, st.lastSelect().From)

	svc.SetFilters(ctx, types.SearchFilters{Status: types.StatusPlanned})
	require.Equal(t, 0, st.lastSelect().From, "filter changes reset pagination to page 1")
	require.Equal(t, 1, svc.Snapshot().Page)
}

func TestClearFiltersResetsPage(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	svc := projects.NewService(st, &fakeNotifier{})

	svc.SetFilters(ctx, types.SearchFilters{Status: types.StatusPlanned})
	svc.SetPage(ctx, 2)
	svc.ClearFilters(ctx)

	require.Equal(t, 1, svc.Snapshot().Page)
	require.Empty(t, st.lastSelect().Clauses)
}

func TestLimitChangeResetsPageSortDoesNot(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	svc := projects.NewService(st, &fakeNotifier{})

	svc.SetPage(ctx, 4)
	svc.SetSort(ctx, types.SortParams{Field: "name", Direction: types.SortAsc})
	require.Equal(t, 4, svc.Snapshot().Page, "sort changes keep the page")

	svc.SetLimit(ctx, 50)
	require.Equal(t, 1, svc.Snapshot().Page, "limit changes reset the page")
	require.Equal(t, 50, svc.Snapshot().Limit)
}

func TestSetParamsResetsStalePage(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	svc := projects.NewService(st, &fakeNotifier{})

	svc.SetParams(ctx, projects.Params{Sort: types.DefaultSort(), Page: 3, Limit: 25})
	require.Equal(t, 3, svc.Snapshot().Page)

	// New filters with a stale page number: the reset wins.
	svc.SetParams(ctx, projects.Params{
		Filters: types.SearchFilters{ProjectName: "bridge"},
		Sort:    types.DefaultSort(),
		Page:    3,
		Limit:   25,
	})
	require.Equal(t, 1, svc.Snapshot().Page)
}

func TestOnChangeSubscription(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	svc := projects.NewService(st, &fakeNotifier{})

	var mu sync.Mutex
	var snaps []projects.Snapshot
	unsubscribe := svc.OnChange(func(s projects.Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	svc.FetchProjects(ctx)

	mu.Lock()
	require.Len(t, snaps, 2, "one loading transition and one completion")
	require.True(t, snaps[0].Loading)
	require.False(t, snaps[1].Loading)
	mu.Unlock()

	unsubscribe()
	svc.FetchProjects(ctx)

	mu.Lock()
	require.Len(t, snaps, 2, "no notifications after unsubscribe")
	mu.Unlock()
}

func TestLoadingRetainsPreviousRecords(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{
		selectFn: func(q store.Query, dest interface{}) (int64, error) {
			fillRecords(dest, models.Project{ID: "p1"})
			return 1, nil
		},
	}
	svc := projects.NewService(st, &fakeNotifier{})
	svc.FetchProjects(ctx)

	var loadingSnap *projects.Snapshot
	svc.OnChange(func(s projects.Snapshot) {
		if s.Loading && loadingSnap == nil {
			snap := s
			loadingSnap = &snap
		}
	})

	svc.FetchProjects(ctx)
	require.NotNil(t, loadingSnap)
	require.Len(t, loadingSnap.Records, 1, "previous records are retained while loading")
}
