// Package employees reads the employee directory. Employees are reference
// data for the assignee field; there is no employee CRUD.
package employees

import (
	"context"

	"github.com/kensetsu-dev/kensetsu/internal/models"
	"github.com/kensetsu-dev/kensetsu/internal/store"
)

const Table = "employees"

type Service struct {
	store store.RecordStore
}

func NewService(st store.RecordStore) *Service {
	return &Service{store: st}
}

// ListActive returns the employees offered as assignee choices, ordered by
// name.
func (s *Service) ListActive(ctx context.Context) ([]models.Employee, error) {
	q := store.Query{
		Table:          Table,
		Clauses:        []store.Clause{{Field: "is_active", Op: store.OpEq, Value: true}},
		OrderField:     "name",
		OrderAscending: true,
		From:           0,
		To:             -1,
	}

	var emps []models.Employee
	if _, err := s.store.Select(ctx, q, &emps); err != nil {
		return nil, err
	}
	return emps, nil
}
