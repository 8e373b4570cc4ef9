package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kensetsu-dev/kensetsu/internal/types"
)

// Project is a construction-project record. Date fields are ISO yyyy-mm-dd
// strings; lexicographic order on them matches chronological order, which the
// range filters rely on.
type Project struct {
	ID                    string              `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string              `gorm:"not null" json:"name"`
	CustomerName          string              `json:"customer_name"`
	Assignee              string              `gorm:"not null;index" json:"assignee"`
	ContractAmount        int64               `gorm:"not null" json:"contract_amount"`
	ExecutionBudget       int64               `gorm:"not null" json:"execution_budget"`
	PlannedStartDate      string              `json:"planned_start_date"`
	PlannedCompletionDate string              `gorm:"index" json:"planned_completion_date"`
	Status                types.ProjectStatus `gorm:"not null;index" json:"status"`
	Notes                 string              `json:"notes"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
