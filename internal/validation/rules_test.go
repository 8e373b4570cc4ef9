package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kensetsu-dev/kensetsu/internal/types"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

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

func TestValidateProjectRequiredFields(t *testing.T) {
	errs := validation.ValidateProject(types.ProjectInput{Status: types.StatusPlanned})

	require.Len(t, errs, 4)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "assignee")
	require.Contains(t, errs, "contract_amount")
	require.Contains(t, errs, "execution_budget")
}

func TestValidateProjectValid(t *testing.T) {
	require.Empty(t, validation.ValidateProject(validInput()))
}

func TestValidateProjectLengthLimits(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("あ", 256)
	in.CustomerName = strings.Repeat("b", 256)
	in.Notes = strings.Repeat("c", 1001)

	errs := validation.ValidateProject(in)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "customer_name")
	require.Contains(t, errs, "notes")

	in = validInput()
	in.Name = strings.Repeat("あ", 255)
	in.Notes = strings.Repeat("c", 1000)
	require.Empty(t, validation.ValidateProject(in))
}

func TestValidateProjectAmountBounds(t *testing.T) {
	in := validInput()
	in.ContractAmount = int64p(-1)
	in.ExecutionBudget = int64p(1_000_000_000_000)

	errs := validation.ValidateProject(in)
	require.Contains(t, errs, "contract_amount")
	require.Contains(t, errs, "execution_budget")

	in = validInput()
	in.ContractAmount = int64p(999_999_999_999)
	in.ExecutionBudget = int64p(0)
	require.Empty(t, validation.ValidateProject(in))
}

func TestValidateProjectDateOrdering(t *testing.T) {
	in := validInput()
	in.PlannedStartDate = "2024-06-01"
	in.PlannedCompletionDate = "2024-01-01"

	errs := validation.ValidateProject(in)
	require.Contains(t, errs, "planned_completion_date")
	require.NotContains(t, errs, "planned_start_date")

	in.PlannedStartDate = "2024-01-01"
	in.PlannedCompletionDate = "2024-06-01"
	require.Empty(t, validation.ValidateProject(in))

	// Equal dates are allowed.
	in.PlannedCompletionDate = "2024-01-01"
	require.Empty(t, validation.ValidateProject(in))
}

func TestValidateProjectInvalidDates(t *testing.T) {
	in := validInput()
	in.PlannedStartDate = "not-a-date"
	in.PlannedCompletionDate = "2024-02-31"

	errs := validation.ValidateProject(in)
	require.Contains(t, errs, "planned_start_date")
	require.Contains(t, errs, "planned_completion_date")
}

func TestValidateProjectBudgetRatio(t *testing.T) {
	in := validInput()
	in.ContractAmount = int64p(10_000_000)
	in.ExecutionBudget = int64p(15_000_001)

	errs := validation.ValidateProject(in)
	require.Contains(t, errs, "execution_budget")

	// Exactly 150% is allowed.
	in.ExecutionBudget = int64p(15_000_000)
	require.Empty(t, validation.ValidateProject(in))
}

func TestValidateProjectBudgetRatioSkippedWhenZero(t *testing.T) {
	in := validInput()
	in.ContractAmount = int64p(0)
	in.ExecutionBudget = int64p(999)
	require.Empty(t, validation.ValidateProject(in))
}

func TestValidateProjectStatus(t *testing.T) {
	in := validInput()
	in.Status = ""
	require.Contains(t, validation.ValidateProject(in), "status")

	in.Status = "demolished"
	require.Contains(t, validation.ValidateProject(in), "status")
}

func TestValidateSearchFiltersDateRange(t *testing.T) {
	errs := validation.ValidateSearchFilters(types.SearchFilters{
		CompletionDateFrom: "2024-06-01",
		CompletionDateTo:   "2024-01-01",
	})
	require.Contains(t, errs, "completionDateTo")

	require.Empty(t, validation.ValidateSearchFilters(types.SearchFilters{
		CompletionDateFrom: "2024-01-01",
		CompletionDateTo:   "2024-06-01",
	}))
}

func TestValidateSearchFiltersEmpty(t *testing.T) {
	require.Empty(t, validation.ValidateSearchFilters(types.SearchFilters{}))
}

func TestValidateSearchFiltersInvalidDate(t *testing.T) {
	errs := validation.ValidateSearchFilters(types.SearchFilters{CompletionDateFrom: "junk"})
	require.Contains(t, errs, "completionDateFrom")
}

func TestValidateSearchFiltersStatus(t *testing.T) {
	errs := validation.ValidateSearchFilters(types.SearchFilters{Status: "bogus"})
	require.Contains(t, errs, "status")
}

func TestValidateLogin(t *testing.T) {
	require.Empty(t, validation.ValidateLogin("user@example.com", "secret-password"))

	errs := validation.ValidateLogin("", "")
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "password")

	errs = validation.ValidateLogin("not-an-email", "pw")
	require.Contains(t, errs, "email")
}

func TestValidateSignUp(t *testing.T) {
	require.Empty(t, validation.ValidateSignUp("Tanaka", "user@example.com", "longenough"))

	errs := validation.ValidateSignUp("", "user@example.com", "short")
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "password")
}
