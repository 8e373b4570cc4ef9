// Package validation holds the pure field and cross-field rules for project
// records and search filters. It never touches the store and never panics;
// callers render the returned error map as inline field errors.
package validation

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/kensetsu-dev/kensetsu/internal/types"
)

const (
	DateLayout = "2006-01-02"

	maxTextLength  = 255
	maxNotesLength = 1000
	maxAmount      = 999_999_999_999

	minPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

// ValidateProject checks every rule and reports all violated ones. The
// cross-field checks only run when the fields they read are themselves valid.
func ValidateProject(in types.ProjectInput) Errors {
	errs := Errors{}

	if in.Name == "" {
		errs["name"] = "name is required"
	} else if utf8.RuneCountInString(in.Name) > maxTextLength {
		errs["name"] = "name must be 255 characters or less"
	}

	if utf8.RuneCountInString(in.CustomerName) > maxTextLength {
		errs["customer_name"] = "customer name must be 255 characters or less"
	}

	if in.Assignee == "" {
		errs["assignee"] = "assignee is required"
	} else if utf8.RuneCountInString(in.Assignee) > maxTextLength {
		errs["assignee"] = "assignee must be 255 characters or less"
	}

	validateAmount(errs, "contract_amount", "contract amount", in.ContractAmount)
	validateAmount(errs, "execution_budget", "execution budget", in.ExecutionBudget)

	if in.PlannedStartDate != "" && !ValidDate(in.PlannedStartDate) {
		errs["planned_start_date"] = "enter a valid date"
	}
	if in.PlannedCompletionDate != "" && !ValidDate(in.PlannedCompletionDate) {
		errs["planned_completion_date"] = "enter a valid date"
	}

	if in.Status == "" {
		errs["status"] = "status is required"
	} else if !in.Status.Valid() {
		errs["status"] = "status must be one of planned, in_progress or completed"
	}

	if utf8.RuneCountInString(in.Notes) > maxNotesLength {
		errs["notes"] = "notes must be 1000 characters or less"
	}

	if in.PlannedStartDate != "" && in.PlannedCompletionDate != "" &&
		errs["planned_start_date"] == "" && errs["planned_completion_date"] == "" {
		start, _ := time.Parse(DateLayout, in.PlannedStartDate)
		end, _ := time.Parse(DateLayout, in.PlannedCompletionDate)
		if end.Before(start) {
			errs["planned_completion_date"] = "planned completion date must be on or after the planned start date"
		}
	}

	if in.ContractAmount != nil && in.ExecutionBudget != nil &&
		errs["contract_amount"] == "" && errs["execution_budget"] == "" &&
		*in.ContractAmount > 0 && *in.ExecutionBudget > 0 {
		// Execution budget may not exceed 150% of the contract amount.
		if *in.ExecutionBudget*2 > *in.ContractAmount*3 {
			errs["execution_budget"] = "execution budget exceeds 150% of the contract amount"
		}
	}

	return errs
}

func validateAmount(errs Errors, field, label string, v *int64) {
	switch {
	case v == nil:
		errs[field] = label + " is required"
	case *v < 0:
		errs[field] = label + " must be 0 or greater"
	case *v > maxAmount:
		errs[field] = label + " is too large"
	}
}

// ValidateSearchFilters checks the transient filter value. All fields are
// optional; only shape and range ordering are enforced.
func ValidateSearchFilters(f types.SearchFilters) Errors {
	errs := Errors{}

	if f.Status != "" && !f.Status.Valid() {
		errs["status"] = "status must be one of planned, in_progress or completed"
	}
	if f.CompletionDateFrom != "" && !ValidDate(f.CompletionDateFrom) {
		errs["completionDateFrom"] = "enter a valid date"
	}
	if f.CompletionDateTo != "" && !ValidDate(f.CompletionDateTo) {
		errs["completionDateTo"] = "enter a valid date"
	}

	if f.CompletionDateFrom != "" && f.CompletionDateTo != "" &&
		errs["completionDateFrom"] == "" && errs["completionDateTo"] == "" {
		from, _ := time.Parse(DateLayout, f.CompletionDateFrom)
		to, _ := time.Parse(DateLayout, f.CompletionDateTo)
		if to.Before(from) {
			errs["completionDateTo"] = "the end date must be on or after the start date"
		}
	}

	return errs
}

// ValidateLogin gates the sign-in form.
func ValidateLogin(email, password string) Errors {
	errs := Errors{}
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "enter a valid email address"
	}
	if password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

// ValidateSignUp additionally enforces the minimum password length.
func ValidateSignUp(name, email, password string) Errors {
	errs := ValidateLogin(email, password)
	if name == "" {
		errs["name"] = "name is required"
	}
	if password != "" && utf8.RuneCountInString(password) < minPasswordLength {
		errs["password"] = "password must be at least 8 characters"
	}
	return errs
}

// ValidDate reports whether s is a real calendar date in ISO yyyy-mm-dd form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
