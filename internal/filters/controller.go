// Package filters derives the live SearchFilters value from discrete field
// edits. No store round-trip happens here; the consumer refetches when it
// receives the new value, resetting pagination to page 1.
package filters

import (
	"strings"

	"github.com/kensetsu-dev/kensetsu/internal/types"
)

// Controller holds the raw field values as typed by the user and notifies
// the consumer with the normalized filters on every change.
type Controller struct {
	onChange func(types.SearchFilters)
	fields   types.SearchFilters
}

func NewController(onChange func(types.SearchFilters)) *Controller {
	return &Controller{onChange: onChange}
}

func (c *Controller) SetProjectID(v string) {
	c.fields.ProjectID = v
	c.changed()
}

func (c *Controller) SetProjectName(v string) {
	c.fields.ProjectName = v
	c.changed()
}

func (c *Controller) SetAssignee(v string) {
	c.fields.Assignee = v
	c.changed()
}

func (c *Controller) SetStatus(v types.ProjectStatus) {
	c.fields.Status = v
	c.changed()
}

func (c *Controller) SetCompletionDateFrom(v string) {
	c.fields.CompletionDateFrom = v
	c.changed()
}

func (c *Controller) SetCompletionDateTo(v string) {
	c.fields.CompletionDateTo = v
	c.changed()
}

// SetField edits a filter field by name. Unknown names are ignored, keeping
// the controller forward-compatible with newer clients.
func (c *Controller) SetField(name, value string) {
	switch name {
	case "projectId":
		c.SetProjectID(value)
	case "projectName":
		c.SetProjectName(value)
	case "assignee":
		c.SetAssignee(value)
	case "status":
		c.SetStatus(types.ProjectStatus(value))
	case "completionDateFrom":
		c.SetCompletionDateFrom(value)
	case "completionDateTo":
		c.SetCompletionDateTo(value)
	}
}

// Clear resets every field in one step and notifies once with the empty
// value.
func (c *Controller) Clear() {
	c.fields = types.SearchFilters{}
	if c.onChange != nil {
		c.onChange(types.SearchFilters{})
	}
}

// Filters returns the current normalized filter value.
func (c *Controller) Filters() types.SearchFilters {
	return Normalize(c.fields)
}

func (c *Controller) HasActiveFilters() bool {
	return !c.Filters().Empty()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(Normalize(c.fields))
	}
}

// Normalize trims the text fields. A field trimmed to empty stays empty and
// is later omitted from the compiled query.
func Normalize(f types.SearchFilters) types.SearchFilters {
	return types.SearchFilters{
		ProjectID:          strings.TrimSpace(f.ProjectID),
		ProjectName:        strings.TrimSpace(f.ProjectName),
		Assignee:           strings.TrimSpace(f.Assignee),
		Status:             types.ProjectStatus(strings.TrimSpace(string(f.Status))),
		CompletionDateFrom: strings.TrimSpace(f.CompletionDateFrom),
		CompletionDateTo:   strings.TrimSpace(f.CompletionDateTo),
	}
}
