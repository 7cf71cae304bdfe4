package models

const DefaultPageSize = 10

// TaskFilter describes which subset of tasks a caller wants to see.
// Nil or zero fields mean the filter is not applied. All predicates
// combine with logical AND.
type TaskFilter struct {
	// Completed is a tri-state: nil selects both completed and
	// pending tasks.
	Completed *bool
	// Search is matched case-insensitively against title and
	// description.
	Search      string
	OverdueOnly bool
	Page        int
	PageSize    int
}

// Normalize replaces invalid pagination values with the defaults:
// page 1 and DefaultPageSize items per page.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Offset is the number of matching records to skip before the
// requested page starts.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
