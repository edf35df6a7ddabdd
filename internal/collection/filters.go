package collection

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/photodesk/photodesk/internal/gateway"
)

// DateRange restricts a query to images created within a named window.
type DateRange string

// Date range constants.
const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
	DateRangeYear  DateRange = "year"
)

// Validate checks if the date range is a known window.
func (d DateRange) Validate() error {
	switch d {
	case DateRangeAll, DateRangeToday, DateRangeWeek, DateRangeMonth, DateRangeYear:
		return nil
	default:
		return fmt.Errorf("invalid date range: %s", d)
	}
}

// SortField names an attribute the collection can be ordered by.
type SortField string

// Sort field constants.
const (
	SortByCreatedAt SortField = "created_at"
	SortByName      SortField = "name"
	SortBySize      SortField = "size"
)

// Validate checks if the sort field is supported.
func (s SortField) Validate() error {
	switch s {
	case SortByCreatedAt, SortByName, SortBySize:
		return nil
	default:
		return fmt.Errorf("invalid sort field: %s", s)
	}
}

// SortDirection is the ordering direction for a sort field.
type SortDirection string

// Sort direction constants.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Validate checks if the sort direction is valid.
func (s SortDirection) Validate() error {
	switch s {
	case SortAsc, SortDesc:
		return nil
	default:
		return fmt.Errorf("invalid sort direction: %s", s)
	}
}

// FilterCriteria is the pure value object describing the current collection
// view. Changing any field resets pagination to page 1.
type FilterCriteria struct {
	Search        string
	ProjectID     string
	Tags          []string
	DateRange     DateRange
	SortBy        SortField
	SortDirection SortDirection
}

// DefaultFilter returns the criteria applied to a fresh collection session.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{
		DateRange:     DateRangeAll,
		SortBy:        SortByCreatedAt,
		SortDirection: SortDesc,
	}
}

// FilterPatch carries a partial filter update; nil fields are left unchanged.
type FilterPatch struct {
	Search        *string
	ProjectID     *string
	Tags          *[]string
	DateRange     *DateRange
	SortBy        *SortField
	SortDirection *SortDirection
}

// Apply merges the patch into the criteria and returns the merged value.
func (f FilterCriteria) Apply(p FilterPatch) FilterCriteria {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.ProjectID != nil {
		f.ProjectID = *p.ProjectID
	}
	if p.Tags != nil {
		f.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
	if p.SortDirection != nil {
		f.SortDirection = *p.SortDirection
	}
	return f
}

// Validate checks every enum-valued field.
func (f FilterCriteria) Validate() error {
	if err := f.DateRange.Validate(); err != nil {
		return err
	}
	if err := f.SortBy.Validate(); err != nil {
		return err
	}
	return f.SortDirection.Validate()
}

// ToQuery builds the wire query for this filter and the given pagination.
func (f FilterCriteria) ToQuery(page, limit int) gateway.CollectionQuery {
	return gateway.CollectionQuery{
		Page:          page,
		Limit:         limit,
		Search:        f.Search,
		ProjectID:     f.ProjectID,
		Tags:          f.Tags,
		DateRange:     string(f.DateRange),
		SortBy:        string(f.SortBy),
		SortDirection: string(f.SortDirection),
	}
}

// Digest returns a stable key identifying this filter, used to address
// persisted snapshots.
func (f FilterCriteria) Digest() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		f.Search,
		f.ProjectID,
		strings.Join(f.Tags, ","),
		string(f.DateRange),
		string(f.SortBy),
		string(f.SortDirection),
	}, "\x1f")))
	return hex.EncodeToString(sum[:8])
}
