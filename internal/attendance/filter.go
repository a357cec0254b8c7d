package attendance

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// All is the select-box sentinel meaning "no constraint".
const All = "all"

// Filter is the filter panel state. Empty or All fields do not constrain.
type Filter struct {
	EmployeeID       string
	Name             string
	Classification   string
	Category         string
	Status           string
	EmploymentStatus string
	Project          string
	Entity           string
	Location         string
	From             *time.Time
	To               *time.Time
}

func active(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.EqualFold(value, All)
}

func fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// matchName accepts a query the full name starts with, or one whose words
// each equal a word of the name ("Smith" finds "John Smith", "John" does
// not find "Sarah Johnson").
func matchName(name, query string) bool {
	n := fold(name)
	q := fold(query)
	if strings.HasPrefix(n, q) {
		return true
	}
	words := strings.Fields(n)
	for _, term := range strings.Fields(q) {
		if !slices.Contains(words, term) {
			return false
		}
	}
	return true
}

// IsZero reports a filter with every field unconstrained.
func (f Filter) IsZero() bool {
	for _, value := range []string{f.EmployeeID, f.Name, f.Classification, f.Category, f.Status, f.EmploymentStatus, f.Project, f.Entity, f.Location} {
		if active(value) {
			return false
		}
	}
	return f.From == nil && f.To == nil
}

func (f Filter) Matches(r Record) bool {
	if active(f.EmployeeID) && !containsFold(r.EmployeeID, f.EmployeeID) {
		return false
	}
	if active(f.Name) && !matchName(r.Name, f.Name) {
		return false
	}
	if active(f.Classification) && r.Classification != strings.TrimSpace(f.Classification) {
		return false
	}
	if active(f.Category) && !containsFold(r.Category, f.Category) {
		return false
	}
	if active(f.Status) && string(r.Status) != strings.TrimSpace(f.Status) {
		return false
	}
	if active(f.EmploymentStatus) && r.EmploymentStatus != strings.TrimSpace(f.EmploymentStatus) {
		return false
	}
	if active(f.Project) && !containsFold(r.Project, f.Project) {
		return false
	}
	if active(f.Entity) && !containsFold(r.Entity, f.Entity) {
		return false
	}
	if active(f.Location) && !containsFold(r.Location, f.Location) {
		return false
	}
	if f.From != nil || f.To != nil {
		if r.AttendanceDate == nil {
			return false
		}
		day := dayNumber(*r.AttendanceDate)
		if f.From != nil && day < dayNumber(*f.From) {
			return false
		}
		if f.To != nil && day > dayNumber(*f.To) {
			return false
		}
	}
	return true
}

// Validate rejects a presence status outside the known values.
func (f Filter) Validate() error {
	if active(f.Status) && !Presence(strings.TrimSpace(f.Status)).Valid() {
		return fmt.Errorf("invalid status %q", f.Status)
	}
	return nil
}

// Apply keeps the records matching every active field, in input order.
// An unconstrained filter returns records unchanged.
func (f Filter) Apply(records []Record) []Record {
	if f.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			out = append(out, record)
		}
	}
	return out
}

// FilterFromQuery reads the filter panel fields from query parameters.
func FilterFromQuery(get func(string) string) (Filter, error) {
	f := Filter{
		EmployeeID:       get("employeeId"),
		Name:             get("name"),
		Classification:   get("classification"),
		Category:         get("category"),
		Status:           get("status"),
		EmploymentStatus: get("employmentStatus"),
		Project:          get("project"),
		Entity:           get("entity"),
		Location:         get("location"),
	}
	if value := strings.TrimSpace(get("from")); value != "" {
		from, err := ParseDate(value)
		if err != nil {
			return f, fmt.Errorf("invalid from: %w", err)
		}
		f.From = &from
	}
	if value := strings.TrimSpace(get("to")); value != "" {
		to, err := ParseDate(value)
		if err != nil {
			return f, fmt.Errorf("invalid to: %w", err)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("to must not be before from")
	}
	return f, nil
}
