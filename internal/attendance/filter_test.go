package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) *time.Time {
	parsed, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func crew() []Record {
	return []Record{
		{EmployeeID: "EMP001", Name: "John Smith", Classification: "Laborer", Category: "Carpenter", Entity: "BuildCo Ltd", Project: "Tower A", Location: "North Yard", EmploymentStatus: "Active", Status: PresenceCheckedIn, AttendanceDate: day("2026-03-02")},
		{EmployeeID: "EMP002", Name: "Sarah Johnson", Classification: "Staff", Category: "Site Engineer", Entity: "BuildCo Ltd", Project: "Tower B", Location: "South Yard", EmploymentStatus: "Active", Status: PresenceNotCheckedIn},
		{EmployeeID: "EMP013", Name: "Ravi Kumar", Classification: "Laborer", Category: "Mason", Entity: "StoneWorks", Project: "Tower A", Location: "North Yard", EmploymentStatus: "Inactive", Status: PresenceException, AttendanceDate: day("2026-03-05")},
	}
}

func TestApplyWithSentinelsReturnsInputUnchanged(t *testing.T) {
	records := crew()
	filter := Filter{Classification: "all", Status: "ALL", Project: "all", Entity: "", Name: "  "}

	out := filter.Apply(records)
	assert.Equal(t, records, out)
	assert.Len(t, Filter{}.Apply(records), len(records))
}

func TestApplyNameExample(t *testing.T) {
	records := []Record{{Name: "John Smith"}, {Name: "Sarah Johnson"}}
	filter := Filter{EmployeeID: "", Name: "John", Classification: "all"}

	out := filter.Apply(records)
	require.Len(t, out, 1)
	assert.Equal(t, "John Smith", out[0].Name)
}

func TestMatchName(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"John Smith", "john", true},
		{"John Smith", "JOHN SM", true},
		{"John Smith", "smith", true},
		{"John Smith", "smith john", true},
		{"Sarah Johnson", "john", false},
		{"Sarah Johnson", "sar", true},
		{"Ravi Kumar", "kum", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchName(tc.name, tc.query), "%s / %s", tc.name, tc.query)
	}
}

func TestApplySubstringFieldsAreCaseInsensitive(t *testing.T) {
	out := Filter{Entity: "buildco", Category: "ENGINEER"}.Apply(crew())
	require.Len(t, out, 1)
	assert.Equal(t, "EMP002", out[0].EmployeeID)

	out = Filter{EmployeeID: "emp00"}.Apply(crew())
	require.Len(t, out, 2)
	assert.Equal(t, "EMP001", out[0].EmployeeID)
	assert.Equal(t, "EMP002", out[1].EmployeeID)
}

func TestApplyEnumFieldsUseExactMatch(t *testing.T) {
	assert.Len(t, Filter{Classification: "Laborer"}.Apply(crew()), 2)
	assert.Empty(t, Filter{Classification: "Labor"}.Apply(crew()))
	assert.Len(t, Filter{Status: "exception"}.Apply(crew()), 1)
	assert.Len(t, Filter{EmploymentStatus: "Active"}.Apply(crew()), 2)
}

func TestApplyCombinesFieldsWithAnd(t *testing.T) {
	out := Filter{Project: "tower a", Classification: "Laborer", EmploymentStatus: "Active"}.Apply(crew())
	require.Len(t, out, 1)
	assert.Equal(t, "EMP001", out[0].EmployeeID)
}

func TestApplyDateRange(t *testing.T) {
	out := Filter{From: day("2026-03-01"), To: day("2026-03-02")}.Apply(crew())
	require.Len(t, out, 1)
	assert.Equal(t, "EMP001", out[0].EmployeeID)

	out = Filter{From: day("2026-03-05")}.Apply(crew())
	require.Len(t, out, 1)
	assert.Equal(t, "EMP013", out[0].EmployeeID)

	assert.Empty(t, Filter{To: day("2026-03-01")}.Apply(crew()))
}

func TestFilterFromQuery(t *testing.T) {
	values := map[string]string{"name": "John", "classification": "all", "from": "2026-03-01", "to": "2026-03-31"}
	filter, err := FilterFromQuery(func(key string) string { return values[key] })
	require.NoError(t, err)
	assert.Equal(t, "John", filter.Name)
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, "2026-03-31", DateKey(*filter.To))

	_, err = FilterFromQuery(func(key string) string {
		if key == "from" {
			return "03/01/2026"
		}
		return ""
	})
	assert.Error(t, err)

	_, err = FilterFromQuery(func(key string) string {
		return map[string]string{"from": "2026-03-10", "to": "2026-03-01"}[key]
	})
	assert.Error(t, err)
}

func TestFilterValidateStatus(t *testing.T) {
	assert.NoError(t, Filter{}.Validate())
	assert.NoError(t, Filter{Status: All}.Validate())
	assert.NoError(t, Filter{Status: "exception"}.Validate())
	assert.Error(t, Filter{Status: "present"}.Validate())
}
