package reports

import (
	"sort"
	"time"

	"workforce-attendance/internal/attendance"
)

type DaySummary struct {
	Date         string `json:"date"`
	CheckedIn    int    `json:"checkedIn"`
	CheckedOut   int    `json:"checkedOut"`
	Exceptions   int    `json:"exceptions"`
	NotCheckedIn int    `json:"notCheckedIn"`
}

type ProjectTotal struct {
	Project    string `json:"project"`
	Marks      int    `json:"marks"`
	Exceptions int    `json:"exceptions"`
}

type Summary struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Headcount int            `json:"headcount"`
	Days      []DaySummary   `json:"days"`
	Projects  []ProjectTotal `json:"projects"`
}

const unassigned = "(unassigned)"

// Summarize counts marks per day between from and to inclusive. headcount
// is the number of employees expected on site; whoever has no mark on a
// day counts as not checked in.
func Summarize(records []attendance.Record, from, to time.Time, headcount int) Summary {
	summary := Summary{
		From:      attendance.DateKey(from),
		To:        attendance.DateKey(to),
		Headcount: headcount,
		Days:      []DaySummary{},
		Projects:  []ProjectTotal{},
	}

	byDay := map[string]*DaySummary{}
	byProject := map[string]*ProjectTotal{}
	for _, record := range records {
		if record.AttendanceDate == nil {
			continue
		}
		key := attendance.DateKey(*record.AttendanceDate)
		entry, ok := byDay[key]
		if !ok {
			entry = &DaySummary{Date: key}
			byDay[key] = entry
		}

		project := record.Project
		if project == "" {
			project = unassigned
		}
		total, ok := byProject[project]
		if !ok {
			total = &ProjectTotal{Project: project}
			byProject[project] = total
		}
		total.Marks++

		switch record.Status {
		case attendance.PresenceException:
			entry.Exceptions++
			total.Exceptions++
		case attendance.PresenceCheckedIn:
			entry.CheckedIn++
			if record.CheckOutTime != "" {
				entry.CheckedOut++
			}
		}
	}

	for cursor := from; !cursor.After(to); cursor = cursor.AddDate(0, 0, 1) {
		key := attendance.DateKey(cursor)
		entry := DaySummary{Date: key}
		if found, ok := byDay[key]; ok {
			entry = *found
		}
		entry.NotCheckedIn = max(headcount-entry.CheckedIn-entry.Exceptions, 0)
		summary.Days = append(summary.Days, entry)
	}

	for _, total := range byProject {
		summary.Projects = append(summary.Projects, *total)
	}
	sort.Slice(summary.Projects, func(i, j int) bool {
		return summary.Projects[i].Project < summary.Projects[j].Project
	})

	return summary
}
