package attendance

import (
	"encoding/json"
	"time"
)

// Record is the flattened row the attendance boards list and filter.
type Record struct {
	AttendanceID     string     `json:"attendanceId,omitempty"`
	EmployeeID       string     `json:"employeeId"`
	Name             string     `json:"name"`
	Classification   string     `json:"classification"`
	Category         string     `json:"category"`
	Entity           string     `json:"entity"`
	Project          string     `json:"project,omitempty"`
	Location         string     `json:"location,omitempty"`
	EmploymentStatus string     `json:"employmentStatus"`
	Status           Presence   `json:"status"`
	AttendanceDate   *time.Time `json:"-"`
	CheckInTime      string     `json:"checkInTime,omitempty"`
	CheckOutTime     string     `json:"checkOutTime,omitempty"`
	ExceptionReason  string     `json:"exceptionReason,omitempty"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := struct {
		plain
		AttendanceDate string `json:"attendanceDate,omitempty"`
	}{plain: plain(r)}
	if r.AttendanceDate != nil {
		out.AttendanceDate = DateKey(*r.AttendanceDate)
	}
	return json.Marshal(out)
}
