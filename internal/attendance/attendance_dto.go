package attendance

type ClockInRequest struct {
	Notes *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        string  `json:"clock_in"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	// WorkedHours is "8.50" once clocked out, "In Progress" before.
	WorkedHours string  `json:"worked_hours"`
	Notes       *string `json:"notes,omitempty"`
}

// TodaySummary is the admin dashboard headline: everyone who has not
// clocked in yet counts as absent.
type TodaySummary struct {
	Total   int64 `json:"total"`
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
}
