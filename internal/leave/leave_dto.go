package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=vacation sick personal emergency other"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"required,max=500"`
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Department   string `json:"department,omitempty"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysCount    int    `json:"days_count"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	ReviewedBy   string `json:"reviewed_by,omitempty"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	ReviewedAt   string `json:"reviewed_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}
