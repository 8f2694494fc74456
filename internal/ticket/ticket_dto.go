package ticket

type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=hardware software network facilities hr other"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

type AssignRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
}

type TicketResponse struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	ReporterID   string `json:"reporter_id"`
	ReporterName string `json:"reporter_name,omitempty"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	ResolvedAt   string `json:"resolved_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// TicketStats feeds the admin dashboard cards. Resolved includes closed
// tickets.
type TicketStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}
