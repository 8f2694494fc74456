package employee

type CreateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Department string `json:"department" binding:"required"`
	Position   string `json:"position" binding:"required"`
	Phone      string `json:"phone"`
	Role       string `json:"role" binding:"omitempty,oneof=admin employee"`
}

type UpdateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department" binding:"required"`
	Position   string `json:"position" binding:"required"`
	Phone      string `json:"phone"`
	Role       string `json:"role" binding:"required,oneof=admin employee"`
	IsActive   *bool  `json:"is_active" binding:"required"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

// EmployeeOption is the slim shape served to dropdowns and assignment
// pickers; it is what gets cached in Redis.
type EmployeeOption struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}
