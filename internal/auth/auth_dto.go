package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetupRequest bootstraps the very first admin account on a fresh
// install. The endpoint refuses to run once an admin exists.
type SetupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
	Role         string `json:"role"`
}

// LoginResponse keeps the contract the portal frontend already speaks:
// the client routes on redirectTo rather than deciding by role itself.
type LoginResponse struct {
	Success      bool         `json:"success"`
	User         AuthResponse `json:"user"`
	Role         string       `json:"role"`
	RedirectTo   string       `json:"redirectTo"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}
