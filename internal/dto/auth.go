package dto

// AuthCheck is the outcome of a Discord-identity authentication check.
// An unauthenticated user is a normal outcome, not an error; Message then
// carries the login prompt with the login URL.
type AuthCheck struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	UserID          string `json:"user_id,omitempty"`
	UserName        string `json:"user_name,omitempty"`
	Message         string `json:"message,omitempty"`
}

type SessionUser struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Image         *string  `json:"image,omitempty"`
	MonthlySalary *float64 `json:"monthly_salary,omitempty"`
}
