package models

type User struct {
	Entity
	Name          string   `db:"name"`
	Email         string   `db:"email"`
	EmailVerified bool     `db:"email_verified"`
	Image         *string  `db:"image"`
	MonthlySalary *float64 `db:"monthly_salary"`
}
