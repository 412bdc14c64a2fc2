package dto

type CreateExpenseInput struct {
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" validate:"required,max=255"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,oneof=essentials leisure investments knowledge emergency"`
	IsRecurring *bool   `json:"is_recurring"`
}

// UpdateExpenseInput carries a partial update: nil fields are untouched.
type UpdateExpenseInput struct {
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=essentials leisure investments knowledge emergency"`
	IsRecurring *bool    `json:"is_recurring"`
}

type ExpenseFilters struct {
	Category    string `json:"category" validate:"omitempty,oneof=essentials leisure investments knowledge emergency"`
	StartDate   string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
}

// ExpenseDisplay is the chat-friendly projection of an expense.
type ExpenseDisplay struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	CategoryLabel string `json:"category"`
	Recurring     bool   `json:"recurring"`
}

type CategorySummary struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}
