package models

import "github.com/google/uuid"

type ExpenseCategory string

const (
	CategoryEssentials  ExpenseCategory = "essentials"
	CategoryLeisure     ExpenseCategory = "leisure"
	CategoryInvestments ExpenseCategory = "investments"
	CategoryKnowledge   ExpenseCategory = "knowledge"
	CategoryEmergency   ExpenseCategory = "emergency"
)

// Categories lists every valid expense category.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryEssentials,
		CategoryLeisure,
		CategoryInvestments,
		CategoryKnowledge,
		CategoryEmergency,
	}
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryEssentials, CategoryLeisure, CategoryInvestments, CategoryKnowledge, CategoryEmergency:
		return true
	}
	return false
}

// Label returns the pt-BR display label for the category.
func (c ExpenseCategory) Label() string {
	switch c {
	case CategoryEssentials:
		return "Essenciais"
	case CategoryLeisure:
		return "Lazer"
	case CategoryInvestments:
		return "Investimentos"
	case CategoryKnowledge:
		return "Conhecimento"
	case CategoryEmergency:
		return "Emergência"
	}
	return string(c)
}

type Expense struct {
	Entity
	Date        string          `db:"date"`
	Description string          `db:"description"`
	Amount      float64         `db:"amount"`
	Category    ExpenseCategory `db:"category"`
	IsRecurring bool            `db:"is_recurring"`
	UserID      uuid.UUID       `db:"user_id"`
}
