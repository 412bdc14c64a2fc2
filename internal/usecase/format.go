package usecase

import (
	"fmt"
	"strings"
)

// FormatBRL renders an amount as Brazilian currency: "R$ 1.234,56".
func FormatBRL(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := "R$ " + b.String() + "," + decPart
	if negative {
		out = "-" + out
	}
	return out
}
