package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "R$ 0,00"},
		{80, "R$ 80,00"},
		{9.9, "R$ 9,90"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-42.5, "-R$ 42,50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBRL(tt.amount), "amount=%v", tt.amount)
	}
}
