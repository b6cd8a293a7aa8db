package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestDerivePrice(t *testing.T) {
	tests := []struct {
		name         string
		purchaseCost string
		margin       string
		want         string
	}{
		{"whole numbers", "10", "1.2", "12"},
		{"typical medication markup", "100", "1.3", "130"},
		{"zero cost", "0", "2.5", "0"},
		{"margin of exactly one", "45.50", "1", "45.5"},
		{"rounds to two decimals", "9.99", "1.2", "11.99"},
		{"rounds half away from zero", "3.33", "1.5", "5"},
		{"fractional cents in input", "2.5", "1.333", "3.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DerivePrice(d(tt.purchaseCost), d(tt.margin))
			if err != nil {
				t.Fatalf("DerivePrice(%s, %s) returned error: %v", tt.purchaseCost, tt.margin, err)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("DerivePrice(%s, %s) = %s, want %s", tt.purchaseCost, tt.margin, got, tt.want)
			}
		})
	}
}

func TestDerivePriceRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		purchaseCost string
		margin       string
	}{
		{"zero margin", "10", "0"},
		{"negative margin", "10", "-1.2"},
		{"negative purchase cost", "-5", "1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DerivePrice(d(tt.purchaseCost), d(tt.margin))
			if !errors.Is(err, ErrValidation) {
				t.Errorf("DerivePrice(%s, %s) error = %v, want ErrValidation", tt.purchaseCost, tt.margin, err)
			}
		})
	}
}

func TestDerivePriceIsDeterministic(t *testing.T) {
	first, err := DerivePrice(d("37.42"), d("1.37"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DerivePrice(d("37.42"), d("1.37"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("same inputs produced different prices: %s vs %s", first, second)
	}
}
