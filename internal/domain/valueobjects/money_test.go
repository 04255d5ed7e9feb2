package valueobjects_test

import (
	"math/big"
	"testing"

	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestNewMoney_Success(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency valueobjects.Currency
	}{
		{"valid USD amount", "100.50", valueobjects.USD},
		{"zero amount", "0", valueobjects.EUR},
		{"small crypto amount, still 2dp", "0.01", valueobjects.BTC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			money, err := valueobjects.NewMoney(tt.amount, tt.currency)
			if err != nil {
				t.Fatalf("NewMoney() error = %v", err)
			}
			if money.Currency().Code() != tt.currency.Code() {
				t.Errorf("Currency mismatch: got %v, want %v", money.Currency(), tt.currency)
			}
		})
	}
}

func TestNewMoney_NegativeAmount(t *testing.T) {
	if _, err := valueobjects.NewMoney("-100.50", valueobjects.USD); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestNewMoney_InvalidFormat(t *testing.T) {
	for _, amount := range []string{"abc", "12.34.56", "", "not-a-number"} {
		if _, err := valueobjects.NewMoney(amount, valueobjects.USD); err == nil {
			t.Errorf("expected error for invalid amount %q", amount)
		}
	}
}

func TestMoney_Add(t *testing.T) {
	m1, _ := valueobjects.NewMoney("100.50", valueobjects.USD)
	m2, _ := valueobjects.NewMoney("50.25", valueobjects.USD)

	result, err := m1.Add(m2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected, _ := valueobjects.NewMoney("150.75", valueobjects.USD)
	if !result.Equals(expected) {
		t.Errorf("Add result incorrect: got %v, want %v", result, expected)
	}

	mEUR, _ := valueobjects.NewMoney("100", valueobjects.EUR)
	if _, err := m1.Add(mEUR); err == nil {
		t.Error("expected error adding different currencies")
	}
}

func TestMoney_Subtract(t *testing.T) {
	m1, _ := valueobjects.NewMoney("100", valueobjects.USD)
	m2, _ := valueobjects.NewMoney("30", valueobjects.USD)

	result, err := m1.Subtract(m2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected, _ := valueobjects.NewMoney("70", valueobjects.USD)
	if !result.Equals(expected) {
		t.Errorf("Subtract result incorrect: got %v, want %v", result, expected)
	}

	m3, _ := valueobjects.NewMoney("50", valueobjects.USD)
	m4, _ := valueobjects.NewMoney("100", valueobjects.USD)
	if _, err := m3.Subtract(m4); err == nil {
		t.Error("expected error for insufficient amount")
	}
}

func TestMoney_MinorUnitsRoundTrip(t *testing.T) {
	money, err := valueobjects.NewMoneyFromMinorUnits(10050, valueobjects.USD)
	if err != nil {
		t.Fatalf("NewMoneyFromMinorUnits() error = %v", err)
	}
	if money.Decimal() != "100.50" {
		t.Errorf("Decimal() = %v, want 100.50", money.Decimal())
	}
	if money.MinorUnits() != 10050 {
		t.Errorf("MinorUnits() = %v, want 10050", money.MinorUnits())
	}
}

func TestMoney_RoundHalfEven(t *testing.T) {
	r := new(big.Rat)
	r.SetString("1.005")
	money, err := valueobjects.NewMoneyFromRat(r, valueobjects.USD)
	if err != nil {
		t.Fatalf("NewMoneyFromRat() error = %v", err)
	}
	// 1.005 halfway between 1.00 and 1.01; rounds to even (1.00).
	if money.Decimal() != "1.00" {
		t.Errorf("Decimal() = %v, want 1.00 (round-half-even)", money.Decimal())
	}
}

func TestMoney_Comparison(t *testing.T) {
	m1, _ := valueobjects.NewMoney("100", valueobjects.USD)
	m2, _ := valueobjects.NewMoney("50", valueobjects.USD)
	m3, _ := valueobjects.NewMoney("100", valueobjects.USD)

	if gt, err := m1.GreaterThan(m2); err != nil || !gt {
		t.Error("100 should be greater than 50")
	}
	if !m1.Equals(m3) {
		t.Error("100 should equal 100")
	}
	if lt, err := m2.LessThan(m1); err != nil || !lt {
		t.Error("50 should be less than 100")
	}
}

func TestZero(t *testing.T) {
	zero := valueobjects.Zero(valueobjects.USD)
	if !zero.IsZero() {
		t.Error("Zero() should create a zero amount")
	}
	if zero.Currency().Code() != valueobjects.USD.Code() {
		t.Errorf("currency mismatch: got %v, want USD", zero.Currency())
	}
}

func TestMoney_String(t *testing.T) {
	money, _ := valueobjects.NewMoney("100.50", valueobjects.USD)
	if money.String() != "100.50 USD" {
		t.Errorf("String() = %v, want \"100.50 USD\"", money.String())
	}
}

func TestMoney_IsZeroIsPositive(t *testing.T) {
	zero, _ := valueobjects.NewMoney("0", valueobjects.USD)
	if !zero.IsZero() || zero.IsPositive() {
		t.Error("zero amount should report IsZero and not IsPositive")
	}
	pos, _ := valueobjects.NewMoney("0.01", valueobjects.USD)
	if pos.IsZero() || !pos.IsPositive() {
		t.Error("0.01 should report IsPositive and not IsZero")
	}
}

func TestMoney_GreaterThanOrEqual_DifferentCurrencies(t *testing.T) {
	m1, _ := valueobjects.NewMoney("100", valueobjects.USD)
	mEUR, _ := valueobjects.NewMoney("100", valueobjects.EUR)
	if _, err := m1.GreaterThanOrEqual(mEUR); err == nil {
		t.Error("expected error comparing different currencies")
	}
}

func BenchmarkMoney_Add(b *testing.B) {
	m1, _ := valueobjects.NewMoney("100.50", valueobjects.USD)
	m2, _ := valueobjects.NewMoney("50.25", valueobjects.USD)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m1.Add(m2)
	}
}
