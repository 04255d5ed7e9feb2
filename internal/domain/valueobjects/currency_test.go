package valueobjects_test

import (
	"testing"

	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestNewCurrency_Success(t *testing.T) {
	for _, code := range []string{"RUB", "USD", "EUR", "BTC", "ETH", "USDT"} {
		t.Run(code, func(t *testing.T) {
			curr, err := valueobjects.NewCurrency(code)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if curr.Code() != code {
				t.Errorf("Code() = %v, want %v", curr.Code(), code)
			}
		})
	}
}

func TestNewCurrency_Invalid(t *testing.T) {
	for _, code := range []string{"XXX", "INVALID", "", "GBP", "USDC", "JPY", "123"} {
		t.Run(code, func(t *testing.T) {
			if _, err := valueobjects.NewCurrency(code); err != valueobjects.ErrInvalidCurrency {
				t.Errorf("expected ErrInvalidCurrency for %q, got %v", code, err)
			}
		})
	}
}

func TestNewCurrency_CaseInsensitiveAndTrimmed(t *testing.T) {
	tests := []struct{ input, want string }{
		{"usd", "USD"},
		{"Usd", "USD"},
		{" btc ", "BTC"},
		{"\teth\t", "ETH"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			curr, err := valueobjects.NewCurrency(tt.input)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if curr.Code() != tt.want {
				t.Errorf("Code() = %v, want %v", curr.Code(), tt.want)
			}
		})
	}
}

func TestMustNewCurrency_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid code")
		}
	}()
	valueobjects.MustNewCurrency("INVALID")
}

func TestCurrency_Equals(t *testing.T) {
	usd1 := valueobjects.USD
	usd2, _ := valueobjects.NewCurrency("USD")
	if !usd1.Equals(usd2) {
		t.Error("expected USD to equal USD")
	}
	if usd1.Equals(valueobjects.EUR) {
		t.Error("expected USD not to equal EUR")
	}
}

func TestCurrency_IsCryptoIsFiat(t *testing.T) {
	tests := []struct {
		curr     valueobjects.Currency
		isCrypto bool
	}{
		{valueobjects.RUB, false},
		{valueobjects.USD, false},
		{valueobjects.EUR, false},
		{valueobjects.BTC, true},
		{valueobjects.ETH, true},
		{valueobjects.USDT, true},
	}
	for _, tt := range tests {
		t.Run(tt.curr.Code(), func(t *testing.T) {
			if got := tt.curr.IsCrypto(); got != tt.isCrypto {
				t.Errorf("IsCrypto() = %v, want %v", got, tt.isCrypto)
			}
			if got := tt.curr.IsFiat(); got != !tt.isCrypto {
				t.Errorf("IsFiat() = %v, want %v", got, !tt.isCrypto)
			}
		})
	}
}

func TestCurrency_Kind(t *testing.T) {
	if valueobjects.USD.Kind() != valueobjects.AccountKindFiat {
		t.Error("USD should be a fiat account kind")
	}
	if valueobjects.BTC.Kind() != valueobjects.AccountKindCrypto {
		t.Error("BTC should be a crypto account kind")
	}
}

func TestCurrency_IsBase(t *testing.T) {
	if !valueobjects.RUB.IsBase() {
		t.Error("RUB should be the base currency")
	}
	if valueobjects.USD.IsBase() {
		t.Error("USD should not be the base currency")
	}
}

func TestCurrency_IsZero(t *testing.T) {
	if valueobjects.USD.IsZero() {
		t.Error("initialized currency should not be zero")
	}
	var curr valueobjects.Currency
	if !curr.IsZero() {
		t.Error("default currency should be zero")
	}
}
