package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundAmount(t *testing.T) {
	cases := []struct {
		currency string
		in       string
		want     string
	}{
		{"USDT", "10.005", "10.01"},
		{"USDT", "10.004", "10"},
		{"RUB", "7910.1408", "7910.14"},
		{"BTC", "0.123456789", "0.12345679"},
		{"XYZ", "1.0000000049", "1"},
	}

	for _, tc := range cases {
		in, _ := decimal.NewFromString(tc.in)
		want, _ := decimal.NewFromString(tc.want)
		if got := RoundAmount(tc.currency, in); !got.Equal(want) {
			t.Errorf("RoundAmount(%s, %s) = %s, want %s", tc.currency, tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	amount, _ := decimal.NewFromString("20.3")
	if got := FormatAmount("USDT", amount); got != "20.30 USDT" {
		t.Errorf("FormatAmount = %q, want %q", got, "20.30 USDT")
	}

	btc, _ := decimal.NewFromString("0.5")
	if got := FormatAmount("BTC", btc); got != "0.50000000 BTC" {
		t.Errorf("FormatAmount = %q, want %q", got, "0.50000000 BTC")
	}
}
