package utils

import "github.com/shopspring/decimal"

// Точность хранения по валютам: 2 знака для фиата и USDT, 8 для крипты.
var currencyPrecision = map[string]int32{
	"USDT": 2,
	"RUB":  2,
	"USD":  2,
	"EUR":  2,
	"BTC":  8,
	"ETH":  8,
	"TON":  8,
}

const defaultPrecision int32 = 8

// CurrencyPrecision возвращает число знаков после запятой для валюты.
func CurrencyPrecision(currency string) int32 {
	if p, ok := currencyPrecision[currency]; ok {
		return p
	}
	return defaultPrecision
}

// RoundAmount округляет сумму до точности валюты. Применяется в момент
// записи в хранилище; промежуточные вычисления идут с полной точностью.
func RoundAmount(currency string, amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPrecision(currency))
}

// FormatAmount форматирует сумму для описаний транзакций и уведомлений.
func FormatAmount(currency string, amount decimal.Decimal) string {
	return amount.StringFixed(CurrencyPrecision(currency)) + " " + currency
}
