// Package pricing содержит правила расчёта цен магазина: налоговую таблицу,
// порог бесплатной доставки, форматирование сумм и расчёт экономии.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// FreeShippingThreshold: подытог, начиная с которого доставка бесплатна.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// FallbackShippingRate применяется, если у способа доставки нет валидной ставки.
	FallbackShippingRate = decimal.RequireFromString("5.99")

	taxRates = map[string]decimal.Decimal{
		"CA": decimal.RequireFromString("0.0975"),
		"NY": decimal.RequireFromString("0.08"),
		"TX": decimal.RequireFromString("0.0625"),
		"FL": decimal.RequireFromString("0.06"),
	}

	usdPrinter = message.NewPrinter(language.AmericanEnglish)
)

// TaxRate возвращает ставку налога для кода штата. Неизвестные штаты: 0.
func TaxRate(state string) decimal.Decimal {
	rate, ok := taxRates[state]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// ParseAmount разбирает десятичную строку. ok=false для пустой или невалидной строки.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatPrice форматирует сумму в долларах США: "$1,234.50".
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + "$" + usdPrinter.Sprintf("%.2f", rounded.InexactFloat64())
}

// CalculateSavings возвращает разницу между обычной ценой и ценой со скидкой.
// Нулевая скидочная цена или цена не ниже обычной дают 0.
func CalculateSavings(regularPrice, salePrice decimal.Decimal) decimal.Decimal {
	if !hasDiscount(regularPrice, salePrice) {
		return decimal.Zero
	}
	return regularPrice.Sub(salePrice)
}

// CalculateDiscountPercentage возвращает скидку в процентах, округлённую до целого.
func CalculateDiscountPercentage(regularPrice, salePrice decimal.Decimal) int64 {
	if !hasDiscount(regularPrice, salePrice) {
		return 0
	}
	pct := regularPrice.Sub(salePrice).Div(regularPrice).Mul(decimal.NewFromInt(100))
	return pct.Round(0).IntPart()
}

func hasDiscount(regularPrice, salePrice decimal.Decimal) bool {
	return salePrice.IsPositive() && salePrice.LessThan(regularPrice)
}
