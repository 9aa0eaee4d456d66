package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Normalize приводит сумму из UI к числу. Принимает числа и строки с
// запятой или точкой в роли десятичного разделителя. Любое значение,
// которое не парсится в конечное число, даёт 0. Никогда не паникует.
func Normalize(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat64(v)
	case string:
		return parseAmount(v)
	default:
		return parseAmount(cast.ToString(value))
	}
}

// SumAmounts складывает суммы через decimal, чтобы итог чаевых не
// накапливал двоичную погрешность.
func SumAmounts(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(finite(a)))
	}
	f, _ := total.Float64()
	return f
}

// FormatBRL форматирует сумму в бразильском формате валюты.
func FormatBRL(value float64) string {
	return brPrinter.Sprintf("R$ %.2f", finite(value))
}

func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
