package types

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is a two-decimal currency amount. It marshals to a bare JSON number and
// accepts either a number or a numeric string on input.
type Money struct {
	decimal.Decimal
}

var ZeroMoney = Money{Decimal: decimal.Zero}

func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func MoneyFromFloat(f float64) Money {
	return MoneyFromDecimal(decimal.NewFromFloat(f))
}

// ParseMoney parses a decimal string such as "129.90".
func ParseMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return MoneyFromDecimal(d), nil
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(value string) Money {
	m, err := ParseMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{Decimal: m.Decimal.Add(other.Decimal)}
}

func (m Money) Sub(other Money) Money {
	return Money{Decimal: m.Decimal.Sub(other.Decimal)}
}

// Times multiplies the amount by a line quantity.
func (m Money) Times(qty int) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(int64(qty)))}
}

// DivInt divides and rounds to cents; dividing by zero yields zero.
func (m Money) DivInt(n int64) Money {
	if n == 0 {
		return ZeroMoney
	}
	return MoneyFromDecimal(m.Decimal.Div(decimal.NewFromInt(n)))
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = ZeroMoney
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(string(trimmed))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		trimmed = []byte(unquoted)
	}
	parsed, err := ParseMoney(string(trimmed))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
