package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	INR Currency = "INR" // Indian Rupee (default)
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = INR

// Money is a value object representing a cash amount with two-decimal-place
// fixed-point semantics. It is immutable - all operations return new instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money from a decimal amount in the default currency
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: DefaultCurrency}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: DefaultCurrency}, nil
}

// NewMoneyFromFloat creates Money from a float64 value.
// NaN and infinities are rejected rather than panicking inside decimal.
func NewMoneyFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("amount is not a finite number")
	}
	return Money{amount: decimal.NewFromFloat(amount), currency: DefaultCurrency}, nil
}

// Zero returns a zero-value Money in the default currency
func Zero() Money {
	return Money{amount: decimal.Zero, currency: DefaultCurrency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// HasCentPrecision reports whether the amount fits in two decimal places
func (m Money) HasCentPrecision() bool {
	return m.amount.Equal(m.amount.Truncate(2))
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.Currency()}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount), currency: m.Currency()}
}

// MultiplyByInt returns a new Money multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.Currency()}
}

// Round returns a new Money rounded to two decimal places
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2), currency: m.Currency()}
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.Currency())
}

// StringFixed returns the amount as a string with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.StringFixed(2))
}

// UnmarshalJSON implements json.Unmarshaler. Accepts either a JSON string
// ("100.10") or a bare number for compatibility with older clients.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f json.Number
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid money value: %s", string(data))
		}
		s = f.String()
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = DefaultCurrency
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval. Only the amount is
// stored; currency is fixed to the system default.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		strVal = decimal.NewFromFloat(v).String()
	case int64:
		strVal = decimal.NewFromInt(v).String()
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	m.currency = DefaultCurrency
	return nil
}
