package unit

import (
	"fmt"

	"staybooker/internal/pkg/errs"
)

var ErrNegativeMoney = errs.New("money cannot be negative")

// Money is an amount in integer cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// String renders a decimal amount, e.g. "115.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
