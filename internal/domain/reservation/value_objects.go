package reservation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Money is an amount in cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

// MoneyFromDecimal converts a backend decimal amount, rounding half-up on its shortest
// decimal form so that 2.345 becomes 2.35.
func MoneyFromDecimal(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	if amount < 0 {
		return Money{}, ErrNegativePrice
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(amount, 'f', -1, 64), ".")
	frac += "000"
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	fraction, err := strconv.ParseInt(frac[:2], 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := units*100 + fraction
	if frac[2] >= '5' {
		cents++
	}
	return NewMoney(cents)
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Decimal() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
