package reservation

type PriceCalculator interface {
	CalculatePrice(pricePerHourCents int64, slot TimeSlot) (Money, error)
}

// HourlyPriceCalculator charges the hourly rate pro rata to the second, rounded half-up to the cent.
type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() *HourlyPriceCalculator {
	return &HourlyPriceCalculator{}
}

func (HourlyPriceCalculator) CalculatePrice(pricePerHourCents int64, slot TimeSlot) (Money, error) {
	if pricePerHourCents < 0 {
		return Money{}, ErrNegativePrice
	}
	seconds := int64(slot.Duration().Seconds())
	return NewMoney((pricePerHourCents*seconds + 1800) / 3600)
}
