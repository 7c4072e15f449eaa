package loyalty

// PointsPolicy awards PointsPerUnit points per whole currency unit paid.
type PointsPolicy struct {
	PointsPerUnit int
}

func NewPointsPolicy(pointsPerUnit int) PointsPolicy {
	if pointsPerUnit < 0 {
		pointsPerUnit = 0
	}
	return PointsPolicy{PointsPerUnit: pointsPerUnit}
}

// PointsFor floors fractional points.
func (p PointsPolicy) PointsFor(priceCents int64) int {
	if priceCents <= 0 || p.PointsPerUnit <= 0 {
		return 0
	}
	return int(priceCents * int64(p.PointsPerUnit) / 100)
}
