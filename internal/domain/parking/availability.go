package parking

import "time"

type ClosedReason string

const (
	ReasonNone   ClosedReason = ""
	ReasonFull   ClosedReason = "full"
	ReasonClosed ClosedReason = "closed"
)

func (r ClosedReason) String() string {
	return string(r)
}

type Availability struct {
	OK     bool
	Reason ClosedReason
	// Opens and Closes are set for display whenever the lot is Closed.
	Opens  string
	Closes string
}

// IsBookable evaluates the lot at now. now must already be in the lot's time zone;
// only its clock part is compared against the schedule.
//
// A full lot is reported Full regardless of the time. An unparseable schedule never
// blocks a booking.
func IsBookable(r *Resource, now time.Time) Availability {
	if r.IsFull() {
		return Availability{OK: false, Reason: ReasonFull}
	}

	s := r.Schedule()
	if !s.Contains(TimeOfDayOf(now)) {
		return Availability{
			OK:     false,
			Reason: ReasonClosed,
			Opens:  s.DisplayOpen(),
			Closes: s.DisplayClose(),
		}
	}

	return Availability{OK: true}
}
