package parking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// The backend stores open/close as full datetimes; only the clock part is meaningful.
var timeOfDayLayouts = []string{
	"15:04",
	"15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// TimeOfDay is a wall-clock time, stored as seconds since midnight.
type TimeOfDay struct {
	seconds int
}

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// TimeOfDayOf takes the clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, sec := t.Clock()
	return TimeOfDay{seconds: h*3600 + m*60 + sec}
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.seconds < o.seconds }
func (t TimeOfDay) Hour() int               { return t.seconds / 3600 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.seconds/3600, (t.seconds%3600)/60)
}

// Schedule is a lot's daily opening window. A schedule that failed to parse is kept
// with its raw values and treated as always open.
type Schedule struct {
	open     TimeOfDay
	close    TimeOfDay
	rawOpen  string
	rawClose string
	valid    bool
}

func NewSchedule(open, close TimeOfDay) Schedule {
	return Schedule{
		open:     open,
		close:    close,
		rawOpen:  open.String(),
		rawClose: close.String(),
		valid:    true,
	}
}

// ParseSchedule never fails.
func ParseSchedule(rawOpen, rawClose string) Schedule {
	s := Schedule{rawOpen: rawOpen, rawClose: rawClose}
	open, errOpen := ParseTimeOfDay(rawOpen)
	closeAt, errClose := ParseTimeOfDay(rawClose)
	if errOpen != nil || errClose != nil {
		return s
	}
	s.open, s.close, s.valid = open, closeAt, true
	return s
}

func (s Schedule) Valid() bool      { return s.valid }
func (s Schedule) Open() TimeOfDay  { return s.open }
func (s Schedule) Close() TimeOfDay { return s.close }
func (s Schedule) RawOpen() string  { return s.rawOpen }
func (s Schedule) RawClose() string { return s.rawClose }

// SpansMidnight reports whether the window wraps to the next day. close == open counts as wrapping.
func (s Schedule) SpansMidnight() bool {
	return !s.open.Before(s.close)
}

func (s Schedule) Contains(t TimeOfDay) bool {
	if !s.valid {
		return true
	}
	if s.SpansMidnight() {
		return !t.Before(s.open) || t.Before(s.close)
	}
	return !t.Before(s.open) && t.Before(s.close)
}

// DisplayOpen falls back to the raw value when unparsed.
func (s Schedule) DisplayOpen() string {
	if !s.valid {
		return s.rawOpen
	}
	return s.open.String()
}

func (s Schedule) DisplayClose() string {
	if !s.valid {
		return s.rawClose
	}
	return s.close.String()
}
