package services

import (
	"math"
	"time"
)

// DateLayout is the civil date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Stay is a validated [checkIn, checkOut) range of civil dates.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CivilToday is the calendar date of now in loc, as UTC midnight.
func CivilToday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseStay validates a date range against today. Check-in may be today; check-out must be later
// than check-in.
func ParseStay(checkIn, checkOut string, today time.Time) (Stay, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return Stay{}, NewInvalidError("err.bad_date", "dates must be YYYY-MM-DD")
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return Stay{}, NewInvalidError("err.bad_date", "dates must be YYYY-MM-DD")
	}
	if in.Before(today) {
		return Stay{}, ErrCheckInPast
	}
	if !out.After(in) {
		return Stay{}, ErrCheckOutBefore
	}
	return Stay{CheckIn: in, CheckOut: out}, nil
}

func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Dates lists every night of the stay, check-out excluded.
func (s Stay) Dates() []string {
	out := make([]string, 0, s.Nights())
	for d := s.CheckIn; d.Before(s.CheckOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

func (s Stay) CheckInDate() string  { return s.CheckIn.Format(DateLayout) }
func (s Stay) CheckOutDate() string { return s.CheckOut.Format(DateLayout) }

// RangesOverlap reports whether the booked [checkIn, checkOut) shares at least one night with
// [from, to). Dates are YYYY-MM-DD text, so lexical order is date order. Touching boundaries do not
// overlap.
func RangesOverlap(checkIn, checkOut, from, to string) bool {
	return checkIn < to && checkOut > from
}

// IsAvailable holds while the overlapping active reservations leave at least one operable room.
func IsAvailable(overlapping, operableRooms int) bool {
	return overlapping < operableRooms
}

// TotalPrice sums the nightly rate for each date, falling back to basePrice for dates without a
// price row.
func TotalPrice(dates []string, nightly map[string]int64, basePrice int64) int64 {
	var total int64
	for _, d := range dates {
		if p, ok := nightly[d]; ok {
			total += p
			continue
		}
		total += basePrice
	}
	return total
}

// PricePerNight is for presentation only; it is never stored.
func PricePerNight(total int64, nights int) int64 {
	if nights <= 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(nights)))
}
