// Package julian converts between julian days and calendar time.
package julian

import (
	"math"
	"time"
)

// JulianYearDays is the length of a julian year in days.
const JulianYearDays = 365.25

const secondsPerDay = 86400.0

// DayNumber returns the julian day number of the Gregorian date, i.e. the
// julian day at noon of that date.
func DayNumber(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// FromTime returns the julian day of t.
func FromTime(t time.Time) float64 {
	t = t.UTC()
	jdn := DayNumber(t.Year(), t.Month(), t.Day())
	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return float64(jdn) + (secs-secondsPerDay/2)/secondsPerDay
}

// ToTime returns the UTC time of julian day jd, rounded to the millisecond.
func ToTime(jd float64) time.Time {
	shifted := jd + 0.5
	day := math.Floor(shifted)
	year, month, dom := gregorian(int(day))

	ms := math.Round((shifted - day) * secondsPerDay * 1000)
	return time.Date(year, month, dom, 0, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)
}

func gregorian(jdn int) (year int, month time.Month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153

	day = e - (153*m+2)/5 + 1
	month = time.Month(m + 3 - 12*(m/10))
	year = 100*b + d - 4800 + m/10
	return
}

// Converter maps offsets in years from a reference julian day to calendar
// time.
type Converter struct {
	YearDays float64        // Days per year, JulianYearDays when zero
	Location *time.Location // Location of returned times, UTC when nil
}

// NewConverter returns a Converter using julian years in UTC.
func NewConverter() Converter {
	return Converter{YearDays: JulianYearDays}
}

// OffsetToDate returns the calendar time offsetYears after startJD.
func (c Converter) OffsetToDate(startJD, offsetYears float64) time.Time {
	t := ToTime(startJD + offsetYears*c.yearDays())
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

// OffsetYears returns how many years t lies after startJD.
func (c Converter) OffsetYears(startJD float64, t time.Time) float64 {
	return (FromTime(t) - startJD) / c.yearDays()
}

func (c Converter) yearDays() float64 {
	if c.YearDays <= 0 {
		return JulianYearDays
	}
	return c.YearDays
}
