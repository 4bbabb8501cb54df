package holiday

import (
	"time"

	"github.com/Tiliavir/rileva/internal/timecalc"
)

// Easter returns Easter Sunday of the given Gregorian year (Gauss / Meeus
// anonymous algorithm: metonic cycle a, century b, epact h).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return timecalc.Day(year, time.Month(month), day)
}

// EasterMonday returns the day after Easter Sunday.
func EasterMonday(year int) time.Time {
	return Easter(year).AddDate(0, 0, 1)
}
