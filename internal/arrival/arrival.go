// Package arrival turns minutes-until-arrival predictions into display text.
package arrival

import (
	"fmt"
	"time"

	"k8s.io/utils/clock"

	"stoplens.dev/internal/models"
)

const clockLayout = "15:04"

// Formatter formats arrivals against a clock. The clock time is derived on
// every call, so repeated calls drift forward with the wall clock.
type Formatter struct {
	clock    clock.PassiveClock
	location *time.Location
}

// NewFormatter returns a formatter rendering clock times in loc. A nil clock
// uses the real clock and a nil loc uses time.Local.
func NewFormatter(c clock.PassiveClock, loc *time.Location) *Formatter {
	if c == nil {
		c = clock.RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{clock: c, location: loc}
}

// Format renders minutes. Negative predictions are shown as arriving now.
func (f *Formatter) Format(minutes *int) models.Arrival {
	if minutes == nil {
		return models.Arrival{
			Display:   models.UnknownArrivalDisplay,
			ClockTime: models.UnknownClockTime,
		}
	}

	m := *minutes
	if m < 0 {
		m = 0
	}
	display := "Now"
	if m > 0 {
		display = fmt.Sprintf("In %d minutes", m)
	}

	at := f.clock.Now().Add(time.Duration(m) * time.Minute).In(f.location)
	return models.Arrival{
		Display:   display,
		ClockTime: at.Format(clockLayout),
	}
}
