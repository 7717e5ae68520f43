package domain

import (
	"sort"
	"time"
)

// DefaultPreAlertOffsets mirrors the conventional early-warning ladder:
// 7 days, 2 days and 1 day before the occurrence.
var DefaultPreAlertOffsets = []time.Duration{
	7 * 24 * time.Hour,
	2 * 24 * time.Hour,
	24 * time.Hour,
}

type PreAlertCalculator struct{}

func NewPreAlertCalculator() *PreAlertCalculator {
	return &PreAlertCalculator{}
}

// Compute returns the pre-alert instants for an occurrence: one per offset,
// keeping only instants strictly after now, sorted ascending. An occurrence
// closer than the smallest offset yields no pre-alerts at all; an alert is
// never scheduled in the past.
func (c *PreAlertCalculator) Compute(
	occurrenceTime time.Time,
	offsets []time.Duration,
	now time.Time,
) []time.Time {
	alerts := make([]time.Time, 0, len(offsets))

	for _, offset := range offsets {
		alert := occurrenceTime.Add(-offset)
		if alert.After(now) {
			alerts = append(alerts, alert)
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Before(alerts[j])
	})

	return alerts
}
