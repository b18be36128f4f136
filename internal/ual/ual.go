// Package ual computes the unlawfully-at-large day count for a recall.
package ual

import (
	"fmt"
	"time"
)

// Calculate returns the number of whole days the offender was unlawfully at
// large: the days strictly between the revocation date and the
// return-to-custody date. The day of return is not counted, so a return the
// day after revocation yields 0. A nil return date means the offender never
// left custody and UAL is not applicable.
//
// Callers must reject a return date before the revocation date with
// ValidateWindow before calling; Calculate assumes a non-negative span.
func Calculate(revocation time.Time, returnToCustody *time.Time) *int {
	if returnToCustody == nil {
		return nil
	}
	days := daysBetween(revocation, *returnToCustody) - 1
	if days < 0 {
		days = 0
	}
	return &days
}

// ValidateWindow rejects a return-to-custody date before the revocation
// date. The error is a form-level validation message, not a system fault.
func ValidateWindow(revocation time.Time, returnToCustody *time.Time) error {
	if returnToCustody == nil {
		return nil
	}
	if startOfDay(*returnToCustody).Before(startOfDay(revocation)) {
		return fmt.Errorf("return to custody date %s is before the revocation date %s",
			returnToCustody.Format(time.DateOnly), revocation.Format(time.DateOnly))
	}
	return nil
}

// daysBetween counts calendar days from a to b, ignoring the time of day.
func daysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)) / (24 * time.Hour))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
