package ual_test

import (
	"testing"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/ual"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateNextDayIsZero(t *testing.T) {
	rtc := date(2023, 10, 2)
	got := ual.Calculate(date(2023, 10, 1), &rtc)
	if got == nil || *got != 0 {
		t.Fatalf("expected 0 days, got %v", got)
	}
}

func TestCalculateFiveDaySpan(t *testing.T) {
	rtc := date(2023, 10, 7)
	got := ual.Calculate(date(2023, 10, 1), &rtc)
	if got == nil || *got != 5 {
		t.Fatalf("expected 5 days, got %v", got)
	}
}

func TestCalculateExcludesReturnDay(t *testing.T) {
	rtc := date(2023, 10, 6)
	got := ual.Calculate(date(2023, 10, 1), &rtc)
	if got == nil || *got != 4 {
		t.Fatalf("expected 4 days, got %v", got)
	}
}

func TestCalculateSameDay(t *testing.T) {
	rtc := date(2023, 10, 1)
	got := ual.Calculate(date(2023, 10, 1), &rtc)
	if got == nil || *got != 0 {
		t.Fatalf("expected 0 days for same-day return, got %v", got)
	}
}

func TestCalculateNoReturnDate(t *testing.T) {
	if got := ual.Calculate(date(2023, 10, 1), nil); got != nil {
		t.Fatalf("expected nil when still in custody, got %d", *got)
	}
}

func TestCalculateIgnoresTimeOfDay(t *testing.T) {
	rev := time.Date(2023, 10, 1, 23, 30, 0, 0, time.UTC)
	rtc := time.Date(2023, 10, 7, 0, 15, 0, 0, time.UTC)
	got := ual.Calculate(rev, &rtc)
	if got == nil || *got != 5 {
		t.Fatalf("expected 5 days regardless of clock time, got %v", got)
	}
}

func TestValidateWindow(t *testing.T) {
	before := date(2023, 9, 30)
	if err := ual.ValidateWindow(date(2023, 10, 1), &before); err == nil {
		t.Fatalf("expected validation error for return before revocation")
	}
	same := date(2023, 10, 1)
	if err := ual.ValidateWindow(date(2023, 10, 1), &same); err != nil {
		t.Fatalf("same-day return should be valid: %v", err)
	}
	if err := ual.ValidateWindow(date(2023, 10, 1), nil); err != nil {
		t.Fatalf("nil return should be valid: %v", err)
	}
}
