package timezone_test

import (
	"stayops/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestCalendarDays(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	late := time.Date(2024, 5, 1, 23, 30, 0, 0, jakarta)

	day := timezone.DateOf(late)
	if !day.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DateOf() = %v, expected 2024-05-01 UTC midnight", day)
	}

	parsed, err := timezone.ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}

	if !parsed.Equal(day) {
		t.Errorf("ParseDate() = %v, expected %v", parsed, day)
	}

	if _, err := timezone.ParseDate("01/05/2024"); err == nil {
		t.Error("ParseDate() accepted a non ISO date")
	}

	today := timezone.Today()
	if today.Hour() != 0 || today.Location() != time.UTC {
		t.Errorf("Today() = %v, expected UTC midnight", today)
	}
}
