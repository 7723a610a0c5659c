package sysinfo

import (
	"testing"
	"time"
)

func TestSystemClock_Now_Format(t *testing.T) {
	now := SystemClock{}.Now()

	parsed, err := time.Parse(TimeFormat, now)
	if err != nil {
		t.Fatalf("sysinfo:sysinfo_test - Now() = %q does not parse as %q: %v", now, TimeFormat, err)
	}
	if time.Since(parsed) > time.Minute {
		t.Errorf("sysinfo:sysinfo_test - Now() = %q is not close to the current time", now)
	}
}

func TestSystemClock_Now_SecondPrecision(t *testing.T) {
	now := SystemClock{}.Now()
	// Second precision with a numeric offset: no fractional seconds.
	if len(now) != len("2006-01-02T15:04:05-07:00") {
		t.Errorf("sysinfo:sysinfo_test - Now() = %q, want second precision with offset", now)
	}
}

func TestDescribe(t *testing.T) {
	if Describe() == "" {
		t.Error("sysinfo:sysinfo_test - Describe() returned an empty descriptor")
	}
}
