// Package sysinfo provides the platform descriptor and clock read by
// the SYSTEM_INFO handler.
package sysinfo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// TimeFormat is ISO 8601 with a numeric UTC offset at second precision.
const TimeFormat = "2006-01-02T15:04:05-07:00"

// Clock supplies the timestamp reported by SYSTEM_INFO.
type Clock interface {
	Now() string
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current local time in TimeFormat.
func (SystemClock) Now() string {
	return time.Now().Format(TimeFormat)
}

// Describe returns a host descriptor string built from platform, OS
// version, kernel version and architecture, falling back to GOOS/GOARCH
// when host information is unavailable.
func Describe() string {
	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("%s-%s-%s-%s", info.Platform, info.PlatformVersion, info.KernelVersion, info.KernelArch)
}
