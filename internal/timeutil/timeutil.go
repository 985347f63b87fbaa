package timeutil

import (
	"fmt"
	"time"
)

// RoughSpan renders a duration as a single coarse unit, e.g. "37 seconds",
// "3 hours", "2 months". Precision is deliberately low; this feeds list
// columns like certificate expiry and instance last-seen.
func RoughSpan(d time.Duration) string {
	ago := d.Seconds()

	if ago < 60 {
		return unit(ago, "second")
	}

	ago /= 60
	if ago < 60 {
		return unit(ago, "minute")
	}

	ago /= 60
	if ago < 24 {
		return unit(ago, "hour")
	}

	ago /= 24
	if ago < 30 {
		return unit(ago, "day")
	}

	ago /= 30
	if ago < 12 {
		return unit(ago, "month")
	}

	ago /= 12
	if ago < 100 {
		return unit(ago, "year")
	}

	ago /= 100
	return unit(ago, "century")
}

func unit(n float64, name string) string {
	rounded := int64(n + 0.5)
	if rounded == 1 {
		return "1 " + name
	}
	if name == "century" {
		return fmt.Sprintf("%d centuries", rounded)
	}
	return fmt.Sprintf("%d %ss", rounded, name)
}

// Relative describes a unix timestamp relative to now: "in 3 days" for the
// future, "2 hours ago" for the past.
func Relative(unixTs int64, now time.Time) string {
	delta := time.Unix(unixTs, 0).Sub(now)
	if delta > 0 {
		return "in " + RoughSpan(delta)
	}
	return RoughSpan(-delta) + " ago"
}

// DateString formats a unix timestamp as a calendar date, optionally with the
// time of day.
func DateString(unixTs int64, includeTime bool) string {
	ts := time.Unix(unixTs, 0)
	if includeTime {
		return ts.Format("2006-01-02 15:04:05")
	}
	return ts.Format("2006-01-02")
}
