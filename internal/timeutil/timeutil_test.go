package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoughSpan(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{37 * time.Second, "37 seconds"},
		{90 * time.Second, "2 minutes"},
		{time.Hour, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{36 * time.Hour, "2 days"},
		{29 * 24 * time.Hour, "29 days"},
		{60 * 24 * time.Hour, "2 months"},
		{400 * 24 * time.Hour, "1 year"},
		{10 * 365 * 24 * time.Hour, "10 years"},
		{220 * 365 * 24 * time.Hour, "2 centuries"},
		{250 * 365 * 24 * time.Hour, "3 centuries"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoughSpan(tt.d), "duration %s", tt.d)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	future := now.Add(72 * time.Hour).Unix()
	assert.Equal(t, "in 3 days", Relative(future, now))

	past := now.Add(-2 * time.Hour).Unix()
	assert.Equal(t, "2 hours ago", Relative(past, now))
}

func TestDateString(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 15, 0, time.Local).Unix()
	assert.Equal(t, "2026-03-01", DateString(ts, false))
	assert.Equal(t, "2026-03-01 09:30:15", DateString(ts, true))
}
