package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCeilDays(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"zero", 0, 0},
		{"exact day", 24 * time.Hour, 1},
		{"partial day rounds up", 25 * time.Hour, 2},
		{"just under a day", 23 * time.Hour, 1},
		{"one minute", time.Minute, 1},
		{"negative exact", -48 * time.Hour, -2},
		{"negative partial", -36 * time.Hour, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilDays(tt.d))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysUntil(now.AddDate(0, 0, 30), now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -5, DaysUntil(now.AddDate(0, 0, -5), now))
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysOverdue(due, due))
	assert.Equal(t, 0, DaysOverdue(due, due.AddDate(0, 0, -3)), "not yet due floors at zero")
	assert.Equal(t, 1, DaysOverdue(due, due.Add(time.Hour)))
	assert.Equal(t, 3, DaysOverdue(due, due.AddDate(0, 0, 3)))
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(due, due))
	assert.False(t, IsOverdue(due, due.Add(-time.Minute)))
	assert.True(t, IsOverdue(due, due.Add(time.Minute)))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 80, Percentage(decimal.NewFromInt(160), decimal.NewFromInt(200)))
	assert.Equal(t, 100, Percentage(decimal.NewFromInt(200), decimal.NewFromInt(200)))
	assert.Equal(t, 0, Percentage(decimal.Zero, decimal.NewFromInt(200)))
	assert.Equal(t, 0, Percentage(decimal.Zero, decimal.Zero), "zero total must not divide")
	assert.Equal(t, 33, Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3)))
}
