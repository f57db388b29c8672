package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0:00"},
		{name: "under a minute", seconds: 45, expected: "0:45"},
		{name: "minutes are not padded", seconds: 125, expected: "2:05"},
		{name: "fraction is truncated", seconds: 125.9, expected: "2:05"},
		{name: "exactly one hour", seconds: 3600, expected: "1:00:00"},
		{name: "hours with padded fields", seconds: 3725, expected: "1:02:05"},
		{name: "long stream", seconds: 36000 + 59*60 + 59, expected: "10:59:59"},
		{name: "negative", seconds: -5, expected: "0:00"},
		{name: "not a number", seconds: math.NaN(), expected: "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatDuration(tt.seconds))
		})
	}
}

func TestFormatViewCount(t *testing.T) {
	tests := []struct {
		views    uint64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, FormatViewCount(tt.views), "views=%d", tt.views)
	}
}

func TestMetadata_Views(t *testing.T) {
	var nilMeta *Metadata
	require.Empty(t, nilMeta.Views())

	m := &Metadata{Title: "t"}
	require.Empty(t, m.Views())

	n := uint64(1000)
	m.ViewCount = &n
	require.Equal(t, "1,000", m.Views())
}
