package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"nbsp", "5&nbsp;августа&nbsp;2025", "5 августа 2025"},
		{"ampersand", "M&amp;A Activity", "M&A Activity"},
		{"angle brackets", "&lt;b&gt;bold&lt;/b&gt;", "<b>bold</b>"},
		{"quote", "&quot;core&quot; CPI", `"core" CPI`},
		{"trims whitespace", "  text  ", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeEntities(tt.input))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain integer", "42", 42, true},
		{"decimal", "3.4", 3.4, true},
		{"comma decimal", "2,3", 2.3, true},
		{"percent", "5.5%", 5.5, true},
		{"comma percent", "0,1%", 0.1, true},
		{"thousands suffix", "12.5K", 12500, true},
		{"integer thousands", "185K", 185000, true},
		{"comma thousands", "147,3K", 147300, true},
		{"negative", "-0.2%", -0.2, true},
		{"empty", "", 0, false},
		{"dash", "-", 0, false},
		{"whitespace", "   ", 0, false},
		{"garbage", "n/a", 0, false},
		{"bare suffix", "K", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ParseNumber(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, n, 1e-9)
			} else {
				// Absent must never leak as a zero value.
				assert.Zero(t, n)
			}
		})
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		token string
		month time.Month
		ok    bool
	}{
		{"августа", time.August, true},
		{"января", time.January, true},
		{"декабря", time.December, true},
		{"august", time.August, true},
		{"AUGUST", time.August, true},
		{"aug", time.August, true},
		{"may", time.May, true},
		{" мая ", time.May, true},
		{"smarch", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, ok := MonthNumber(tt.token)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.month, m)
			}
		})
	}
}
