package srs

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultIntervalDays is used whenever a stored interval is missing or cannot be parsed.
const DefaultIntervalDays = 1.0

// ParseIntervalToDays converts a stored duration expression such as "3 days" or
// "12 hours" into a fractional day count.
// Unknown units are read as days. Empty or malformed input falls back to DefaultIntervalDays.
func ParseIntervalToDays(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return DefaultIntervalDays
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return DefaultIntervalDays
	}

	unit := strings.TrimSuffix(strings.ToLower(fields[1]), "s")
	switch unit {
	case "day":
		return value
	case "hour":
		return value / 24
	case "minute":
		return value / (24 * 60)
	default:
		return value
	}
}

// ParseNullInterval is ParseIntervalToDays for a nullable column.
func ParseNullInterval(interval sql.NullString) float64 {
	if !interval.Valid {
		return DefaultIntervalDays
	}
	return ParseIntervalToDays(interval.String)
}

// FormatDaysToInterval renders a day count as "<n> days", rounding to the nearest day.
func FormatDaysToInterval(days float64) string {
	return fmt.Sprintf("%d days", int64(math.Round(days)))
}
