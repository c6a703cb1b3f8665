// Package duration parses the cache timeout setting.
//
// The timeout is stored in minutes, but users can also write "12h" (hours),
// "7d" (days), "4w" (weeks) or "3m" (months of 30 days).
package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalid is returned for strings that are neither minutes nor a
// supported duration.
var ErrInvalid = errors.New("invalid duration")

var unitPattern = regexp.MustCompile(`^(\d+)([hdwm])$`)

// Minutes per unit.
const (
	Hour  = 60
	Day   = 24 * Hour
	Week  = 7 * Day
	Month = 30 * Day
)

// ParseMinutes converts s to minutes. A bare integer is already minutes.
// Examples: "90" = 90, "12h" = 720, "7d" = 10080, "3m" = 129600.
func ParseMinutes(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	matches := unitPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %s (use minutes, or 12h, 7d, 4w, 3m)", ErrInvalid, s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalid, s)
	}

	switch matches[2] {
	case "h":
		return num * Hour, nil
	case "d":
		return num * Day, nil
	case "w":
		return num * Week, nil
	default:
		return num * Month, nil
	}
}
