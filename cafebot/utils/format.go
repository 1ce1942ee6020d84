package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:] // Remove minus sign for processing
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// FormatStars renders a reputation value as a five-star row, e.g. 3.5 -> ★★★⯪☆.
func FormatStars(reputation float64) string {
	var sb strings.Builder
	for i := 1; i <= 5; i++ {
		switch {
		case reputation >= float64(i):
			sb.WriteString("★")
		case reputation >= float64(i)-0.5:
			sb.WriteString("⯪")
		default:
			sb.WriteString("☆")
		}
	}
	return sb.String()
}

// FormatBar renders value/max as a ten-segment progress bar.
func FormatBar(value, max int) string {
	if max <= 0 {
		max = 1
	}
	filled := value * 10 / max
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func Ptr[T any](v T) *T {
	return &v
}
