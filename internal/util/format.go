// Package util provides utility functions for formatting and common operations.
package util

import (
	"fmt"
)

const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
	TB = GB * 1024
)

// FormatFileSize formats bytes in a human-readable unit (B, KB, MB, GB, TB).
// Zero is reported as "Unknown" since probes leave the field unset on failure.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "Unknown"
	}

	bf := float64(bytes)
	switch {
	case bf >= TB:
		return fmt.Sprintf("%.2f TB", bf/TB)
	case bf >= GB:
		return fmt.Sprintf("%.2f GB", bf/GB)
	case bf >= MB:
		return fmt.Sprintf("%.2f MB", bf/MB)
	case bf >= KB:
		return fmt.Sprintf("%.2f KB", bf/KB)
	default:
		return fmt.Sprintf("%.2f B", bf)
	}
}

// FormatBitRate formats a bit rate in Mbps.
func FormatBitRate(bitsPerSec int64) string {
	if bitsPerSec == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.2f Mbps", float64(bitsPerSec)/1_000_000)
}

// FormatTimestamp renders a second offset as M:SS, or H:MM:SS for offsets of
// an hour or more. Negative or NaN inputs render as 0:00.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || seconds != seconds {
		return "0:00"
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatDuration formats seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || seconds != seconds {
		return "??:??:??"
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
