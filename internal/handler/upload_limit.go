package handler

import "strconv"

// sizeLabel renders a byte limit for error messages, rounding down to whole
// megabytes or kilobytes.
func sizeLabel(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case bytes >= mb:
		return strconv.FormatInt(bytes/mb, 10) + "MB"
	case bytes >= kb:
		return strconv.FormatInt(bytes/kb, 10) + "KB"
	case bytes > 0:
		return strconv.FormatInt(bytes, 10) + "B"
	default:
		return "0B"
	}
}
