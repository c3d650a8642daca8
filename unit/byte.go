package unit

import (
	"fmt"
)

const (
	// https://en.wikipedia.org/wiki/Kilobyte
	Byte     = 1
	Kilobyte = 1000 * Byte
	Megabyte = 1000 * Kilobyte
	Gigabyte = 1000 * Megabyte
	Kibibyte = 1024 * Byte
	Mebibyte = 1024 * Kibibyte
	Gibibyte = 1024 * Mebibyte
)

// FormatBytes renders a byte count with a decimal SI suffix, e.g. "3.4 MB".
func FormatBytes(n int64) string {
	switch {
	case n >= Gigabyte:
		return fmt.Sprintf("%.1f GB", float64(n)/float64(Gigabyte))
	case n >= Megabyte:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(Megabyte))
	case n >= Kilobyte:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(Kilobyte))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
