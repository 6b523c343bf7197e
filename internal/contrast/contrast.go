// Package contrast picks a readable text color for a background color.
package contrast

import (
	"strconv"
	"strings"
)

const (
	// Black is returned for light backgrounds.
	Black = "black"
	// White is returned for dark backgrounds.
	White = "white"

	threshold = 140
)

// Luma returns the perceived brightness of a "rrggbb" or "#rrggbb" color,
// (299*R + 587*G + 114*B) / 1000. Channels that do not parse as hex count
// as 0.
func Luma(hex string) int {
	hex = strings.TrimPrefix(hex, "#")

	r := channel(hex, 0)
	g := channel(hex, 2)
	b := channel(hex, 4)

	return (299*r + 587*g + 114*b) / 1000
}

// Text returns "black" when hex is light enough and "white" otherwise.
func Text(hex string) string {
	if Luma(hex) >= threshold {
		return Black
	}

	return White
}

func channel(hex string, offset int) int {
	if len(hex) < offset+2 {
		return 0
	}

	v, err := strconv.ParseUint(hex[offset:offset+2], 16, 8)
	if err != nil {
		return 0
	}

	return int(v)
}
