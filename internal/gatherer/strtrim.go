package gatherer

import "strings"

// Output rectangle limits for transported build and measurement logs.
const (
	MaxOutputHeight = 40
	MaxOutputWidth  = 80
)

// TrimToRect cuts s down to at most maxHeight lines of at most
// maxWidth bytes, marking every cut with "[...]".
func TrimToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	res := ""
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	for i, line := range lines {
		if i > 0 {
			res += "\n"
		}
		if len(line) > maxWidth {
			res += line[:maxWidth] + "[...]"
		} else {
			res += line
		}
	}
	return res
}
