package overlay

import "strings"

// Wrap breaks title into lines no wider than width, as measured by measure. Words wider than
// width get a line to themselves.
func Wrap(title string, width float32, measure func(string) float32) []string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		next := line + " " + w
		if measure(next) <= width {
			line = next
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
