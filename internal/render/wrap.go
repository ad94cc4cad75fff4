package render

import "strings"

// wrapText word-wraps s to lines of at most maxChars characters.
// Words longer than maxChars are split across lines.
func wrapText(s string, maxChars int) []string {
	words := strings.Fields(s)
	var lines []string
	var current string

	for _, word := range words {
		if len(current)+len(word)+1 > maxChars {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if len(word) > maxChars {
				for start := 0; start < len(word); start += maxChars {
					end := start + maxChars
					if end > len(word) {
						end = len(word)
					}
					lines = append(lines, word[start:end])
				}
				continue
			}
			current = word
			continue
		}
		if current != "" {
			current += " "
		}
		current += word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
