package director

import "strings"

const ellipsis = "…"

// Wrap breaks text into lines of at most width runes on word boundaries.
// Words longer than width are split hard.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = 1
	}
	var lines []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > width {
			flush()
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		if len(runes) == 0 {
			continue
		}
		if curLen > 0 && curLen+1+len(runes) > width {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(string(runes))
		curLen += len(runes)
	}
	flush()
	return lines
}

// CapLines keeps at most limit lines. When lines are dropped the last kept
// line ends with an ellipsis, shortened so it stays within width.
func CapLines(lines []string, limit, width int) []string {
	if len(lines) <= limit {
		return lines
	}
	if limit <= 0 {
		return nil
	}
	out := append([]string(nil), lines[:limit]...)
	last := []rune(out[limit-1])
	if len(last)+1 > width {
		last = last[:width-1]
	}
	out[limit-1] = strings.TrimRight(string(last), " ") + ellipsis
	return out
}
