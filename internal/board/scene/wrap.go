package scene

import "strings"

// ellipsis маркер усечения текста
const ellipsis = "…"

// WrapText жадно переносит текст по словам в пределах ширины maxWidth.
// Если строк выходит больше maxLines, последняя строка усекается посимвольно,
// пока вместе с многоточием не уложится в ширину: текст никогда не
// отбрасывается молча, без маркера усечения.
func WrapText(text string, maxWidth float64, maxLines int, measure func(string) float64) []string {
	if maxLines <= 0 || maxWidth <= 0 || measure == nil {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	overflow := false
	for i, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= maxWidth || current == "" {
			current = candidate
			continue
		}
		if len(lines) == maxLines-1 {
			// бюджет строк исчерпан, остаток уходит в усечение
			current = current + " " + strings.Join(words[i:], " ")
			overflow = true
			break
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		if !overflow && measure(current) > maxWidth && len(lines) == maxLines-1 {
			overflow = true
		}
		lines = append(lines, current)
	}

	if len(lines) > maxLines {
		overflow = true
		lines = lines[:maxLines]
	}
	if overflow {
		lines[len(lines)-1] = truncateWithEllipsis(lines[len(lines)-1], maxWidth, measure)
	}
	return lines
}

// truncateWithEllipsis усекает строку посимвольно до ширины с многоточием
func truncateWithEllipsis(line string, maxWidth float64, measure func(string) float64) string {
	if measure(line) <= maxWidth {
		return line
	}
	runes := []rune(line)
	for len(runes) > 0 {
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if measure(candidate) <= maxWidth {
			return candidate
		}
		runes = runes[:len(runes)-1]
	}
	return ellipsis
}
