package router

import "strings"

// FormatComparison merges per-location tool outputs into one answer.
// When the results are markdown tables it splices the data rows under a
// single header; otherwise it concatenates the blocks with separators.
func FormatComparison(results []string, description string) string {
	if len(results) == 1 {
		return results[0]
	}

	var b strings.Builder
	b.WriteString("## 📊 Comparativa de " + titleCase(description) + "\n\n")

	headerFound := false
	for _, result := range results {
		lines := strings.Split(result, "\n")
		for idx, line := range lines {
			if !strings.Contains(line, "|") {
				continue
			}
			if strings.Contains(line, "---") {
				if !headerFound && idx > 0 {
					b.WriteString(lines[idx-1] + "\n")
					b.WriteString(line + "\n")
					headerFound = true
				}
			} else if headerFound && strings.TrimSpace(line) != "" &&
				!strings.Contains(line, "Municipio") && !strings.Contains(line, "Fecha") {
				b.WriteString(line + "\n")
			}
		}
	}

	if !headerFound {
		b.Reset()
		b.WriteString("## 📊 Comparativa de " + titleCase(description) + "\n\n")
		b.WriteString(strings.Join(results, "\n---\n"))
	}

	b.WriteString("\n\n> Comparativa generada automáticamente.")
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
		}
	}
	return strings.Join(words, " ")
}
