package menu

import (
	"regexp"
	"strconv"
	"strings"
)

// symbolPattern strips everything but letters, digits and whitespace, so
// emoji-decorated titles compare against plain user text.
var symbolPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

func stripSymbols(s string) string {
	return strings.TrimSpace(symbolPattern.ReplaceAllString(s, ""))
}

// actionWords signal the user wants data, not menu navigation.
var actionWords = []string{
	"comparar", "comparacion", "comparación", "dame", "muéstrame", "muestrame",
	"cual es", "cuál es", "cuanto", "cuánto", "cuantos", "cuántos",
	"diferencia", "variacion", "variación", "crecimiento", "evolucion", "evolución",
}

// FindNodeByKeyword scores every node against the text and returns the
// best match when the score clears the minimum threshold. Scoring favors
// titles over keywords over descriptions over ids; when the text looks
// like an action query, tool nodes get a bonus and submenus a penalty,
// and ties break toward tool nodes. Deterministic for a fixed tree state.
func (t *Tree) FindNodeByKeyword(text string) *Node {
	textLower := strings.ToLower(strings.TrimSpace(text))

	// A bare number selects from the root menu.
	if number, err := strconv.Atoi(textLower); err == nil {
		if root := t.Root(); root != nil && len(root.Children) > 0 {
			if number >= 1 && number <= len(root.Children) {
				return t.GetNode(root.Children[number-1])
			}
		}
	}

	textClean := stripSymbols(textLower)

	isActionQuery := false
	for _, word := range actionWords {
		if strings.Contains(textLower, word) {
			isActionQuery = true
			break
		}
	}

	var bestMatch *Node
	bestScore := 0

	for _, node := range t.snapshot() {
		score := 0

		if node.Title != "" {
			titleClean := stripSymbols(strings.ToLower(node.Title))
			switch {
			case titleClean == textClean:
				score += 20
			case strings.Contains(textClean, titleClean) || strings.Contains(titleClean, textClean):
				score += 15
			default:
				for _, word := range strings.Fields(titleClean) {
					if len([]rune(word)) > 3 && strings.Contains(textClean, word) {
						score += 10
						break
					}
				}
			}
		}

		for _, keyword := range node.Keywords {
			keywordLower := strings.ToLower(keyword)
			if !strings.Contains(textLower, keywordLower) {
				continue
			}
			switch {
			case keywordLower == textLower:
				score += 10
			case strings.HasPrefix(textLower, keywordLower) || strings.HasSuffix(textLower, keywordLower):
				score += 5
			default:
				score += 1
			}
		}

		if node.Description != "" {
			descClean := stripSymbols(strings.ToLower(node.Description))
			switch {
			case descClean == textClean:
				score += 15
			case strings.Contains(textClean, descClean) || strings.Contains(descClean, textClean):
				score += 10
			default:
				for _, word := range strings.Fields(descClean) {
					if len([]rune(word)) > 4 && strings.Contains(textClean, word) {
						score += 3
						break
					}
				}
			}
		}

		idLower := strings.ToLower(node.ID)
		if strings.Contains(textLower, idLower) || strings.Contains(idLower, textLower) {
			score += 3
		}

		// Users asking for data usually want the tool, not another submenu.
		if isActionQuery && score > 0 {
			if node.Action == ActionTool {
				score += 10
			} else if node.Action == ActionMenu && len(node.Children) > 0 {
				score -= 3
			}
		}

		if score > bestScore {
			bestScore = score
			bestMatch = node
		} else if score == bestScore && score > 0 {
			if node.Action == ActionTool && (bestMatch == nil || bestMatch.Action == ActionMenu) {
				bestMatch = node
			}
		}
	}

	if bestScore >= 5 {
		return bestMatch
	}
	return nil
}
