package menu

import (
	"fmt"
	"strings"
)

// relatedCommonWords are excluded before scoring related options.
var relatedCommonWords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "de": {}, "del": {}, "en": {},
	"un": {}, "una": {}, "y": {}, "o": {}, "que": {}, "para": {}, "por": {},
	"con": {}, "sin": {}, "sobre": {}, "acceso": {}, "a": {},
}

// RelatedOption pairs a node with its relevance score.
type RelatedOption struct {
	Node  *Node
	Score int
}

// RelatedOptionsFinder proposes menu options when a search came back
// empty, so the user gets alternatives instead of a dead end.
type RelatedOptionsFinder struct {
	tree       *Tree
	minScore   int
	maxOptions int
}

func NewRelatedOptionsFinder(tree *Tree, maxOptions int) *RelatedOptionsFinder {
	if maxOptions <= 0 {
		maxOptions = 5
	}
	return &RelatedOptionsFinder{
		tree:       tree,
		minScore:   15,
		maxOptions: maxOptions,
	}
}

// FindRelated scores the whole node set against the query. Title matches
// weigh the most, then keywords, then description overlap. Only nodes at
// or above the minimum score are returned, best first.
func (f *RelatedOptionsFinder) FindRelated(query string) []RelatedOption {
	queryNormalized := stripSymbols(strings.ToLower(strings.TrimSpace(query)))
	if queryNormalized == "" {
		return nil
	}

	queryWords := make(map[string]struct{})
	for _, word := range strings.Fields(queryNormalized) {
		if _, common := relatedCommonWords[word]; common || len([]rune(word)) <= 2 {
			continue
		}
		queryWords[word] = struct{}{}
	}
	if len(queryWords) == 0 {
		return nil
	}

	var related []RelatedOption

	for _, node := range f.tree.snapshot() {
		score := 0

		if node.Title != "" {
			titleNormalized := stripSymbols(strings.ToLower(node.Title))
			titleWords := strings.Fields(titleNormalized)
			switch {
			case queryNormalized == titleNormalized:
				score = 100
			case strings.Contains(titleNormalized, queryNormalized) || strings.Contains(queryNormalized, titleNormalized):
				score = 50
			default:
				common := 0
				for _, word := range titleWords {
					if _, ok := queryWords[word]; ok {
						common++
					}
				}
				score = common * 15
			}
		}

		for _, keyword := range node.Keywords {
			keywordNormalized := strings.TrimSpace(strings.ToLower(keyword))
			if keywordNormalized == "" {
				continue
			}
			if strings.Contains(queryNormalized, keywordNormalized) || strings.Contains(keywordNormalized, queryNormalized) {
				score += 30
			} else if _, ok := queryWords[keywordNormalized]; ok {
				score += 15
			}
		}

		if node.Description != "" {
			descNormalized := stripSymbols(strings.ToLower(node.Description))
			common := 0
			for _, word := range strings.Fields(descNormalized) {
				if _, ok := queryWords[word]; ok {
					common++
				}
			}
			score += common * 5
		}

		if score >= f.minScore {
			related = append(related, RelatedOption{Node: node, Score: score})
		}
	}

	// Stable insertion order makes equal scores deterministic.
	for i := 1; i < len(related); i++ {
		for j := i; j > 0 && related[j].Score > related[j-1].Score; j-- {
			related[j], related[j-1] = related[j-1], related[j]
		}
	}

	if len(related) > f.maxOptions {
		related = related[:f.maxOptions]
	}
	return related
}

// FormatRelatedMenu renders the related options as a numbered menu.
// Returns "" when there is nothing to offer.
func (f *RelatedOptionsFinder) FormatRelatedMenu(query string, related []RelatedOption) string {
	if len(related) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "No encontré información específica sobre '%s', pero puedo ayudarte con estas opciones relacionadas:\n\n", query)
	for i, option := range related {
		fmt.Fprintf(&b, "%d. %s\n", i+1, option.Node.Title)
		if option.Node.Description != "" {
			fmt.Fprintf(&b, "   └─ %s\n", option.Node.Description)
		}
	}
	b.WriteString("\n💡 También puedes escribir tu consulta de otra manera o navegar por el menú principal.")
	return b.String()
}
