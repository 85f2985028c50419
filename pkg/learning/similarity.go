package learning

// Weights are the similarity scoring knobs. The defaults reproduce the
// tuned production values; they are configurable because they are tuning
// parameters, not structural constants.
type Weights struct {
	Content  float64 // weight of the content-word overlap
	Sequence float64 // weight of the raw sequence ratio
	KeyBonus float64 // bonus when both questions carry the same key terms
}

func DefaultWeights() Weights {
	return Weights{Content: 0.5, Sequence: 0.2, KeyBonus: 0.3}
}

// Similarity scores two questions in [0,1]. Key terms gate everything:
// two questions about different indicators score exactly 0 no matter how
// much their phrasing overlaps, and a key term present on only one side
// caps the score at a weak 0.3.
func Similarity(text1, text2 string, w Weights) float64 {
	norm1 := Normalize(text1)
	norm2 := Normalize(text2)

	words1 := wordSet(norm1)
	words2 := wordSet(norm2)

	key1 := intersectKeyTerms(words1)
	key2 := intersectKeyTerms(words2)

	// Hard veto: both sides name indicators, and not the same ones.
	if len(key1) > 0 && len(key2) > 0 && !setsEqual(key1, key2) {
		return 0.0
	}

	// One side names an indicator the other does not mention.
	if (len(key1) > 0 || len(key2) > 0) && !setsEqual(key1, key2) {
		return 0.3
	}

	content1 := contentWords(words1)
	content2 := contentWords(words2)

	if len(content1) == 0 || len(content2) == 0 {
		return sequenceRatio(norm1, norm2) * 0.5
	}

	common := 0
	for word := range content1 {
		if _, ok := content2[word]; ok {
			common++
		}
	}
	maxLen := len(content1)
	if len(content2) > maxLen {
		maxLen = len(content2)
	}
	contentSimilarity := float64(common) / float64(maxLen)

	seqSimilarity := sequenceRatio(norm1, norm2)

	keyBonus := 0.0
	if len(key1) > 0 && setsEqual(key1, key2) {
		keyBonus = w.KeyBonus
	}

	score := contentSimilarity*w.Content + seqSimilarity*w.Sequence + keyBonus
	if score > 1.0 {
		return 1.0
	}
	return score
}
