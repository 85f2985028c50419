package learning

import (
	"regexp"
	"strings"
)

// stopWords do not count as content when comparing questions.
var stopWords = map[string]struct{}{
	"que": {}, "es": {}, "el": {}, "la": {}, "los": {}, "las": {}, "un": {},
	"una": {}, "de": {}, "del": {}, "al": {}, "en": {}, "por": {}, "para": {},
	"con": {}, "sin": {}, "sobre": {}, "entre": {}, "como": {}, "cual": {},
	"donde": {}, "cuando": {}, "quien": {}, "cuanto": {}, "me": {}, "te": {},
	"se": {}, "nos": {}, "les": {}, "lo": {}, "le": {}, "y": {}, "o": {},
	"a": {}, "e": {}, "u": {}, "pero": {}, "si": {}, "no": {}, "mas": {},
	"muy": {}, "tan": {}, "este": {}, "esta": {}, "estos": {}, "estas": {},
	"ese": {}, "esa": {}, "esos": {}, "esas": {}, "aquel": {}, "aquella": {},
	"su": {}, "sus": {}, "mi": {}, "tu": {}, "ser": {}, "estar": {},
	"tiene": {}, "significa": {}, "quiere": {}, "decir": {}, "dame": {},
	"dime": {}, "mostrar": {},
}

// keyTerms are domain acronyms and indicator names that must match
// exactly between two questions. "IPC" never matches "EPH".
var keyTerms = map[string]struct{}{
	"ipc": {}, "eph": {}, "ecv": {}, "emae": {}, "sipa": {}, "oede": {},
	"ripte": {}, "pbg": {}, "ipi": {}, "dolar": {}, "blue": {}, "mep": {},
	"ccl": {}, "oficial": {}, "censo": {}, "canasta": {}, "basica": {},
	"empleo": {}, "desempleo": {}, "inflacion": {}, "precios": {},
	"salario": {}, "semaforo": {},
}

var (
	punctPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	spacesPattern = regexp.MustCompile(`\s+`)
	accentFolder  = strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"ñ", "n", "ü", "u",
	)
)

const maxNormalizedLen = 500

// Normalize produces the canonical indexing form of a question: lowercase,
// punctuation stripped, whitespace collapsed, accents folded, bounded
// length. Idempotent.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(spacesPattern.ReplaceAllString(text, " "))
	text = accentFolder.Replace(text)

	runes := []rune(text)
	if len(runes) > maxNormalizedLen {
		return string(runes[:maxNormalizedLen])
	}
	return text
}

// GenerateKey builds the slug stored alongside each entry: the first five
// normalized words longer than two characters.
func GenerateKey(question string) string {
	var words []string
	for _, w := range strings.Fields(Normalize(question)) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
			if len(words) == 5 {
				break
			}
		}
	}
	if len(words) == 0 {
		return "unknown"
	}

	key := strings.Join(words, "_")
	runes := []rune(key)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return key
}

func wordSet(normalized string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		words[w] = struct{}{}
	}
	return words
}

func intersectKeyTerms(words map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range words {
		if _, ok := keyTerms[w]; ok {
			out[w] = struct{}{}
		}
	}
	return out
}

func contentWords(words map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range words {
		if _, stop := stopWords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	return out
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}
