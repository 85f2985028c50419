package intent

import (
	"regexp"
	"strings"
)

// foldAccents maps Spanish accented vowels onto their plain forms.
// Rule matching runs on folded text because the regexp engine treats
// word boundaries byte-wise, so "población" and "poblacion" must look
// identical before any \b pattern sees them.
var foldAccents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

func foldLower(s string) string {
	return foldAccents.Replace(strings.ToLower(s))
}

// domainKeywords is the provincial statistics vocabulary, in folded form.
// Any of these in a message marks it as answerable.
var domainKeywords = wordSet(
	"ipc", "inflacion", "precios", "canasta", "basica",
	"dolar", "blue", "oficial", "mep", "ccl", "cotizacion",
	"empleo", "desempleo", "trabajo", "eph", "sipa", "salario", "salarios",
	"semaforo", "economico", "economia",
	"censo", "poblacion", "habitantes", "municipio", "departamento",
	"ecv", "calidad", "vida", "encuesta",
	"emae", "actividad", "pbg", "producto", "bruto",
	"combustible", "nafta", "gasoil",
	"exportacion", "exportaciones", "importacion", "importaciones",
	"industria", "produccion", "ipi",
	"ripte", "remuneracion", "smvm", "minimo", "sueldo", "sueldos",
	"patentamiento", "patentamientos", "vehiculos", "autos", "motos", "0km", "dnrpa",
	"aeropuerto", "aeropuertos", "pasajeros", "vuelos", "anac", "avion",
	"oede", "observatorio", "empresas", "sectores", "dinamica", "empresarial",
	"pobreza", "indigencia", "cbt", "cba", "linea",
	"supermercado", "supermercados", "autoservicio", "facturacion",
	"construccion", "ieric", "obras", "edificacion",
	"ipicorr", "corrientes",
	"estadistica", "estadisticas", "datos", "indicador", "indicadores",
	"tasa", "tasas", "porcentaje", "variacion", "interanual", "mensual",
	"argentina", "provincia", "region", "nea",
	"ipecd", "instituto", "censos",
)

// outOfDomainKeywords look statistical but belong to topics the bot does
// not cover.
var outOfDomainKeywords = wordSet(
	"salud", "hospital", "medico", "enfermedad", "vacuna", "covid",
	"educacion", "escuela", "universidad", "colegio",
	"clima", "tiempo", "temperatura", "lluvia",
	"futbol", "deporte", "messi", "maradona",
	"politica", "presidente", "gobernador", "elecciones",
	"receta", "cocina", "comida",
	"pelicula", "musica", "serie",
)

// genericWords alone never make a query domain relevant.
var genericWords = wordSet(
	"datos", "informacion", "dame", "quiero", "necesito",
	"mostrar", "ver", "buscar", "consultar", "ultimo", "actual",
)

// specificIndicators carry more weight than generic vocabulary and can
// override an out-of-domain word in the same message.
var specificIndicators = wordSet(
	"ipc", "dolar", "empleo", "desempleo", "censo", "poblacion",
	"inflacion", "canasta", "semaforo", "patentamiento",
	"aeropuerto", "combustible", "eph", "sipa", "ecv", "oede", "pbg", "emae",
	"salario", "salarios", "smvm", "ripte", "supermercado", "construccion",
	"ieric", "ipicorr",
	"pobreza", "indigencia", "trabajo", "economico",
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// IsDomainRelevant reports whether the message is about provincial
// statistics. An out-of-domain word rejects the message unless a specific
// indicator appears too, and generic vocabulary alone is not enough.
func IsDomainRelevant(query string) bool {
	words := queryWords(query)

	outMatches := intersects(words, outOfDomainKeywords)
	specificMatches := intersects(words, specificIndicators)

	if outMatches && !specificMatches {
		return false
	}

	domainMatches := intersection(words, domainKeywords)
	if len(domainMatches) > 0 && subset(domainMatches, genericWords) {
		return false
	}

	return len(domainMatches) > 0
}

var complexQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`compara\w*`),
	regexp.MustCompile(`diferencia\w*`),
	regexp.MustCompile(`vs\.?`),
	regexp.MustCompile(`entre\s+\w+\s+y\s+`),
	regexp.MustCompile(`\w+\s+y\s+\w+`),
	regexp.MustCompile(`cuanto\s+\w+\s+en`),
	regexp.MustCompile(`cuantos?\s+\w+\s+tiene`),
	regexp.MustCompile(`cual\s+es\s+(el|la)\s+\w+\s+de`),
	regexp.MustCompile(`como\s+se\s+compara`),
	regexp.MustCompile(`evolucion\w*`),
	regexp.MustCompile(`historico\w*`),
	regexp.MustCompile(`tendencia\w*`),
}

// locationNames is the place gazetteer in folded form, including common
// typo variants seen in real traffic.
var locationNames = wordSet(
	"goya", "corrientes", "corientes", "corrientrs", "ctes",
	"paso de los libres", "mercedes", "curuzu cuatia",
	"bella vista", "esquina", "monte caseros", "santo tome",
	"virasoro", "ituzaingo", "saladas", "empedrado",
	"san roque", "concepcion", "lavalle",
	"buenos aires", "bsas", "caba", "capital federal",
	"cordoba", "rosario", "mendoza", "tucuman",
	"santa fe", "salta", "chaco", "misiones", "entre rios",
	"formosa", "jujuy", "san juan", "neuquen",
	"nea", "noa", "cuyo", "patagonia", "pampeana", "gba",
)

var directQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`como\s+esta\s+(el|la)`),
	regexp.MustCompile(`cual\s+es\s+(el|la)`),
	regexp.MustCompile(`dame\s+(el|la|los|las)`),
	regexp.MustCompile(`muestrame\s+(el|la|los|las)`),
	regexp.MustCompile(`cuanto\s+(es|esta)`),
	regexp.MustCompile(`ultimo\s+(valor|dato)`),
	regexp.MustCompile(`cotizacion\s+del`),
}

// IsComplexQuery reports whether the message should bypass menu matching
// and go straight to the tool router: comparisons, location-specific
// questions and direct indicator requests.
func IsComplexQuery(query string) bool {
	folded := foldLower(query)
	words := queryWords(query)

	for _, pattern := range complexQueryPatterns {
		if pattern.MatchString(folded) {
			return true
		}
	}

	locationCount := 0
	for word := range words {
		if _, ok := locationNames[word]; ok {
			locationCount++
		}
	}
	if locationCount >= 2 {
		return true
	}
	if locationCount > 0 {
		if strings.Contains(query, "?") ||
			containsAny(folded, []string{"cuanto", "cuantos", "cual", "como", "podes", "puedes"}) {
			return true
		}
	}

	for _, pattern := range directQueryPatterns {
		if pattern.MatchString(folded) {
			return intersects(words, specificIndicators)
		}
	}

	return false
}

var conceptualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bque\s+es\b`),
	regexp.MustCompile(`\bque\s+significa\b`),
	regexp.MustCompile(`\bque\s+son\b`),
	regexp.MustCompile(`\bdefinicion\b`),
	regexp.MustCompile(`\bdefinir\b`),
	regexp.MustCompile(`\bexplicar?\b`),
	regexp.MustCompile(`\bexplicame\b`),
	regexp.MustCompile(`\bque\s+quiere\s+decir\b`),
	regexp.MustCompile(`\bcomo\s+funciona\b`),
	regexp.MustCompile(`\bcomo\s+se\s+calcula\b`),
	regexp.MustCompile(`\bpara\s+que\s+sirve\b`),
	regexp.MustCompile(`\bcual\s+es\s+la\s+diferencia\b`),
	regexp.MustCompile(`\bque\s+mide\b`),
	regexp.MustCompile(`\bque\s+incluye\b`),
	regexp.MustCompile(`\bsignificado\b`),
	regexp.MustCompile(`\bconcepto\b`),
}

var dataRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdame\b`),
	regexp.MustCompile(`\bmuestrame\b`),
	regexp.MustCompile(`\bver\b`),
	regexp.MustCompile(`\bultimos?\b`),
	regexp.MustCompile(`\bactual\b`),
	regexp.MustCompile(`\bdatos\s+de\b`),
	regexp.MustCompile(`\bvalor\b`),
	regexp.MustCompile(`\bcuanto\b`),
	regexp.MustCompile(`\bcotizacion\b`),
	regexp.MustCompile(`\bprecio\b`),
	regexp.MustCompile(`\btasa\b`),
	regexp.MustCompile(`\bpoblacion\b`),
	regexp.MustCompile(`\bestadistica\b`),
	regexp.MustCompile(`\bnumero\b`),
	regexp.MustCompile(`\bporcentaje\b`),
	regexp.MustCompile(`\bvariacion\b`),
	regexp.MustCompile(`\bcuantos?\b`),
}

var queWord = regexp.MustCompile(`\bque\b`)

// QuestionKind labels the shape of a question.
type QuestionKind string

const (
	KindConceptual QuestionKind = "conceptual"
	KindData       QuestionKind = "data"
	KindAmbiguous  QuestionKind = "ambiguous"
)

// ClassifyQuestion weighs definitional phrasing against data-request
// phrasing and returns the dominant kind with a confidence.
func ClassifyQuestion(query string) (QuestionKind, float64) {
	folded := foldLower(strings.TrimSpace(query))

	conceptualScore := 0
	for _, pattern := range conceptualPatterns {
		if pattern.MatchString(folded) {
			conceptualScore += 2
		}
	}

	dataScore := 0
	for _, pattern := range dataRequestPatterns {
		if pattern.MatchString(folded) {
			dataScore++
		}
	}

	if strings.HasSuffix(strings.TrimSpace(query), "?") && queWord.MatchString(folded) {
		conceptualScore++
	}

	total := conceptualScore + dataScore
	if total == 0 {
		return KindAmbiguous, 0.5
	}

	switch {
	case conceptualScore > dataScore:
		return KindConceptual, minFloat(float64(conceptualScore)/float64(total+1), 1.0)
	case dataScore > conceptualScore:
		return KindData, minFloat(float64(dataScore)/float64(total+1), 1.0)
	default:
		return KindAmbiguous, 0.5
	}
}

// IsConceptualQuestion reports whether the message asks what something is
// rather than for its current value.
func IsConceptualQuestion(query string) bool {
	kind, confidence := ClassifyQuestion(query)
	return kind == KindConceptual && confidence >= 0.4
}

var topicStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`que\s+es\s+(el|la|los|las)?\s*`),
	regexp.MustCompile(`que\s+significa\s*(el|la)?\s*`),
	regexp.MustCompile(`que\s+son\s+(los|las)?\s*`),
	regexp.MustCompile(`explicame\s+(que\s+es)?\s*`),
	regexp.MustCompile(`como\s+funciona\s+(el|la)?\s*`),
	regexp.MustCompile(`para\s+que\s+sirve\s+(el|la)?\s*`),
	regexp.MustCompile(`\?`),
}

// StripQuestionWords removes definitional phrasing to leave the subject
// of the question.
func StripQuestionWords(query string) string {
	topic := foldLower(query)
	for _, pattern := range topicStripPatterns {
		topic = pattern.ReplaceAllString(topic, "")
	}
	return strings.TrimSpace(topic)
}

// topicKeywords maps messages to canonical topic names. Scanned in order;
// first match wins, so more specific topics come before broader ones.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"dolar", []string{"dolar", "cotizacion", "blue", "oficial", "mep", "ccl"}},
	{"ipc_corrientes", []string{"ipicorr", "ipc corrientes", "inflacion corrientes"}},
	{"ipc", []string{"ipc", "inflacion", "precios"}},
	{"sipa", []string{"sipa", "empleo registrado"}},
	{"empleo", []string{"empleo", "desempleo", "trabajo", "eph", "ocupacion"}},
	{"ecv", []string{"ecv", "calidad de vida", "condiciones de vida"}},
	{"oede", []string{"oede", "observatorio de empleo", "dinamica empresarial"}},
	{"censo", []string{"censo", "poblacion", "habitantes", "demografico"}},
	{"semaforo", []string{"semaforo", "indicadores economicos"}},
	{"patentamientos", []string{"patentamiento", "vehiculos", "autos", "motos", "0km"}},
	{"combustible", []string{"combustible", "nafta", "gasoil"}},
	{"pobreza", []string{"pobreza", "indigencia", "cbt", "cba"}},
	{"canasta", []string{"canasta basica"}},
	{"aeropuertos", []string{"aeropuerto", "aeropuertos", "anac", "vuelos", "pasajeros aeropuerto"}},
	{"emae", []string{"emae", "actividad economica"}},
	{"pbg", []string{"pbg", "producto bruto", "produccion provincial"}},
	{"salarios", []string{"salario", "salarios", "smvm", "ripte", "sueldo", "minimo vital"}},
	{"supermercados", []string{"supermercado", "supermercados", "facturacion supermercados"}},
	{"construccion", []string{"construccion", "ieric", "obras"}},
}

// ExtractTopic returns the canonical topic mentioned in the message, or
// an empty string.
func ExtractTopic(message string) string {
	msg := foldLower(message)
	for _, entry := range topicKeywords {
		if containsAny(msg, entry.keywords) {
			return entry.topic
		}
	}
	return ""
}

// extractableLocations is the short place list used for entity extraction
// on classifier fallback.
var extractableLocations = []string{
	"goya", "corrientes", "mercedes", "paso de los libres", "bella vista",
	"esquina", "monte caseros", "virasoro", "santo tome", "saladas",
	"buenos aires", "caba", "cordoba", "rosario", "mendoza",
	"nea", "noa", "gba", "patagonia",
}

// ExtractEntities returns the place names mentioned in the message.
func ExtractEntities(message string) []string {
	msg := foldLower(message)
	var found []string
	for _, location := range extractableLocations {
		if strings.Contains(msg, location) {
			found = append(found, location)
		}
	}
	return found
}

func queryWords(query string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, word := range wordPattern.FindAllString(foldLower(query), -1) {
		words[word] = struct{}{}
	}
	return words
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for word := range a {
		if _, ok := b[word]; ok {
			return true
		}
	}
	return false
}

func intersection(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for word := range a {
		if _, ok := b[word]; ok {
			out[word] = struct{}{}
		}
	}
	return out
}

func subset(a, b map[string]struct{}) bool {
	for word := range a {
		if _, ok := b[word]; !ok {
			return false
		}
	}
	return true
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
