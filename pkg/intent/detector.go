package intent

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ipecd-chatbot-be/pkg/menu"
)

// keywordGroup is a named bag of trigger words. Groups are scanned in a
// fixed order so the keywords reported on a detection are stable.
type keywordGroup struct {
	name  string
	words []string
}

var commonKeywords = []keywordGroup{
	{"menu", []string{"menú", "menu", "inicio", "principal", "volver"}},
	{"back", []string{"atrás", "back", "volver", "anterior", "regresar"}},
	{"help", []string{"ayuda", "help", "como usar", "instrucciones", "información"}},

	{"ultimo", []string{"último", "ultimo", "última", "ultima", "reciente", "más reciente", "last"}},
	{"primero", []string{"primero", "primera", "inicial", "first"}},
	{"promedio", []string{"promedio", "media", "average", "mean"}},
	{"suma", []string{"suma", "total", "sum"}},
	{"maximo", []string{"máximo", "maximo", "mayor", "highest", "max"}},
	{"minimo", []string{"mínimo", "minimo", "menor", "lowest", "min"}},

	{"economico", []string{"económico", "economico", "economía", "economia", "finanzas", "dinero",
		"presupuesto", "ingresos", "gastos", "inflación", "inflacion"}},
	{"socio", []string{"social", "sociedad", "demografía", "demografia", "población", "poblacion",
		"ciudadanos", "habitantes", "personas", "gente"}},
	{"datalake", []string{"datalake", "raw", "bruto", "crudo", "sin procesar"}},
	{"dwh", []string{"dwh", "warehouse", "almacén", "almacen", "procesado", "transformado"}},

	{"buscar", []string{"buscar", "busca", "encontrar", "muestra", "muéstrame", "dame",
		"quiero ver", "necesito", "información sobre", "datos de"}},
	{"estructura", []string{"estructura", "tablas", "columnas", "schema", "esquema", "base de datos",
		"qué hay", "que hay", "qué información", "que información"}},
}

type queryPattern struct {
	re  *regexp.Regexp
	tag string
}

var queryPatterns = []queryPattern{
	{regexp.MustCompile(`(último|ultimo|última|ultima|más reciente|mas reciente)\s+(valor|dato|registro|resultado)`), "ultimo"},
	{regexp.MustCompile(`(primer|primera|inicial)\s+(valor|dato|registro|resultado)`), "primero"},
	{regexp.MustCompile(`(promedio|media)\s+(de|del|de la)`), "promedio"},
	{regexp.MustCompile(`(suma|total)\s+(de|del|de la)`), "suma"},
	{regexp.MustCompile(`(máximo|maximo|mayor)\s+(valor|dato)`), "maximo"},
	{regexp.MustCompile(`(mínimo|minimo|menor)\s+(valor|dato)`), "minimo"},
	{regexp.MustCompile(`(año|ano|años|anos)\s+(\d{4})`), "year"},
	{regexp.MustCompile(`(\d{4})`), "year"},
	{regexp.MustCompile(`(mes|meses)\s+(de|del)`), "month"},
	{regexp.MustCompile(`(día|dia|días|dias)\s+(de|del)`), "day"},
}

// menuTermMapping routes explicit mentions of a section straight to its
// parent menu node. Scanned in order; first match wins.
var menuTermMapping = []struct {
	term   string
	nodeID string
}{
	{"datos económicos", "economico"},
	{"datos economicos", "economico"},
	{"datos sociales", "socio"},
	{"datalake económico", "economico"},
	{"datalake economico", "economico"},
	{"datalake social", "socio"},
	{"datalake socio", "socio"},
	{"dwh económico", "economico"},
	{"dwh economico", "economico"},
	{"dwh social", "socio"},
	{"dwh socio", "socio"},
	{"información general", "general"},
	{"informacion general", "general"},
}

// genericColumns never become search vocabulary.
var genericColumns = map[string]struct{}{
	"id": {}, "created_at": {}, "updated_at": {}, "deleted_at": {},
	"timestamp": {}, "fecha": {},
}

var alphaWord = regexp.MustCompile(`^[\p{L}]+$`)

// Detector maps free text onto the menu tree using keyword heuristics.
// Its vocabulary can be extended with names harvested from the warehouse
// so table and column mentions raise the confidence of open queries.
type Detector struct {
	tree       *menu.Tree
	dbKeywords []string
}

func NewDetector(tree *menu.Tree) *Detector {
	return &Detector{tree: tree}
}

// LoadVocabulary harvests database, table and column names plus sample
// values from the warehouse structure. Failures degrade to an empty
// vocabulary instead of blocking startup.
func (d *Detector) LoadVocabulary(ctx context.Context, provider menu.StructureProvider) {
	if provider == nil {
		return
	}
	structure, err := provider.DatabaseStructure(ctx)
	if err != nil {
		log.Printf("[INTENT] could not load database keywords: %v", err)
		d.dbKeywords = nil
		return
	}

	seen := map[string]struct{}{}
	add := func(word string) {
		word = strings.ToLower(word)
		if word != "" {
			seen[word] = struct{}{}
		}
	}

	for dbName, tables := range structure {
		add(dbName)
		for _, table := range tables {
			add(table.Name)
			for _, column := range table.Columns {
				if _, generic := genericColumns[strings.ToLower(column)]; !generic {
					add(column)
				}
			}
			for _, value := range table.Sample {
				if len(value) <= 3 {
					continue
				}
				for _, word := range strings.Fields(strings.ToLower(value)) {
					if len([]rune(word)) > 3 && alphaWord.MatchString(word) {
						add(word)
					}
				}
			}
		}
	}

	keywords := make([]string, 0, len(seen))
	for word := range seen {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)
	d.dbKeywords = keywords
	log.Printf("[INTENT] loaded %d keywords from database structure", len(keywords))
}

// Detect classifies the text relative to the menu the session is looking
// at. A bare number selects from currentNodeID's children; navigation
// words and explicit section mentions resolve to menu nodes; everything
// else becomes an open query carrying the original text.
func (d *Detector) Detect(text, currentNodeID string) Detection {
	textLower := strings.ToLower(strings.TrimSpace(text))

	if currentNodeID == "" {
		currentNodeID = d.tree.RootID()
	}

	if number, err := strconv.Atoi(textLower); err == nil {
		if child := d.tree.GetChildByNumber(currentNodeID, number); child != nil {
			if child.IsMenu() {
				return MenuDetection{NodeID: child.ID, Keywords: []string{"number_selection"}, Score: 1.0}
			}
			return QueryDetection{
				NodeID:   child.ID,
				DBQuery:  child.DBQuery,
				Keywords: []string{"number_selection"},
				Score:    1.0,
			}
		}
	}

	if containsAny(textLower, commonKeywords[0].words) {
		return MenuDetection{NodeID: d.tree.RootID(), Keywords: []string{"menu"}, Score: 1.0}
	}
	if containsAny(textLower, commonKeywords[1].words) {
		return BackDetection{Score: 1.0}
	}
	if containsAny(textLower, commonKeywords[2].words) {
		return MenuDetection{NodeID: "ayuda", Keywords: []string{"help"}, Score: 1.0}
	}

	queryType := ""
	for _, qp := range queryPatterns {
		if qp.re.MatchString(textLower) {
			queryType = qp.tag
			break
		}
	}

	var foundKeywords []string
	for _, group := range commonKeywords {
		if containsAny(textLower, group.words) {
			foundKeywords = append(foundKeywords, group.name)
		}
	}

	var dbMatches []string
	for _, keyword := range d.dbKeywords {
		if strings.Contains(textLower, keyword) || strings.Contains(keyword, textLower) {
			dbMatches = append(dbMatches, keyword)
		}
	}
	if len(dbMatches) > 0 {
		foundKeywords = append(foundKeywords, "database_match")
	}

	matchedNodeID := ""
	for _, mapping := range menuTermMapping {
		if strings.Contains(textLower, mapping.term) {
			matchedNodeID = mapping.nodeID
			break
		}
	}

	if matchedNodeID == "" {
		if match := d.tree.FindNodeByKeyword(text); match != nil {
			if match.IsMenu() {
				matchedNodeID = match.ID
			} else if parent := d.tree.NearestMenuAncestor(match.ID); parent != nil {
				matchedNodeID = parent.ID
			}
		}
	}

	if matchedNodeID != "" {
		if node := d.tree.GetNode(matchedNodeID); node != nil && node.IsMenu() {
			return MenuDetection{NodeID: matchedNodeID, Keywords: node.Keywords, Score: 0.95}
		}
	}

	for _, name := range foundKeywords {
		if name == "estructura" {
			return QueryDetection{
				NodeID:    "estructura",
				DBQuery:   "structure",
				QueryType: queryType,
				Keywords:  foundKeywords,
				Score:     0.9,
			}
		}
	}

	confidence := 0.6
	if len(dbMatches) > 0 {
		confidence = 0.8
	}
	if len(dbMatches) > 10 {
		dbMatches = dbMatches[:10]
	}

	return OpenDetection{
		Query:     text,
		QueryType: queryType,
		Keywords:  foundKeywords,
		DBMatches: dbMatches,
		Score:     confidence,
	}
}

// BuildDatabaseQuery rewrites the user text into the search string handed
// to the warehouse, stripping the aggregate words the query type already
// captures.
func BuildDatabaseQuery(queryType, originalText string) string {
	var query string
	switch queryType {
	case "ultimo":
		drop := map[string]struct{}{
			"último": {}, "ultimo": {}, "última": {}, "ultima": {},
			"más": {}, "reciente": {}, "mas": {}, "valor": {}, "dato": {},
		}
		var relevant []string
		for _, word := range strings.Fields(strings.ToLower(originalText)) {
			if _, skip := drop[word]; !skip {
				relevant = append(relevant, word)
			}
		}
		if len(relevant) > 0 {
			query = strings.Join(relevant, " ")
		} else {
			query = originalText
		}
	case "promedio":
		query = strings.ReplaceAll(originalText, "promedio", "")
		query = strings.ReplaceAll(query, "media", "")
	case "suma":
		query = strings.ReplaceAll(originalText, "suma", "")
		query = strings.ReplaceAll(query, "total", "")
	default:
		query = originalText
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return originalText
	}
	return query
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
