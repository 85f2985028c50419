// Package router maps free-form data questions onto the statistics tools:
// it picks the tool by keyword score, extracts places and parameters, and
// fans comparison queries out into one call per location.
package router

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// toolMapping binds keyword vocabulary to one tool. paramValues maps
// trigger words in the query to the value passed for paramName.
type toolMapping struct {
	tool        string
	keywords    []string
	paramName   string
	paramValues []paramValue
	description string
}

type paramValue struct {
	keyword string
	value   string
}

// toolMappings in fixed order; ties in the keyword score resolve to the
// earlier entry. Keywords are stored accent-folded.
var toolMappings = []toolMapping{
	{
		tool:        "get_censo",
		keywords:    []string{"poblacion", "habitantes", "censo", "gente", "personas", "demografia", "demografico"},
		paramName:   "municipio",
		description: "datos de población",
	},
	{
		tool:      "get_dolar",
		keywords:  []string{"dolar", "cotizacion", "blue", "oficial", "mep", "ccl", "tipo de cambio"},
		paramName: "tipo",
		paramValues: []paramValue{
			{"blue", "blue"}, {"oficial", "oficial"}, {"mep", "mep"}, {"ccl", "ccl"},
		},
		description: "cotización del dólar",
	},
	{
		tool:        "get_ipc",
		keywords:    []string{"ipc", "inflacion", "precios", "indice de precios"},
		paramName:   "region",
		description: "índice de precios al consumidor",
	},
	{
		tool:        "get_empleo",
		keywords:    []string{"empleo", "desempleo", "trabajo", "ocupacion", "tasa de empleo", "eph", "actividad"},
		paramName:   "provincia",
		description: "tasas de empleo y desempleo",
	},
	{
		tool:      "get_semaforo",
		keywords:  []string{"semaforo", "indicadores economicos", "variacion"},
		paramName: "tipo",
		paramValues: []paramValue{
			{"interanual", "interanual"}, {"mensual", "intermensual"},
		},
		description: "semáforo económico",
	},
	{
		tool:        "get_patentamientos",
		keywords:    []string{"patentamiento", "patentamientos", "vehiculos", "autos", "motos", "0km", "dnrpa"},
		paramName:   "provincia",
		description: "patentamientos de vehículos",
	},
	{
		tool:        "get_aeropuertos",
		keywords:    []string{"aeropuerto", "aeropuertos", "vuelos", "pasajeros aereos", "anac", "aviacion"},
		paramName:   "aeropuerto",
		description: "pasajeros en aeropuertos",
	},
	{
		tool:        "get_combustible",
		keywords:    []string{"combustible", "nafta", "gasoil", "diesel", "gas", "petroleo", "ventas de combustible"},
		paramName:   "provincia",
		description: "ventas de combustible",
	},
	{
		tool:        "get_canasta_basica",
		keywords:    []string{"canasta", "canasta basica", "alimentos", "costo de vida"},
		description: "canasta básica",
	},
	{
		tool:        "get_pobreza",
		keywords:    []string{"pobreza", "indigencia", "cbt", "cba", "linea de pobreza"},
		paramName:   "region",
		description: "líneas de pobreza e indigencia",
	},
	{
		tool:        "get_ecv",
		keywords:    []string{"ecv", "encuesta de calidad", "calidad de vida", "condiciones de vida"},
		description: "encuesta de calidad de vida",
	},
	{
		tool:        "get_oede",
		keywords:    []string{"oede", "observatorio de empleo", "dinamica empresarial"},
		paramName:   "provincia",
		description: "observatorio de empleo",
	},
	{
		tool:        "get_emae",
		keywords:    []string{"emae", "actividad economica", "estimador mensual", "pbi mensual"},
		paramName:   "categoria",
		description: "actividad económica mensual",
	},
	{
		tool:        "get_pbg",
		keywords:    []string{"pbg", "producto bruto", "pbi provincial", "produccion provincial"},
		paramName:   "sector",
		description: "producto bruto geográfico",
	},
	{
		tool:      "get_salarios",
		keywords:  []string{"salario", "salarios", "sueldo", "sueldos", "smvm", "minimo vital", "ripte", "remuneracion"},
		paramName: "tipo",
		paramValues: []paramValue{
			{"smvm", "smvm"}, {"minimo", "smvm"}, {"ripte", "ripte"}, {"indicadores", "indicadores"},
		},
		description: "salarios e índices salariales",
	},
	{
		tool:        "get_supermercados",
		keywords:    []string{"supermercado", "supermercados", "autoservicio", "facturacion supermercados", "ventas minoristas"},
		paramName:   "rubro",
		description: "facturación de supermercados",
	},
	{
		tool:      "get_construccion",
		keywords:  []string{"construccion", "ieric", "obras", "edificacion"},
		paramName: "tipo",
		paramValues: []paramValue{
			{"puestos", "puestos"}, {"trabajo", "puestos"}, {"ingresos", "ingresos"}, {"actividad", "actividad"},
		},
		description: "industria de la construcción",
	},
	{
		tool:        "get_ipc_corrientes",
		keywords:    []string{"ipc corrientes", "ipicorr", "inflacion corrientes", "precios corrientes"},
		description: "IPC específico de Corrientes",
	},
}

var foldAccents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// wordPatterns holds one compiled whole-word matcher per keyword, built
// once at startup.
var wordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, mapping := range toolMappings {
		for _, keyword := range mapping.keywords {
			if _, ok := patterns[keyword]; !ok {
				patterns[keyword] = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
			}
		}
	}
	return patterns
}()

// Executor runs a named tool. The router treats any error or empty result
// as "this tool had nothing", never as a fatal condition.
type Executor interface {
	Execute(ctx context.Context, tool string, params map[string]string) (string, error)
	IsAvailable() bool
}

// RouteResult reports which tool answered and its formatted output.
type RouteResult struct {
	Tool     string
	Response string
}

// Router resolves data questions to tool invocations.
type Router struct {
	executor Executor
}

func NewRouter(executor Executor) *Router {
	return &Router{executor: executor}
}

// DetectTool scores each tool's vocabulary against the query: whole-word
// hits count 10, substring hits 5. Below 5 nothing is detected.
func DetectTool(query string) string {
	folded := foldAccents.Replace(strings.ToLower(query))

	best := ""
	bestScore := 0
	for _, mapping := range toolMappings {
		score := 0
		for _, keyword := range mapping.keywords {
			if !strings.Contains(folded, keyword) {
				continue
			}
			if wordPatterns[keyword].MatchString(folded) {
				score += 10
			} else {
				score += 5
			}
		}
		if score > bestScore {
			bestScore = score
			best = mapping.tool
		}
	}

	if bestScore >= 5 {
		return best
	}
	return ""
}

// ExtractParams pulls tool-specific parameter values out of the query,
// like "blue" for the dollar tool or "interanual" for the indicator
// dashboard.
func ExtractParams(query, tool string) map[string]string {
	mapping := findMapping(tool)
	params := map[string]string{}
	if mapping == nil || mapping.paramName == "" {
		return params
	}

	folded := foldAccents.Replace(strings.ToLower(query))
	for _, pv := range mapping.paramValues {
		if strings.Contains(folded, pv.keyword) {
			params[mapping.paramName] = pv.value
			break
		}
	}
	return params
}

var comparisonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`compara\w*`),
	regexp.MustCompile(`diferencia\w*`),
	regexp.MustCompile(`vs\.?`),
	regexp.MustCompile(`entre\s+\w+\s+y\s+`),
	regexp.MustCompile(`\w+\s+y\s+\w+`),
	regexp.MustCompile(`cual.*mayor`),
	regexp.MustCompile(`cual.*menor`),
	regexp.MustCompile(`mas.*que`),
	regexp.MustCompile(`menos.*que`),
}

// IsComparisonQuery reports whether the query asks to compare values,
// either by phrasing or by naming two or more places.
func IsComparisonQuery(query string) bool {
	folded := foldAccents.Replace(strings.ToLower(query))
	for _, pattern := range comparisonPatterns {
		if pattern.MatchString(folded) {
			return true
		}
	}
	return len(ExtractLocations(query)) >= 2
}

// RouteAndExecute resolves the query to a tool and runs it. Comparison
// queries run once per extracted location and merge the results; a nil
// result means the router could not answer and the caller should try the
// next strategy.
func (r *Router) RouteAndExecute(ctx context.Context, query string) *RouteResult {
	if r.executor == nil || !r.executor.IsAvailable() {
		return nil
	}

	tool := DetectTool(query)
	if tool == "" {
		log.Printf("[ROUTER] no tool detected for query: %.50s", query)
		return nil
	}
	log.Printf("[ROUTER] detected tool %s for query: %.50s", tool, query)

	locations := ExtractLocations(query)
	params := ExtractParams(query, tool)
	mapping := findMapping(tool)
	paramName := ""
	if mapping != nil {
		paramName = mapping.paramName
	}

	if IsComparisonQuery(query) && len(locations) > 0 && paramName != "" {
		var results []string
		for _, location := range locations {
			locParams := map[string]string{paramName: location}
			for k, v := range params {
				locParams[k] = v
			}
			result, err := r.executor.Execute(ctx, tool, locParams)
			if err != nil {
				log.Printf("[ROUTER] tool %s failed for %s: %v", tool, location, err)
				continue
			}
			if result != "" && !strings.Contains(result, "No se encontraron") && !strings.Contains(result, "Error") {
				results = append(results, result)
			}
		}
		if len(results) > 0 {
			return &RouteResult{Tool: tool, Response: FormatComparison(results, mapping.description)}
		}
		return nil
	}

	if len(locations) > 0 && paramName != "" {
		params[paramName] = locations[0]
	}
	result, err := r.executor.Execute(ctx, tool, params)
	if err != nil {
		log.Printf("[ROUTER] tool %s failed: %v", tool, err)
		return nil
	}
	if result == "" || strings.Contains(result, "No se encontraron") {
		return nil
	}
	return &RouteResult{Tool: tool, Response: result}
}

func findMapping(tool string) *toolMapping {
	for i := range toolMappings {
		if toolMappings[i].tool == tool {
			return &toolMappings[i]
		}
	}
	return nil
}
