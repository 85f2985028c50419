package intent

import (
	"strings"

	"ipecd-chatbot-be/pkg/llm"
)

// conversation categories. A category change between turns resets the
// model context so answers about the dollar never leak IPC numbers.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"precios", []string{"ipc", "inflacion", "inflación", "precios", "canasta"}},
	{"dolar", []string{"dolar", "dólar", "blue", "mep", "ccl", "oficial", "divisa", "cambio"}},
	{"empleo", []string{"empleo", "trabajo", "desempleo", "desocupacion", "desocupación", "sipa", "eph", "laboral"}},
	{"semaforo", []string{"semaforo", "semáforo", "indicadores", "economia", "economía"}},
	{"censo", []string{"censo", "poblacion", "población", "habitantes", "demografía", "municipio", "departamento"}},
	{"general", []string{"ayuda", "menu", "menú", "hola", "inicio"}},
}

// DetectCategory returns the conversation category with the most keyword
// hits, or an empty string when nothing matches.
func DetectCategory(text string) string {
	textLower := strings.ToLower(text)

	best := ""
	bestScore := 0
	for _, category := range categoryKeywords {
		score := 0
		for _, keyword := range category.keywords {
			if strings.Contains(textLower, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category.name
		}
	}
	return best
}

// ShouldResetContext decides whether the accumulated conversation should
// be dropped: always on menu navigation, on a category switch, and when
// the user falls back to general chatter.
func ShouldResetContext(currentCategory, newCategory string, menuNavigation bool) bool {
	if menuNavigation {
		return true
	}
	if currentCategory != "" && newCategory != "" && currentCategory != newCategory {
		return true
	}
	return newCategory == "general"
}

// BuildContextMessages assembles the model input: the system prompt, up
// to maxContext prior messages filtered to the current category, then the
// user turn. Without a category all recent messages pass through.
func BuildContextMessages(systemMessage, userMessage string, previous []llm.Message, currentCategory string, maxContext int) []llm.Message {
	if maxContext <= 0 {
		maxContext = 4
	}

	messages := []llm.Message{{Role: "system", Content: systemMessage}}

	window := previous
	if len(window) > maxContext*2 {
		window = window[len(window)-maxContext*2:]
	}

	var keywords []string
	for _, category := range categoryKeywords {
		if category.name == currentCategory {
			keywords = category.keywords
			break
		}
	}

	var relevant []llm.Message
	for _, msg := range window {
		if msg.Role == "system" {
			continue
		}
		if currentCategory != "" {
			if containsAny(strings.ToLower(msg.Content), keywords) {
				relevant = append(relevant, msg)
			}
			continue
		}
		relevant = append(relevant, msg)
	}

	if len(relevant) > maxContext {
		relevant = relevant[len(relevant)-maxContext:]
	}
	messages = append(messages, relevant...)

	return append(messages, llm.Message{Role: "user", Content: userMessage})
}

var categoryPrompts = map[string]string{
	"precios": `
TEMA ACTUAL: Precios e Inflación
- Enfócate SOLO en información del IPC, inflación y canasta básica
- NO menciones otros temas como dólar, empleo o censo
- Presenta variaciones mensuales e interanuales claramente
`,
	"dolar": `
TEMA ACTUAL: Cotización del Dólar
- Enfócate SOLO en cotizaciones del dólar (blue, oficial, MEP, CCL)
- NO menciones otros temas como IPC, empleo o censo
- Presenta precios de compra y venta claramente
`,
	"empleo": `
TEMA ACTUAL: Empleo y Trabajo
- Enfócate SOLO en datos de empleo, desempleo y trabajo
- NO menciones otros temas como dólar, IPC o censo
- Presenta tasas de actividad, empleo y desocupación
`,
	"semaforo": `
TEMA ACTUAL: Semáforo Económico
- Enfócate SOLO en los indicadores del semáforo económico
- NO menciones otros temas específicos
- Indica si cada indicador está en positivo (🟢) o negativo (🔴)
`,
	"censo": `
TEMA ACTUAL: Población y Censo
- Enfócate SOLO en datos demográficos y censales
- NO menciones otros temas como dólar, IPC o empleo
- Compara datos de 2010 vs 2022 cuando sea relevante
`,
}

// CategoryPrompt returns the focusing instructions appended to the system
// prompt for a category, or an empty string.
func CategoryPrompt(category string) string {
	return categoryPrompts[category]
}
