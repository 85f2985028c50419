package intent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"ipecd-chatbot-be/pkg/llm"
	"ipecd-chatbot-be/pkg/llm/failover"
)

// classificationPrompt instructs the model to label one message. The
// labels and topic vocabulary are contractual: downstream routing matches
// on these exact strings.
const classificationPrompt = `Eres un clasificador de intenciones para un chatbot de estadísticas del IPECD (Instituto Provincial de Estadística y Censos de Corrientes, Argentina).

Tu trabajo es analizar el mensaje del usuario y clasificarlo en UNA de estas categorías:

1. **saludo**: Saludos como "hola", "buenos días", "qué tal", etc. (SIN preguntas adicionales)
2. **despedida**: Despedidas o agradecimientos como "gracias", "chau", "hasta luego", etc.
3. **ayuda**: Solicitudes de ayuda o información sobre qué puede hacer el bot:
   - "qué podés hacer", "qué haces", "qué sabes", "opciones", "menu"
   - "para qué servís", "cómo funciona esto"
4. **consulta_datos**: Consultas sobre datos estadísticos específicos:
   - "dame el dólar", "cuál es la inflación", "último IPC"
   - "población de Goya", "tasa de desempleo"
   - Cualquier pregunta que pida DATOS NUMÉRICOS
5. **pregunta_conceptual**: Preguntas sobre qué es algo o cómo funciona:
   - "qué es el IPC", "cómo se calcula la inflación"
   - "qué es el EMAE", "para qué sirve el semáforo económico"
6. **fuera_de_dominio**: Preguntas que NO tienen nada que ver con:
   - Estadísticas, economía, demografía, empleo, precios, población
   - Ejemplos: fútbol, clima, recetas, política, farándula, salud general

TEMAS VÁLIDOS DEL IPECD (usar estos exactamente):
- dolar (cotización dólar blue, oficial, mep, ccl)
- ipc (índice de precios, inflación nacional)
- ipc_corrientes (inflación específica de Corrientes, IPICorr)
- empleo (EPH, tasas de empleo/desempleo)
- ecv (Encuesta de Calidad de Vida)
- oede (Observatorio de Empleo)
- sipa (empleo registrado)
- censo (población por municipio/departamento)
- semaforo (semáforo económico de indicadores)
- canasta (canasta básica alimentaria)
- pobreza (líneas de pobreza e indigencia)
- patentamientos (vehículos 0km)
- aeropuertos (pasajeros)
- combustible (ventas de nafta/gasoil)
- emae (actividad económica mensual)
- pbg (producto bruto geográfico)
- salarios (SMVM, RIPTE, índices salariales)
- supermercados (facturación)
- construccion (industria de la construcción, IERIC)

También debes extraer:
- **tema**: El tema principal de la lista anterior (o null si no aplica)
- **entidades**: Lugares mencionados (goya, corrientes, mercedes, buenos aires, etc.)
- **es_comparacion**: true si pide comparar ("comparar X con Y", "diferencia entre", "vs")

IMPORTANTE: Si el mensaje contiene saludo + pregunta (ej: "hola, qué es el IPC"), clasifica según la PREGUNTA, no el saludo.

Responde SOLO en formato JSON:
{
  "intencion": "categoria",
  "tema": "tema_principal o null",
  "entidades": ["lista", "de", "lugares"],
  "es_comparacion": false,
  "confianza": 0.95
}
`

// ChatClient is the slice of the failover chain the classifier needs.
type ChatClient interface {
	Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (failover.Outcome, error)
}

// Classifier labels user messages with a conversational intent. Results
// are cached per normalized message so repeated small talk does not spend
// model calls; when no model is reachable it falls back to keyword rules.
type Classifier struct {
	chat  ChatClient
	cache *gocache.Cache
}

func NewClassifier(chat ChatClient) *Classifier {
	return &Classifier{
		chat:  chat,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Classify returns the intent of the message. Never errors: any model or
// parse failure degrades to the rule-based classification.
func (c *Classifier) Classify(ctx context.Context, message string) Classification {
	if strings.TrimSpace(message) == "" {
		return defaultClassification(IntentGreeting)
	}

	cacheKey := strings.ToLower(strings.TrimSpace(message))
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(Classification)
	}

	if c.chat == nil {
		return c.basicClassify(message)
	}

	result, err := c.llmClassify(ctx, message)
	if err != nil {
		log.Printf("[INTENT] llm classification failed: %v", err)
		return c.basicClassify(message)
	}

	c.cache.Set(cacheKey, result, gocache.NoExpiration)
	return result
}

func (c *Classifier) llmClassify(ctx context.Context, message string) (Classification, error) {
	history := []llm.Message{
		{Role: "system", Content: classificationPrompt},
		{Role: "user", Content: message},
	}

	outcome, err := c.chat.Chat(ctx, history, llm.WithTemperature(0.1), llm.WithMaxTokens(200))
	if err != nil {
		return Classification{}, err
	}

	result, err := ParseClassification(outcome.Response)
	if err != nil {
		return Classification{}, err
	}

	log.Printf("[INTENT] classified as %s (provider %s)", result.Intent, outcome.Provider)
	return result, nil
}

// ParseClassification decodes the model answer, stripping a markdown code
// fence when present and filling defaults for missing fields.
func ParseClassification(response string) (Classification, error) {
	content := response
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	var raw struct {
		Intent       *string  `json:"intencion"`
		Topic        *string  `json:"tema"`
		Entities     []string `json:"entidades"`
		IsComparison *bool    `json:"es_comparacion"`
		Confidence   *float64 `json:"confianza"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return Classification{}, err
	}

	result := Classification{
		Intent:     IntentDataQuery,
		Confidence: 0.8,
		Entities:   raw.Entities,
	}
	if raw.Intent != nil {
		result.Intent = *raw.Intent
	}
	if raw.Topic != nil {
		result.Topic = *raw.Topic
	}
	if raw.IsComparison != nil {
		result.IsComparison = *raw.IsComparison
	}
	if raw.Confidence != nil {
		result.Confidence = *raw.Confidence
	}
	return result, nil
}

var basicDomainTopics = []string{
	"dolar", "dólar", "ipc", "inflacion", "inflación", "empleo", "censo",
	"poblacion", "población", "semaforo", "semáforo", "patentamiento",
	"patentamientos", "combustible", "pobreza", "eph", "ecv", "oede",
	"observatorio", "aeropuerto", "aeropuertos", "canasta", "salario",
	"salarios", "trabajo", "desempleo", "smvm", "ripte", "emae", "pbg",
	"supermercado", "supermercados", "construccion", "construcción", "ieric",
	"ipicorr", "actividad economica", "actividad económica",
}

func (c *Classifier) basicClassify(message string) Classification {
	msg := strings.ToLower(strings.TrimSpace(message))

	if containsAny(msg, []string{"hola", "buenos", "buenas", "hey", "hi"}) {
		return defaultClassification(IntentGreeting)
	}
	if containsAny(msg, []string{"gracias", "chau", "adios", "hasta"}) {
		return defaultClassification(IntentFarewell)
	}
	if containsAny(msg, []string{"ayuda", "help", "opciones", "que podes", "que puedes"}) {
		return defaultClassification(IntentHelp)
	}

	if containsAny(msg, []string{"que es", "qué es", "como funciona", "cómo funciona", "significa"}) {
		return Classification{
			Intent:     IntentConceptual,
			Topic:      ExtractTopic(msg),
			Confidence: 0.7,
		}
	}

	if containsAny(msg, basicDomainTopics) {
		return Classification{
			Intent:       IntentDataQuery,
			Topic:        ExtractTopic(msg),
			Entities:     ExtractEntities(msg),
			IsComparison: containsAny(msg, []string{"compar", "vs", "entre", " y "}),
			Confidence:   0.7,
		}
	}

	return defaultClassification(IntentOffTopic)
}

func defaultClassification(intent string) Classification {
	return Classification{Intent: intent, Confidence: 0.9}
}
