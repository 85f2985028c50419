package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDomainRelevant(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"inflation question", "cual es la inflacion", true},
		{"census with accents", "población de Goya", true},
		{"salary acronym", "cuanto esta el smvm", true},
		{"off topic", "receta de cocina facil", false},
		{"health topic", "turnos en el hospital", false},
		{"generic words alone", "dame los datos", false},
		{"specific indicator overrides off-domain word", "poblacion afectada por covid", true},
		{"nothing statistical", "hola como estas", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDomainRelevant(tt.query))
		})
	}
}

func TestIsConceptualQuestion(t *testing.T) {
	assert.True(t, IsConceptualQuestion("que es el ipc"))
	assert.True(t, IsConceptualQuestion("como se calcula la inflacion"))
	assert.True(t, IsConceptualQuestion("para que sirve el semaforo economico"))
	assert.False(t, IsConceptualQuestion("dame el dolar blue"))
	assert.False(t, IsConceptualQuestion("ultimo valor del ipc"))
	// A bare topic is ambiguous, not conceptual.
	assert.False(t, IsConceptualQuestion("ipc"))
}

func TestClassifyQuestion(t *testing.T) {
	kind, confidence := ClassifyQuestion("que significa el emae")
	assert.Equal(t, KindConceptual, kind)
	assert.GreaterOrEqual(t, confidence, 0.4)

	kind, _ = ClassifyQuestion("dame el valor actual del dolar")
	assert.Equal(t, KindData, kind)

	kind, confidence = ClassifyQuestion("buenas tardes")
	assert.Equal(t, KindAmbiguous, kind)
	assert.Equal(t, 0.5, confidence)
}

func TestIsComplexQuery(t *testing.T) {
	assert.True(t, IsComplexQuery("comparar poblacion de goya y corrientes"))
	assert.True(t, IsComplexQuery("cuantos habitantes tiene goya"))
	assert.True(t, IsComplexQuery("dame el dolar blue"))
	// Direct phrasing without a statistical indicator stays simple.
	assert.False(t, IsComplexQuery("dame el menu principal"))
	assert.False(t, IsComplexQuery("hola"))
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"dame el dolar blue", "dolar"},
		{"cual es la inflacion", "ipc"},
		{"inflacion corrientes del mes", "ipc_corrientes"},
		{"cuantos habitantes tiene goya", "censo"},
		{"tasa de desempleo", "empleo"},
		{"cuanto sale la nafta", "combustible"},
		{"clima en corrientes", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTopic(tt.message))
		})
	}
}

func TestExtractEntities(t *testing.T) {
	assert.Equal(t, []string{"goya", "corrientes"}, ExtractEntities("comparar Goya y Corrientes"))
	assert.Equal(t, []string{"caba"}, ExtractEntities("datos de caba"))
	assert.Empty(t, ExtractEntities("dame el dolar blue"))
}

func TestStripQuestionWords(t *testing.T) {
	assert.Equal(t, "ipc", StripQuestionWords("que es el ipc?"))
	assert.Equal(t, "semaforo economico", StripQuestionWords("para que sirve el semáforo económico"))
	assert.Equal(t, "inflacion", StripQuestionWords("inflación"))
}

func TestDetectCategory(t *testing.T) {
	assert.Equal(t, "dolar", DetectCategory("cotización del dólar blue"))
	assert.Equal(t, "precios", DetectCategory("cuál es la inflación del IPC"))
	assert.Equal(t, "censo", DetectCategory("población por municipio"))
	assert.Equal(t, "", DetectCategory("nada relacionado"))
}

func TestShouldResetContext(t *testing.T) {
	assert.True(t, ShouldResetContext("dolar", "dolar", true))
	assert.True(t, ShouldResetContext("dolar", "censo", false))
	assert.True(t, ShouldResetContext("dolar", "general", false))
	assert.False(t, ShouldResetContext("dolar", "dolar", false))
	assert.False(t, ShouldResetContext("", "dolar", false))
}

func TestBuildDatabaseQuery(t *testing.T) {
	assert.Equal(t, "dolar", BuildDatabaseQuery("ultimo", "ultimo valor dolar"))
	assert.Equal(t, "de inflacion", BuildDatabaseQuery("ultimo", "ultimo valor de inflacion"))
	// Nothing left after stripping falls back to the original text.
	assert.Equal(t, "ultimo valor", BuildDatabaseQuery("ultimo", "ultimo valor"))
	assert.Equal(t, "de ipc", BuildDatabaseQuery("promedio", "promedio de ipc"))
	assert.Equal(t, "texto libre", BuildDatabaseQuery("", "texto libre"))
}
