package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without a chat client the classifier runs on keyword rules alone.
func TestClassifierRuleFallback(t *testing.T) {
	classifier := NewClassifier(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"empty message greets", "", IntentGreeting},
		{"greeting", "hola", IntentGreeting},
		{"farewell", "muchas gracias", IntentFarewell},
		{"help", "que opciones tengo", IntentHelp},
		{"conceptual", "que es el ipc", IntentConceptual},
		{"data query", "dame el dolar blue", IntentDataQuery},
		{"off topic", "receta de milanesas", IntentOffTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(ctx, tt.message)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestClassifierExtractsTopicAndEntities(t *testing.T) {
	classifier := NewClassifier(nil)

	got := classifier.Classify(context.Background(), "comparar poblacion de goya y corrientes")
	assert.Equal(t, IntentDataQuery, got.Intent)
	assert.Equal(t, "censo", got.Topic)
	assert.Equal(t, []string{"goya", "corrientes"}, got.Entities)
	assert.True(t, got.IsComparison)
}

func TestParseClassification(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		got, err := ParseClassification(`{"intencion": "saludo", "confianza": 0.95}`)
		require.NoError(t, err)
		assert.Equal(t, IntentGreeting, got.Intent)
		assert.Equal(t, 0.95, got.Confidence)
	})

	t.Run("fenced json", func(t *testing.T) {
		response := "```json\n{\"intencion\": \"consulta_datos\", \"tema\": \"dolar\", \"entidades\": [\"goya\"]}\n```"
		got, err := ParseClassification(response)
		require.NoError(t, err)
		assert.Equal(t, IntentDataQuery, got.Intent)
		assert.Equal(t, "dolar", got.Topic)
		assert.Equal(t, []string{"goya"}, got.Entities)
	})

	t.Run("missing fields fill defaults", func(t *testing.T) {
		got, err := ParseClassification(`{}`)
		require.NoError(t, err)
		assert.Equal(t, IntentDataQuery, got.Intent)
		assert.Equal(t, 0.8, got.Confidence)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseClassification("no soy json")
		assert.Error(t, err)
	})
}
