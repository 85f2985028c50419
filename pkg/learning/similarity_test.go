package learning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"accents and punctuation", "  ¿Qué es el IPC?  ", "que es el ipc"},
		{"whitespace collapsed", "valor   del\tdolar", "valor del dolar"},
		{"already normalized", "poblacion de goya", "poblacion de goya"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		once := Normalize("¿Cuál es la inflación?")
		assert.Equal(t, once, Normalize(once))
	})

	t.Run("length bounded", func(t *testing.T) {
		long := strings.Repeat("a ", 600)
		assert.LessOrEqual(t, len([]rune(Normalize(long))), 500)
	})
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "cual_inflacion_corrientes", GenerateKey("¿Cuál es la inflación de Corrientes?"))
	// Only the first five qualifying words make it into the key.
	assert.Equal(t, "uno_dos_tres_cuatro_cinco", GenerateKey("uno dos tres cuatro cinco seis siete"))
	assert.Equal(t, "unknown", GenerateKey("a e o"))
	assert.Equal(t, "unknown", GenerateKey(""))
}

func TestSequenceRatio(t *testing.T) {
	assert.Equal(t, 1.0, sequenceRatio("abc", "abc"))
	assert.Equal(t, 1.0, sequenceRatio("", ""))
	assert.Equal(t, 0.0, sequenceRatio("abc", ""))
	// "bcd" is the longest shared block: 2*3/(4+4).
	assert.InDelta(t, 0.75, sequenceRatio("abcd", "bcde"), 0.001)
}

func TestSimilarity(t *testing.T) {
	w := DefaultWeights()

	t.Run("identical questions", func(t *testing.T) {
		assert.InDelta(t, 1.0, Similarity("que es el ipc", "que es el ipc", w), 0.001)
	})

	t.Run("paraphrase with same indicator", func(t *testing.T) {
		got := Similarity("cual es el valor del ipc", "valor del ipc", w)
		assert.Greater(t, got, 0.8)
	})

	t.Run("different indicators never match", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("ultimo valor del ipc", "ultimo valor del dolar", w))
	})

	t.Run("indicator on one side caps the score", func(t *testing.T) {
		assert.Equal(t, 0.3, Similarity("ultimo valor del ipc", "ultimo valor registrado", w))
	})

	t.Run("unrelated questions score low", func(t *testing.T) {
		got := Similarity("hola como estas", "poblacion de goya", w)
		assert.Less(t, got, 0.3)
	})
}
