package service

import (
	"testing"
	"time"

	"ipecd-chatbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil shows sin datos", nil, "s/d"},
		{"small float keeps decimals", 4.25, "4.25"},
		{"negative small float", -12.5, "-12.50"},
		{"large float gets separators", 1234567.0, "1,234,567"},
		{"boundary float", 99.999, "100.00"},
		{"int passes through", 42, "42"},
		{"int64 passes through", int64(9000), "9000"},
		{"numeric string reparsed", "1234.5", "1,235"},
		{"plain string untouched", "Corrientes", "Corrientes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(tt.value))
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"small float trims zeros", 4.50, "4.5"},
		{"small float trims dot", 4.00, "4"},
		{"large float dot separators", 1234567.0, "1.234.567"},
		{"int dot separators", 2500000, "2.500.000"},
		{"small int no separator", 999, "999"},
		{"string untouched", "Goya", "Goya"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1.234.567", groupThousands(1234567, '.'))
	assert.Equal(t, "1,234,567", groupThousands(1234567, ','))
	assert.Equal(t, "-12.345", groupThousands(-12345, '.'))
	assert.Equal(t, "999", groupThousands(999, '.'))
	assert.Equal(t, "0", groupThousands(0, '.'))
}

func TestFormatDate(t *testing.T) {
	march := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  any
		format string
		want   string
	}{
		{"nil", nil, dateFull, "s/d"},
		{"time full", march, dateFull, "05/03/2024"},
		{"time month year", march, dateMonthYear, "Marzo 2024"},
		{"time short", march, dateShort, "05/03/24"},
		{"iso string full", "2024-03-05", dateFull, "05/03/2024"},
		{"iso string month year", "2024-12-01", dateMonthYear, "Diciembre 2024"},
		{"iso string short", "2024-03-05T00:00:00Z", dateShort, "05/03/24"},
		{"non-date string", "pendiente", dateFull, "pendiente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.value, tt.format))
		})
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"fecha", "Fecha"},
		{"FECHA", "Fecha"},
		{"tasa_desempleo", "Tasa de Desempleo"},
		{"poblacion_viv_part_2022", "Población 2022"},
		// Partial match: the column contains a known key.
		{"fecha_publicacion", "Fecha"},
		// Unknown columns drop prefixes and get title case.
		{"total_algo_nuevo", "Algo Nuevo"},
		{"cod_registro_interno", "Registro Interno"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, friendlyName(tt.field))
		})
	}
}

func TestFormatRecords(t *testing.T) {
	record := func(cols []string, values map[string]any) entity.StatRecord {
		return entity.StatRecord{Columns: cols, Values: values}
	}

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", formatRecords(nil, 10))
	})

	t.Run("skips empty values", func(t *testing.T) {
		out := formatRecords([]entity.StatRecord{
			record([]string{"fecha", "valor", "vacio", "nulo"}, map[string]any{
				"fecha": "2024-03-05",
				"valor": 4.5,
				"vacio": "",
				"nulo":  nil,
			}),
		}, 10)
		assert.Contains(t, out, "**Fecha**: 2024-03-05")
		assert.Contains(t, out, "**Valor**: 4.5")
		assert.NotContains(t, out, "Vacio")
		assert.NotContains(t, out, "Nulo")
	})

	t.Run("caps records and reports remainder", func(t *testing.T) {
		var records []entity.StatRecord
		for i := 0; i < 12; i++ {
			records = append(records, record([]string{"valor"}, map[string]any{"valor": i + 1}))
		}
		out := formatRecords(records, 10)
		assert.Contains(t, out, "_... y 2 registros más disponibles._")
	})

	t.Run("only first eight columns", func(t *testing.T) {
		cols := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"}
		values := map[string]any{}
		for _, c := range cols {
			values[c] = 1
		}
		out := formatRecords([]entity.StatRecord{record(cols, values)}, 10)
		assert.NotContains(t, out, "C9")
	})
}
