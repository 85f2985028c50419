package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/pkg/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestToolService(t *testing.T, stats *fakeStats) *ToolService {
	t.Helper()
	svc, err := NewToolService(stats, nopLogger{})
	require.NoError(t, err)
	return svc
}

func TestToolServiceRegistersAllTools(t *testing.T) {
	svc := newTestToolService(t, &fakeStats{})

	want := []string{
		"get_ipc",
		"get_dolar",
		"get_empleo",
		"get_semaforo",
		"get_canasta_basica",
		"get_ecv",
		"get_censo",
		"get_censo_departamentos",
		"get_combustible",
		"get_patentamientos",
		"get_aeropuertos",
		"get_oede",
		"get_pobreza",
		"get_emae",
		"get_pbg",
		"get_salarios",
		"get_supermercados",
		"get_construccion",
		"get_ipc_corrientes",
		"search_database",
	}
	assert.Equal(t, want, svc.Registry().ListAvailable())
}

func TestToolServiceAvailabilityFollowsWarehouse(t *testing.T) {
	assert.False(t, newTestToolService(t, &fakeStats{}).IsAvailable())
	assert.True(t, newTestToolService(t, &fakeStats{available: true}).IsAvailable())
}

func TestToolServiceExecuteUnknownTool(t *testing.T) {
	svc := newTestToolService(t, &fakeStats{})

	_, err := svc.Execute(context.Background(), "get_nada", nil)
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
}

func TestToolServiceExecuteWrapsHandlerError(t *testing.T) {
	svc := newTestToolService(t, &fakeStats{err: errors.New("db down")})

	_, err := svc.Execute(context.Background(), "get_ipc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get_ipc")
	assert.Contains(t, err.Error(), "db down")
}

func TestHandleIPC(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		svc := newTestToolService(t, &fakeStats{})
		out, err := svc.Execute(context.Background(), "get_ipc", nil)
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron datos del IPC para los criterios especificados.", out)
	})

	t.Run("groups rows by region", func(t *testing.T) {
		stats := &fakeStats{ipc: []entity.StatRecord{
			statRec(map[string]any{
				"Fecha": "2024-03-05", "Region": "GBA", "Categoria": "Nivel General",
				"variacion_mensual": 4.25, "variacion_interanual": 87.5,
			}),
			statRec(map[string]any{
				"Fecha": "2024-03-05", "Region": "GBA", "Categoria": "Alimentos",
				"variacion_mensual": 5.1, "variacion_interanual": 90.2,
			}),
			statRec(map[string]any{
				"Fecha": "2024-03-05", "Region": "NEA", "Categoria": "Nivel General",
				"variacion_mensual": 4.8, "variacion_interanual": 88.0,
			}),
		}}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_ipc", nil)
		require.NoError(t, err)

		assert.Contains(t, out, "## 📊 Índice de Precios al Consumidor - 05/03/2024")
		assert.Equal(t, 1, strings.Count(out, "### 🌍 GBA"))
		assert.Equal(t, 1, strings.Count(out, "### 🌍 NEA"))
		assert.Contains(t, out, "- **Nivel General**: 4.25% mensual | 87.50% interanual")
		assert.Contains(t, out, "- **Alimentos**: 5.10% mensual | 90.20% interanual")
	})
}

func TestHandleDolar(t *testing.T) {
	t.Run("defaults to blue", func(t *testing.T) {
		stats := &fakeStats{}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_dolar", nil)
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron datos del dólar blue.", out)
		assert.Equal(t, "blue", stats.lastDolarTipo)
	})

	t.Run("compra venta rows", func(t *testing.T) {
		stats := &fakeStats{dolar: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "compra": 1185.0, "venta": 1205.0}),
		}}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_dolar", map[string]string{"tipo": "blue"})
		require.NoError(t, err)
		assert.Contains(t, out, "## 💵 Cotización Dólar BLUE")
		assert.Contains(t, out, "**05/03/2024**: Compra $1,185 | Venta $1,205")
	})

	t.Run("single value rows", func(t *testing.T) {
		stats := &fakeStats{dolar: []entity.StatRecord{
			statRec(map[string]any{"fecha": "2024-03-05", "valor": 1250.0}),
		}}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_dolar", map[string]string{"tipo": "oficial"})
		require.NoError(t, err)
		assert.Contains(t, out, "## 💵 Cotización Dólar OFICIAL")
		assert.Contains(t, out, "**05/03/2024**: $1,250")
	})
}

func TestHandleEmpleoSelectsDataset(t *testing.T) {
	t.Run("eph by default", func(t *testing.T) {
		svc := newTestToolService(t, &fakeStats{})
		out, err := svc.Execute(context.Background(), "get_empleo", nil)
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron datos de empleo EPH.", out)
	})

	t.Run("sipa on request", func(t *testing.T) {
		svc := newTestToolService(t, &fakeStats{})
		out, err := svc.Execute(context.Background(), "get_empleo", map[string]string{"tipo": "SIPA"})
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron datos de empleo SIPA.", out)
	})

	t.Run("eph rates shown as percentages", func(t *testing.T) {
		stats := &fakeStats{empleoEPH: []entity.StatRecord{
			statRec(map[string]any{
				"Aglomerado": "Corrientes", "Año": 2024, "Trimestre": "T1",
				"Tasa de Actividad": 0.45, "Tasa de Empleo": 0.42, "Tasa de desocupación": 0.072,
			}),
		}}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_empleo", nil)
		require.NoError(t, err)
		assert.Contains(t, out, "### 📍 Corrientes")
		assert.Contains(t, out, "- Tasa de Actividad: 45.0%")
		assert.Contains(t, out, "- Tasa de Desocupación: 7.2%")
	})
}

func TestHandleSemaforo(t *testing.T) {
	t.Run("no record", func(t *testing.T) {
		stats := &fakeStats{}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_semaforo", nil)
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron datos del semáforo interanual.", out)
		assert.Equal(t, "interanual", stats.lastSemaforoTipo)
	})

	t.Run("colors follow the sign", func(t *testing.T) {
		record := statRec(map[string]any{
			"fecha":                  "2024-03-01",
			"combustible_vendido":    3.2,
			"patentamiento_0km_auto": -5.4,
			"ipicorr":                0,
		})
		stats := &fakeStats{semaforo: &record}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "get_semaforo", map[string]string{"tipo": "mensual"})
		require.NoError(t, err)

		assert.Contains(t, out, "## 🚦 Semáforo Económico - Variación Mensual (01/03/2024)")
		assert.Contains(t, out, "🟢 **⛽ Combustible vendido**: 3.20%")
		assert.Contains(t, out, "🔴 **🚗 Patentamiento autos 0km**: -5.40%")
		assert.Contains(t, out, "🟡 **🏭 IPI Corrientes**: 0%")
		// Indicators missing from the row stay out of the output.
		assert.NotContains(t, out, "Pasajeros terminal")
	})
}

func TestHandleCensoDepartamentos(t *testing.T) {
	stats := &fakeStats{censoDeptos: []entity.StatRecord{
		statRec(map[string]any{"departamento": "Capital", "pob_2010": 100000.0, "pob_2022": 125000.0}),
		statRec(map[string]any{"departamento": "Goya", "pob_2010": 200000.0, "pob_2022": 190000.0}),
		statRec(map[string]any{"departamento": "Nuevo", "pob_2010": 0.0, "pob_2022": 5000.0}),
	}}
	svc := newTestToolService(t, stats)

	out, err := svc.Execute(context.Background(), "get_censo_departamentos", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "| Capital | 100,000 | 125,000 | +25.0% |")
	assert.Contains(t, out, "| Goya | 200,000 | 190,000 | -5.0% |")
	// Without a 2010 baseline there is no variation to compute.
	assert.Contains(t, out, "| Nuevo | 0.00 | 5,000 | N/A |")
}

func TestHandleSearchDatabase(t *testing.T) {
	t.Run("no hits", func(t *testing.T) {
		svc := newTestToolService(t, &fakeStats{})
		out, err := svc.Execute(context.Background(), "search_database", map[string]string{"query": "soja"})
		require.NoError(t, err)
		assert.Equal(t, "No se encontraron resultados para 'soja'.", out)
	})

	t.Run("caps results and columns", func(t *testing.T) {
		var hits []entity.StatRecord
		for i := 0; i < 12; i++ {
			hits = append(hits, statRec(map[string]any{
				"c1": i + 1, "c2": "x", "c3": "x", "c4": "x", "c5": "x", "c6": "oculto",
			}, "c1", "c2", "c3", "c4", "c5", "c6"))
		}
		stats := &fakeStats{dbSearchHits: hits}
		svc := newTestToolService(t, stats)

		out, err := svc.Execute(context.Background(), "search_database", map[string]string{
			"query": "soja", "database": "datalake_economico",
		})
		require.NoError(t, err)

		assert.Contains(t, out, "## 🔍 Resultados de búsqueda: 'soja'")
		assert.Contains(t, out, "Se encontraron 12 resultados.")
		assert.Contains(t, out, "### Resultado 10")
		assert.NotContains(t, out, "### Resultado 11")
		assert.NotContains(t, out, "c6")
		assert.Equal(t, "datalake_economico", stats.lastSearchDB)
	})
}

func TestToolHelpers(t *testing.T) {
	assert.Equal(t, "41.5", asRate(0.415))
	assert.Equal(t, "50.0", asRate(0.5))
	assert.Equal(t, "0.0", asRate(nil))

	assert.Equal(t, 12.5, toFloat("12.5"))
	assert.Equal(t, 7.0, toFloat(7))
	assert.Equal(t, 0.0, toFloat(struct{}{}))

	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 5))

	assert.Equal(t, "N/A", cell(nil))
	assert.Equal(t, "N/A", cell("   "))
	assert.Equal(t, "5", cell(5))
	assert.Equal(t, "Goya", cell(" Goya "))
}

func TestHandleConstruccionEmptyMessages(t *testing.T) {
	stats := &fakeStats{}
	svc := newTestToolService(t, stats)

	out, err := svc.Execute(context.Background(), "get_construccion", map[string]string{"tipo": "ingresos"})
	require.NoError(t, err)
	assert.Equal(t, "No se encontraron datos de ingresos en construcción.", out)

	out, err = svc.Execute(context.Background(), "get_construccion", nil)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("No se encontraron datos de %s.", "puestos de trabajo en construcción"), out)
}
