package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ipecd-chatbot-be/internal/entity"
)

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatNumber renders a value for tool output. Missing values show as
// "s/d" (sin datos), small floats keep two decimals and large ones get
// thousands separators.
func formatNumber(value any) string {
	if value == nil {
		return "s/d"
	}
	switch v := value.(type) {
	case float64:
		if math.Abs(v) < 100 {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
		return groupThousands(int64(math.Round(v)), ',')
	case float32:
		return formatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && strings.ContainsAny(v, ".eE") {
			return formatNumber(f)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatValue renders a value for the memory/search result blocks.
// Unlike formatNumber it uses the Argentine dot as thousands separator
// and trims trailing zeros from small floats.
func formatValue(value any) string {
	switch v := value.(type) {
	case float64:
		if math.Abs(v) < 1000 {
			s := strconv.FormatFloat(v, 'f', 2, 64)
			s = strings.TrimRight(s, "0")
			return strings.TrimRight(s, ".")
		}
		return groupThousands(int64(math.Round(v)), '.')
	case float32:
		return formatValue(float64(v))
	case int:
		return groupThousands(int64(v), '.')
	case int64:
		return groupThousands(v, '.')
	default:
		return fmt.Sprintf("%v", v)
	}
}

func groupThousands(n int64, sep byte) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

const (
	dateFull      = "full"
	dateMonthYear = "month_year"
	dateShort     = "short"
)

// formatDate renders dates in Spanish. The warehouse driver hands dates
// back as strings, but time.Time still shows up when parseTime kicks in.
func formatDate(value any, format string) string {
	if value == nil {
		return "s/d"
	}
	if t, ok := value.(time.Time); ok {
		switch format {
		case dateMonthYear:
			return capitalize(spanishMonths[t.Month()-1]) + " " + strconv.Itoa(t.Year())
		case dateShort:
			return fmt.Sprintf("%02d/%02d/%s", t.Day(), int(t.Month()), strconv.Itoa(t.Year())[2:])
		default:
			return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
		}
	}

	s := fmt.Sprintf("%v", value)
	if strings.Contains(s, "-") && len(s) >= 10 {
		parts := strings.Split(s[:10], "-")
		if len(parts) == 3 {
			year, month, day := parts[0], parts[1], parts[2]
			if m, err := strconv.Atoi(month); err == nil && m >= 1 && m <= 12 {
				switch format {
				case dateMonthYear:
					return capitalize(spanishMonths[m-1]) + " " + year
				case dateShort:
					return day + "/" + month + "/" + year[2:]
				default:
					return day + "/" + month + "/" + year
				}
			}
		}
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// fieldFriendlyNames maps warehouse column names to what the user
// should read. Order matters for the partial-match pass.
var fieldFriendlyNames = []struct {
	key   string
	label string
}{
	{"codigo", "Código"},
	{"fecha", "Fecha"},
	{"año", "Año"},
	{"ano", "Año"},
	{"mes", "Mes"},
	{"trimestre", "Trimestre"},
	{"provincia", "Provincia"},
	{"departamento", "Departamento"},
	{"municipio", "Municipio"},
	{"region", "Región"},
	{"aglomerado", "Aglomerado"},
	{"total_vivienda", "Total de Viviendas"},
	{"total_viviendas", "Total de Viviendas"},
	{"total_poblacion", "Total de Población"},
	{"con_internet", "Con Internet"},
	{"sin_internet", "Sin Internet"},
	{"red_publica", "Red Pública"},
	{"obra_social_prepaga_pami", "Obra Social/Prepaga/PAMI"},
	{"electricidad", "Electricidad"},
	{"gas_red", "Gas por Red"},
	{"gas_garrafa", "Gas en Garrafa"},
	{"valor", "Valor"},
	{"precio", "Precio"},
	{"cantidad", "Cantidad"},
	{"producto", "Producto"},
	{"aeropuerto", "Aeropuerto"},
	{"patentamiento_0km_auto", "Patentamiento Autos 0km"},
	{"patentamiento_0km_motocicleta", "Patentamiento Motos 0km"},
	{"combustible_vendido", "Combustible Vendido"},
	{"pasajeros_salidos_terminal_corrientes", "Pasajeros Terminal Corrientes"},
	{"pasajeros_aeropuerto_corrientes", "Pasajeros Aeropuerto Corrientes"},
	{"exportaciones_aduana_corrientes_dolares", "Exportaciones (USD)"},
	{"exportaciones_aduana_corrientes_toneladas", "Exportaciones (Toneladas)"},
	{"variacion_mensual", "Variación Mensual"},
	{"variacion_interanual", "Variación Interanual"},
	{"variacion_relativa", "Variación Relativa"},
	{"pbg", "Producto Bruto Geográfico"},
	{"pbi", "Producto Bruto Interno"},
	{"inflacion", "Inflación"},
	{"ipc", "Índice de Precios al Consumidor"},
	{"tasa_desempleo", "Tasa de Desempleo"},
	{"tasa_actividad", "Tasa de Actividad"},
	{"tasa_empleo", "Tasa de Empleo"},
	{"poblacion_2010", "Población 2010"},
	{"poblacion_2022", "Población 2022"},
	{"poblacion_viv_part_2010", "Población 2010"},
	{"poblacion_viv_part_2022", "Población 2022"},
	{"var_abs_poblacion_2010_vs_2022", "Variación Absoluta 2010-2022"},
	{"peso_relativo_2022", "Peso Relativo 2022"},
	{"acceso_internet", "Acceso a Internet"},
	{"division_geo", "División Geográfica"},
}

var friendlyPrefixes = []string{"id_", "cod_", "num_", "total_", "cant_", "var_", "p_"}

// friendlyName translates a column name into a user-facing label,
// falling back to a cleaned-up title of the raw name.
func friendlyName(field string) string {
	lower := strings.ToLower(strings.TrimSpace(field))

	for _, f := range fieldFriendlyNames {
		if f.key == lower {
			return f.label
		}
	}
	for _, f := range fieldFriendlyNames {
		if strings.Contains(lower, f.key) || strings.Contains(f.key, lower) {
			return f.label
		}
	}

	clean := lower
	for _, prefix := range friendlyPrefixes {
		if strings.HasPrefix(clean, prefix) {
			clean = clean[len(prefix):]
			break
		}
	}
	return titleWords(strings.ReplaceAll(clean, "_", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// formatRecords turns warehouse rows into the friendly block that gets
// fed to the LLM and stored in the learning memory. Only the first
// eight columns of each row make it in.
func formatRecords(records []entity.StatRecord, maxRecords int) string {
	if len(records) == 0 {
		return ""
	}
	if maxRecords <= 0 {
		maxRecords = 10
	}

	var entries []string
	shown := records
	if len(shown) > maxRecords {
		shown = shown[:maxRecords]
	}

	for _, record := range shown {
		var lines []string
		cols := record.Columns
		if len(cols) > 8 {
			cols = cols[:8]
		}
		for _, col := range cols {
			value := record.Values[col]
			if value == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", value))
			if text == "" || text == "None" {
				continue
			}
			lines = append(lines, fmt.Sprintf("**%s**: %s", friendlyName(col), formatValue(value)))
		}
		if len(lines) > 0 {
			entries = append(entries, strings.Join(lines, "\n"))
		}
	}

	result := strings.Join(entries, "\n\n")
	if len(records) > maxRecords {
		result += fmt.Sprintf("\n\n_... y %d registros más disponibles._", len(records)-maxRecords)
	}
	return result
}
