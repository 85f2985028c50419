package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/tools"
)

// ToolService registers every data tool against the warehouse
// repository and owns the registry the router and the menu execute
// through.
type ToolService struct {
	registry *tools.Registry
	stats    contract.StatisticsRepository
	log      logger.ILogger
}

func NewToolService(stats contract.StatisticsRepository, log logger.ILogger) (*ToolService, error) {
	s := &ToolService{
		registry: tools.NewRegistry(),
		stats:    stats,
		log:      log,
	}
	if err := s.registerAll(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ToolService) Registry() *tools.Registry {
	return s.registry
}

// Execute satisfies the router's executor contract.
func (s *ToolService) Execute(ctx context.Context, tool string, params map[string]string) (string, error) {
	result, err := s.registry.Execute(ctx, tool, params)
	if err != nil {
		s.log.Error("TOOL", "tool execution failed", map[string]interface{}{
			"tool":  tool,
			"error": err.Error(),
		})
		return "", err
	}
	s.log.Info("TOOL", "tool executed", map[string]interface{}{
		"tool": tool,
	})
	return result, nil
}

func (s *ToolService) IsAvailable() bool {
	return s.stats.Available()
}

func (s *ToolService) registerAll() error {
	handlers := []struct {
		name    string
		handler tools.Handler
	}{
		{"get_ipc", s.handleIPC},
		{"get_dolar", s.handleDolar},
		{"get_empleo", s.handleEmpleo},
		{"get_semaforo", s.handleSemaforo},
		{"get_canasta_basica", s.handleCanastaBasica},
		{"get_ecv", s.handleECV},
		{"get_censo", s.handleCenso},
		{"get_censo_departamentos", s.handleCensoDepartamentos},
		{"get_combustible", s.handleCombustible},
		{"get_patentamientos", s.handlePatentamientos},
		{"get_aeropuertos", s.handleAeropuertos},
		{"get_oede", s.handleOEDE},
		{"get_pobreza", s.handlePobreza},
		{"get_emae", s.handleEMAE},
		{"get_pbg", s.handlePBG},
		{"get_salarios", s.handleSalarios},
		{"get_supermercados", s.handleSupermercados},
		{"get_construccion", s.handleConstruccion},
		{"get_ipc_corrientes", s.handleIPCCorrientes},
		{"search_database", s.handleSearchDatabase},
	}
	for _, h := range handlers {
		if err := s.registry.Register(h.name, h.handler); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// asRate renders a stored decimal rate (0.41) as a percentage (41.0).
func asRate(value any) string {
	return strconv.FormatFloat(toFloat(value)*100, 'f', 1, 64)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func cell(value any) string {
	if value == nil {
		return "N/A"
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", value))
	if text == "" {
		return "N/A"
	}
	return text
}

func (s *ToolService) handleIPC(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.IPC(ctx, args["fecha"], args["region"], args["categoria"])
	if err != nil {
		return "", fmt.Errorf("get_ipc: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del IPC para los criterios especificados.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 📊 Índice de Precios al Consumidor - %s\n\n", formatDate(records[0].Get("Fecha"), dateFull))

	currentRegion := ""
	for _, row := range records {
		region := cell(row.Get("Region"))
		if region != currentRegion {
			currentRegion = region
			fmt.Fprintf(&b, "\n### 🌍 %s\n", region)
		}
		fmt.Fprintf(&b, "- **%s**: %s%% mensual | %s%% interanual\n",
			cell(row.Get("Categoria")),
			formatNumber(row.Get("variacion_mensual")),
			formatNumber(row.Get("variacion_interanual")))
	}
	return b.String(), nil
}

func (s *ToolService) handleDolar(ctx context.Context, args map[string]string) (string, error) {
	tipo := args["tipo"]
	if tipo == "" {
		tipo = "blue"
	}
	records, err := s.stats.Dolar(ctx, tipo, args["fecha"])
	if err != nil {
		return "", fmt.Errorf("get_dolar: %w", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("No se encontraron datos del dólar %s.", tipo), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 💵 Cotización Dólar %s\n\n", strings.ToUpper(tipo))

	for _, row := range records {
		fecha := formatDate(row.Get("fecha"), dateFull)
		_, hasCompra := row.Values["compra"]
		_, hasVenta := row.Values["venta"]
		if hasCompra && hasVenta {
			fmt.Fprintf(&b, "**%s**: Compra $%s | Venta $%s\n",
				fecha, formatNumber(row.Get("compra")), formatNumber(row.Get("venta")))
		} else if _, ok := row.Values["valor"]; ok {
			fmt.Fprintf(&b, "**%s**: $%s\n", fecha, formatNumber(row.Get("valor")))
		}
	}
	return b.String(), nil
}

func (s *ToolService) handleEmpleo(ctx context.Context, args map[string]string) (string, error) {
	if strings.EqualFold(args["tipo"], "sipa") {
		return s.empleoSIPA(ctx, args["provincia"])
	}
	return s.empleoEPH(ctx, args["provincia"])
}

func (s *ToolService) empleoEPH(ctx context.Context, provincia string) (string, error) {
	records, err := s.stats.EmpleoEPH(ctx, provincia)
	if err != nil {
		return "", fmt.Errorf("get_empleo eph: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de empleo EPH.", nil
	}

	var b strings.Builder
	b.WriteString("## 👔 Tasas de Empleo y Desempleo (EPH)\n\n")

	currentAglomerado := ""
	for _, row := range records {
		aglomerado := cell(row.Get("Aglomerado"))
		if aglomerado != currentAglomerado {
			currentAglomerado = aglomerado
			fmt.Fprintf(&b, "\n### 📍 %s\n", aglomerado)
		}
		fmt.Fprintf(&b, "**%s - %s**:\n", cell(row.Get("Año")), cell(row.Get("Trimestre")))
		fmt.Fprintf(&b, "  - Tasa de Actividad: %s%%\n", asRate(row.Get("Tasa de Actividad")))
		fmt.Fprintf(&b, "  - Tasa de Empleo: %s%%\n", asRate(row.Get("Tasa de Empleo")))
		fmt.Fprintf(&b, "  - Tasa de Desocupación: %s%%\n", asRate(row.Get("Tasa de desocupación")))
	}
	return b.String(), nil
}

func (s *ToolService) empleoSIPA(ctx context.Context, provincia string) (string, error) {
	records, err := s.stats.EmpleoSIPA(ctx, provincia)
	if err != nil {
		return "", fmt.Errorf("get_empleo sipa: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de empleo SIPA.", nil
	}

	var b strings.Builder
	b.WriteString("## 👔 Empleo Registrado (SIPA)\n\n")
	for _, row := range records {
		fmt.Fprintf(&b, "**%s - %s**\n", formatDate(row.Get("fecha"), dateFull), cell(row.Get("provincia")))
		fmt.Fprintf(&b, "  - Tipo: %s\n", cell(row.Get("tipo")))
		fmt.Fprintf(&b, "  - Cantidad: %s\n", formatNumber(row.Get("cantidad_con_estacionalidad")))
	}
	return b.String(), nil
}

// semaforoIndicators keeps the dashboard ordering stable.
var semaforoIndicators = []struct {
	key   string
	label string
}{
	{"combustible_vendido", "⛽ Combustible vendido"},
	{"patentamiento_0km_auto", "🚗 Patentamiento autos 0km"},
	{"patentamiento_0km_motocicleta", "🏍️ Patentamiento motos 0km"},
	{"pasajeros_salidos_terminal_corrientes", "🚌 Pasajeros terminal"},
	{"pasajeros_aeropuerto_corrientes", "✈️ Pasajeros aeropuerto"},
	{"venta_supermercados_autoservicios_mayoristas", "🛒 Ventas supermercados"},
	{"exportaciones_aduana_corrientes_dolares", "📦 Exportaciones (USD)"},
	{"empleo_privado_registrado_sipa", "👔 Empleo privado SIPA"},
	{"ipicorr", "🏭 IPI Corrientes"},
}

func (s *ToolService) handleSemaforo(ctx context.Context, args map[string]string) (string, error) {
	tipo := strings.ToLower(args["tipo"])
	if tipo == "" {
		tipo = "interanual"
	}
	record, err := s.stats.Semaforo(ctx, tipo)
	if err != nil {
		return "", fmt.Errorf("get_semaforo: %w", err)
	}
	if record == nil {
		return fmt.Sprintf("No se encontraron datos del semáforo %s.", tipo), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 🚦 Semáforo Económico - Variación %s (%s)\n\n",
		capitalize(tipo), formatDate(record.Get("fecha"), dateFull))

	for _, ind := range semaforoIndicators {
		value, ok := record.Values[ind.key]
		if !ok || value == nil {
			continue
		}
		emoji := "🟡"
		if toFloat(value) > 0 {
			emoji = "🟢"
		} else if toFloat(value) < 0 {
			emoji = "🔴"
		}
		fmt.Fprintf(&b, "%s **%s**: %s%%\n", emoji, ind.label, formatNumber(value))
	}
	return b.String(), nil
}

func (s *ToolService) handleCanastaBasica(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.CanastaBasica(ctx)
	if err != nil {
		return "", fmt.Errorf("get_canasta_basica: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de la canasta básica.", nil
	}

	ultimo := records[0]
	var b strings.Builder
	fmt.Fprintf(&b, "## 🛒 Canasta Básica - %s\n\n", formatDate(ultimo.Get("fecha"), dateFull))

	b.WriteString("### Valores por Adulto Equivalente\n\n")
	b.WriteString("| Región | CBA | CBT |\n")
	b.WriteString("|--------|-----|-----|\n")
	fmt.Fprintf(&b, "| **GBA** | $%s | $%s |\n", formatNumber(ultimo.Get("cba_gba")), formatNumber(ultimo.Get("cbt_gba")))
	fmt.Fprintf(&b, "| **NEA** | $%s | $%s |\n", formatNumber(ultimo.Get("cba_nea")), formatNumber(ultimo.Get("cbt_nea")))

	if ultimo.Get("cba_nea_familia") != nil && ultimo.Get("cbt_nea_familia") != nil {
		b.WriteString("\n### Valores Familiares (NEA)\n")
		fmt.Fprintf(&b, "- **CBA Familia**: $%s\n", formatNumber(ultimo.Get("cba_nea_familia")))
		fmt.Fprintf(&b, "- **CBT Familia**: $%s\n", formatNumber(ultimo.Get("cbt_nea_familia")))
	}

	b.WriteString("\n### Variaciones\n")
	if v := ultimo.Get("vmensual_cba"); v != nil {
		fmt.Fprintf(&b, "- Variación mensual CBA: %s%%\n", formatNumber(v))
	}
	if v := ultimo.Get("vinter_cba"); v != nil {
		fmt.Fprintf(&b, "- Variación interanual CBA: %s%%\n", formatNumber(v))
	}
	if v := ultimo.Get("vmensual_cbt"); v != nil {
		fmt.Fprintf(&b, "- Variación mensual CBT: %s%%\n", formatNumber(v))
	}
	if v := ultimo.Get("vinter_cbt"); v != nil {
		fmt.Fprintf(&b, "- Variación interanual CBT: %s%%\n", formatNumber(v))
	}

	b.WriteString("\n> **CBA** = Canasta Básica Alimentaria (línea de indigencia)\n")
	b.WriteString("> **CBT** = Canasta Básica Total (línea de pobreza)\n")
	return b.String(), nil
}

func (s *ToolService) handleECV(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.ECV(ctx, args["aglomerado"])
	if err != nil {
		return "", fmt.Errorf("get_ecv: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de la Encuesta de Calidad de Vida (ECV).", nil
	}

	var b strings.Builder
	b.WriteString("## 📋 Encuesta de Calidad de Vida (ECV)\n\n")

	for _, row := range records {
		fmt.Fprintf(&b, "### 📍 %s - %s %s\n\n", cell(row.Get("Aglomerado")), cell(row.Get("Año")), cell(row.Get("Trimestre")))
		b.WriteString("**Tasas de Empleo:**\n")
		fmt.Fprintf(&b, "- Tasa de Actividad: %s%%\n", asRate(row.Get("Tasa de Actividad")))
		fmt.Fprintf(&b, "- Tasa de Empleo: %s%%\n", asRate(row.Get("Tasa de Empleo")))
		fmt.Fprintf(&b, "- Tasa de Desocupación: %s%%\n\n", asRate(row.Get("Tasa de desocupación")))

		b.WriteString("**Composición del Empleo:**\n")
		fmt.Fprintf(&b, "- Trabajo Público: %s%%\n", asRate(row.Get("Trabajo Público")))
		fmt.Fprintf(&b, "- Trabajo Privado: %s%%\n", asRate(row.Get("Trabajo Privado")))
		fmt.Fprintf(&b, "  - Registrado: %s%%\n", asRate(row.Get("Trabajo Privado Registrado")))
		fmt.Fprintf(&b, "  - No Registrado: %s%%\n\n", asRate(row.Get("Trabajo Privado No Registrado")))

		b.WriteString("**Salarios Promedio:**\n")
		fmt.Fprintf(&b, "- Sector Público: $%s\n", formatNumber(row.Get("Salario Promedio Público")))
		fmt.Fprintf(&b, "- Sector Privado: $%s\n", formatNumber(row.Get("Salario Promedio Privado")))
		fmt.Fprintf(&b, "  - Registrado: $%s\n", formatNumber(row.Get("Salario Promedio Privado Registrado")))
		fmt.Fprintf(&b, "  - No Registrado: $%s\n\n", formatNumber(row.Get("Salario Promedio Privado No Registrado")))
	}

	b.WriteString("> **ECV** = Encuesta de Calidad de Vida\n")
	return b.String(), nil
}

func (s *ToolService) handleCenso(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Censo(ctx, args["municipio"])
	if err != nil {
		return "", fmt.Errorf("get_censo: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del censo.", nil
	}

	var b strings.Builder
	b.WriteString("## 👥 Censo Poblacional 2010 vs 2022\n\n")
	b.WriteString("| Municipio | Pob. 2010 | Pob. 2022 | Variación |\n")
	b.WriteString("|-----------|-----------|-----------|----------|\n")

	for _, row := range records {
		variation := toFloat(row.Get("var_relativa"))
		varStr := strconv.FormatFloat(variation, 'f', 1, 64) + "%"
		if variation > 0 {
			varStr = "+" + varStr
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(row.Get("municipio")),
			formatNumber(row.Get("pob_2010")),
			formatNumber(row.Get("pob_2022")),
			varStr)
	}
	return b.String(), nil
}

func (s *ToolService) handleCensoDepartamentos(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.CensoDepartamentos(ctx, args["departamento"])
	if err != nil {
		return "", fmt.Errorf("get_censo_departamentos: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del censo por departamento.", nil
	}

	var b strings.Builder
	b.WriteString("## 👥 Censo Poblacional por Departamento 2010 vs 2022\n\n")
	b.WriteString("| Departamento | Pob. 2010 | Pob. 2022 | Variación |\n")
	b.WriteString("|--------------|-----------|-----------|----------|\n")

	for _, row := range records {
		pob2010 := toFloat(row.Get("pob_2010"))
		pob2022 := toFloat(row.Get("pob_2022"))
		varStr := "N/A"
		if pob2010 > 0 {
			variation := ((pob2022 - pob2010) / pob2010) * 100
			varStr = strconv.FormatFloat(variation, 'f', 1, 64) + "%"
			if variation > 0 {
				varStr = "+" + varStr
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(row.Get("departamento")),
			formatNumber(row.Get("pob_2010")),
			formatNumber(row.Get("pob_2022")),
			varStr)
	}
	return b.String(), nil
}

func (s *ToolService) handleCombustible(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Combustible(ctx, args["provincia"], args["producto"])
	if err != nil {
		return "", fmt.Errorf("get_combustible: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de combustible.", nil
	}

	var b strings.Builder
	b.WriteString("## ⛽ Ventas de Combustible\n\n")
	b.WriteString("| Fecha | Provincia | Producto | Cantidad |\n")
	b.WriteString("|-------|-----------|----------|----------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(row.Get("fecha")),
			cell(row.Get("provincia")),
			cell(row.Get("producto")),
			formatNumber(row.Get("cantidad")))
	}
	return b.String(), nil
}

func (s *ToolService) handlePatentamientos(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Patentamientos(ctx, args["provincia"], args["tipo"])
	if err != nil {
		return "", fmt.Errorf("get_patentamientos: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de patentamientos.", nil
	}

	var b strings.Builder
	b.WriteString("## 🚗 Patentamientos de Vehículos 0km (DNRPA)\n\n")
	b.WriteString("| Fecha | Provincia | Tipo | Cantidad |\n")
	b.WriteString("|-------|-----------|------|----------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			formatDate(row.Get("fecha"), dateFull),
			cell(row.Get("provincia")),
			cell(row.Get("tipo")),
			formatNumber(row.Get("cantidad")))
	}
	return b.String(), nil
}

func (s *ToolService) handleAeropuertos(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Aeropuertos(ctx, args["aeropuerto"])
	if err != nil {
		return "", fmt.Errorf("get_aeropuertos: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de aeropuertos.", nil
	}

	var b strings.Builder
	b.WriteString("## ✈️ Pasajeros en Aeropuertos (ANAC)\n\n")
	b.WriteString("| Fecha | Aeropuerto | Pasajeros |\n")
	b.WriteString("|-------|------------|----------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			formatDate(row.Get("fecha"), dateFull),
			cell(row.Get("aeropuerto")),
			formatNumber(row.Get("pasajeros")))
	}
	return b.String(), nil
}

func (s *ToolService) handleOEDE(ctx context.Context, args map[string]string) (string, error) {
	provincia := args["provincia"]
	if provincia == "" {
		provincia = "Corrientes"
	}
	records, err := s.stats.OEDE(ctx, provincia, args["categoria"])
	if err != nil {
		return "", fmt.Errorf("get_oede: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del OEDE.", nil
	}

	var b strings.Builder
	b.WriteString("## 📊 Observatorio de Empleo (OEDE)\n\n")
	b.WriteString("Datos del Observatorio de Empleo y Dinámica Empresarial del Ministerio de Trabajo.\n\n")
	b.WriteString("| Fecha | Provincia | Categoría | Valor |\n")
	b.WriteString("|-------|-----------|-----------|-------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			formatDate(row.Get("fecha"), dateFull),
			cell(row.Get("provincia")),
			truncate(cell(row.Get("categoria")), 30),
			formatNumber(row.Get("valor")))
	}
	return b.String(), nil
}

func (s *ToolService) handlePobreza(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Pobreza(ctx)
	if err != nil {
		return "", fmt.Errorf("get_pobreza: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de pobreza/indigencia.", nil
	}

	var b strings.Builder
	b.WriteString("## 📉 Líneas de Pobreza e Indigencia\n\n")
	b.WriteString("**CBA** (Canasta Básica Alimentaria): Define la línea de **indigencia**\n")
	b.WriteString("**CBT** (Canasta Básica Total): Define la línea de **pobreza**\n\n")
	b.WriteString("### Región NEA (Noreste Argentino)\n\n")
	b.WriteString("| Fecha | CBA (Adulto) | CBT (Adulto) | CBA (Familia) | CBT (Familia) |\n")
	b.WriteString("|-------|--------------|--------------|---------------|---------------|\n")

	for _, row := range records {
		fmt.Fprintf(&b, "| %s | $%s | $%s | $%s | $%s |\n",
			formatDate(row.Get("fecha"), dateMonthYear),
			formatNumber(row.Get("cba_nea")),
			formatNumber(row.Get("cbt_nea")),
			formatNumber(row.Get("cba_nea_familia")),
			formatNumber(row.Get("cbt_nea_familia")))
	}

	b.WriteString("\n> **Familia tipo**: 4 integrantes (2 adultos + 2 menores)\n")
	b.WriteString("> Una familia es **indigente** si no puede cubrir la CBA\n")
	b.WriteString("> Una familia es **pobre** si no puede cubrir la CBT")
	return b.String(), nil
}

func (s *ToolService) handleEMAE(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.EMAE(ctx, args["categoria"])
	if err != nil {
		return "", fmt.Errorf("get_emae: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del EMAE.", nil
	}

	var b strings.Builder
	b.WriteString("## 📈 Estimador Mensual de Actividad Económica (EMAE)\n\n")
	b.WriteString("El EMAE mide la evolución mensual de la actividad económica del país.\n\n")
	b.WriteString("| Fecha | Sector | Valor |\n")
	b.WriteString("|-------|--------|-------|\n")
	for _, row := range records {
		cat := cell(row.Get("categoria"))
		if cat == "N/A" {
			cat = "General"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			formatDate(row.Get("fecha"), dateFull),
			truncate(cat, 35),
			formatNumber(row.Get("valor")))
	}
	return b.String(), nil
}

func (s *ToolService) handlePBG(ctx context.Context, args map[string]string) (string, error) {
	tipo := strings.ToLower(args["tipo"])
	records, err := s.stats.PBG(ctx, tipo, args["sector"])
	if err != nil {
		return "", fmt.Errorf("get_pbg: %w", err)
	}

	var b strings.Builder
	switch tipo {
	case "trimestral":
		if len(records) == 0 {
			return "No se encontraron datos del PBG trimestral.", nil
		}
		b.WriteString("## 🏭 PBG Trimestral - Corrientes\n\n")
		b.WriteString("| Año | Trim | Actividad | Valor | Variación |\n")
		b.WriteString("|-----|------|-----------|-------|----------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s%% |\n",
				cell(row.Get("Año")),
				cell(row.Get("Trimestre")),
				truncate(cell(row.Get("Actividad")), 20),
				formatNumber(row.Get("Valor")),
				formatNumber(row.Get("Variacion")))
		}
	case "desglosado":
		if len(records) == 0 {
			return "No se encontraron datos del PBG desglosado.", nil
		}
		b.WriteString("## 🏭 PBG Desglosado - Corrientes\n\n")
		b.WriteString("| Año | Sector | Valor | Var. Interanual |\n")
		b.WriteString("|-----|--------|-------|----------------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s%% |\n",
				cell(row.Get("año")),
				truncate(cell(row.Get("descripcion")), 30),
				formatNumber(row.Get("valor")),
				formatNumber(row.Get("variacion_interanual")))
		}
	default:
		if len(records) == 0 {
			return "No se encontraron datos del PBG.", nil
		}
		b.WriteString("## 🏭 Producto Bruto Geográfico (PBG) - Corrientes\n\n")
		b.WriteString("El PBG mide el valor de la producción de bienes y servicios de la provincia.\n\n")
		b.WriteString("| Año | Actividad | Valor | Variación |\n")
		b.WriteString("|-----|-----------|-------|----------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s%% |\n",
				cell(row.Get("Año")),
				truncate(cell(row.Get("Actividad")), 25),
				formatNumber(row.Get("Valor")),
				formatNumber(row.Get("Variacion")))
		}
	}
	return b.String(), nil
}

func (s *ToolService) handleSalarios(ctx context.Context, args map[string]string) (string, error) {
	tipo := strings.ToLower(args["tipo"])
	records, err := s.stats.Salarios(ctx, tipo)
	if err != nil {
		return "", fmt.Errorf("get_salarios: %w", err)
	}

	var b strings.Builder
	switch tipo {
	case "ripte":
		if len(records) == 0 {
			return "No se encontraron datos del RIPTE.", nil
		}
		b.WriteString("## 💰 RIPTE (Remuneración Imponible Promedio)\n\n")
		b.WriteString("El RIPTE es el índice que se usa para actualizar jubilaciones y pensiones.\n\n")
		b.WriteString("| Fecha | Valor |\n")
		b.WriteString("|-------|-------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | $%s |\n",
				formatDate(row.Get("fecha"), dateFull),
				formatNumber(row.Get("valor")))
		}
	case "indicadores":
		if len(records) == 0 {
			return "No se encontraron índices de salarios.", nil
		}
		b.WriteString("## 📊 Índices de Salarios\n\n")
		b.WriteString("| Fecha | S. Público | S. Privado | Total Reg. | Índice Total |\n")
		b.WriteString("|-------|------------|------------|------------|---------------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				formatDate(row.Get("periodo"), dateMonthYear),
				formatNumber(row.Get("is_sector_publico")),
				formatNumber(row.Get("is_sector_privado_registrado")),
				formatNumber(row.Get("is_total_registrado")),
				formatNumber(row.Get("is_indice_total")))
		}
	default:
		if len(records) == 0 {
			return "No se encontraron datos del Salario Mínimo.", nil
		}
		b.WriteString("## 💵 Salario Mínimo Vital y Móvil (SMVM)\n\n")
		b.WriteString("| Fecha | Mensual | Diario | Por Hora |\n")
		b.WriteString("|-------|---------|--------|----------|\n")
		for _, row := range records {
			fmt.Fprintf(&b, "| %s | $%s | $%s | $%s |\n",
				formatDate(row.Get("fecha"), dateMonthYear),
				formatNumber(row.Get("salario_mvm_mensual")),
				formatNumber(row.Get("salario_mvm_diario")),
				formatNumber(row.Get("salario_mvm_hora")))
		}
	}
	return b.String(), nil
}

func (s *ToolService) handleSupermercados(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.Supermercados(ctx, args["provincia"])
	if err != nil {
		return "", fmt.Errorf("get_supermercados: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos de supermercados.", nil
	}

	var b strings.Builder
	b.WriteString("## 🛒 Facturación de Supermercados\n\n")
	b.WriteString("| Fecha | Provincia | Total | Bebidas | Almacén | Lácteos | Carnes |\n")
	b.WriteString("|-------|-----------|-------|---------|---------|---------|--------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | $%s | %s | %s | %s | %s |\n",
			formatDate(row.Get("fecha"), dateFull),
			truncate(cell(row.Get("provincia")), 12),
			formatNumber(row.Get("total_facturacion")),
			formatNumber(row.Get("bebidas")),
			formatNumber(row.Get("almacen")),
			formatNumber(row.Get("lacteos")),
			formatNumber(row.Get("carnes")))
	}
	return b.String(), nil
}

func (s *ToolService) handleConstruccion(ctx context.Context, args map[string]string) (string, error) {
	tipo := strings.ToLower(args["tipo"])
	records, err := s.stats.Construccion(ctx, tipo)
	if err != nil {
		return "", fmt.Errorf("get_construccion: %w", err)
	}

	title := "Puestos de Trabajo en Construcción"
	switch tipo {
	case "ingresos":
		title = "Ingresos en Construcción"
	case "actividad":
		title = "Actividad Empresarial en Construcción"
	}
	if len(records) == 0 {
		return fmt.Sprintf("No se encontraron datos de %s.", strings.ToLower(title)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 🏗️ %s (IERIC)\n\n", title)
	b.WriteString("Datos del Instituto de Estadística y Registro de la Industria de la Construcción.\n\n")

	var relevant []string
	for _, col := range records[0].Columns {
		lower := strings.ToLower(col)
		if lower == "id" || lower == "created_at" || lower == "updated_at" {
			continue
		}
		relevant = append(relevant, col)
		if len(relevant) == 5 {
			break
		}
	}

	headers := make([]string, len(relevant))
	seps := make([]string, len(relevant))
	for i, col := range relevant {
		headers[i] = titleWords(strings.ReplaceAll(col, "_", " "))
		seps[i] = "-------"
	}
	fmt.Fprintf(&b, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(&b, "|%s|\n", strings.Join(seps, "|"))

	for _, row := range records {
		values := make([]string, len(relevant))
		for i, col := range relevant {
			value := row.Get(col)
			var text string
			switch {
			case strings.EqualFold(col, "fecha"):
				text = formatDate(value, dateFull)
			case value == nil:
				text = "N/A"
			default:
				switch value.(type) {
				case int, int64, float32, float64:
					text = formatNumber(value)
				default:
					text = cell(value)
				}
			}
			if len(text) > 20 {
				text = text[:20]
			}
			values[i] = text
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(values, " | "))
	}
	return b.String(), nil
}

func (s *ToolService) handleIPCCorrientes(ctx context.Context, args map[string]string) (string, error) {
	records, err := s.stats.IPCCorrientes(ctx)
	if err != nil {
		return "", fmt.Errorf("get_ipc_corrientes: %w", err)
	}
	if len(records) == 0 {
		return "No se encontraron datos del IPC de Corrientes.", nil
	}

	var b strings.Builder
	b.WriteString("## 📊 IPC de Corrientes (IPICorr)\n\n")
	b.WriteString("Índice de Precios al Consumidor específico para la ciudad de Corrientes.\n\n")
	b.WriteString("| Fecha | Valor | Var. Mensual | Var. Interanual |\n")
	b.WriteString("|-------|-------|--------------|------------------|\n")
	for _, row := range records {
		fmt.Fprintf(&b, "| %s | %s | %s%% | %s%% |\n",
			formatDate(row.Get("fecha"), dateMonthYear),
			formatNumber(row.Get("valor")),
			formatNumber(row.Get("var_mensual")),
			formatNumber(row.Get("var_interanual")))
	}

	ultimo := records[0]
	fmt.Fprintf(&b, "\n📌 **Última variación mensual:** %s%%\n", formatNumber(ultimo.Get("var_mensual")))
	fmt.Fprintf(&b, "📌 **Variación interanual:** %s%%", formatNumber(ultimo.Get("var_interanual")))
	return b.String(), nil
}

func (s *ToolService) handleSearchDatabase(ctx context.Context, args map[string]string) (string, error) {
	query := args["query"]
	records, err := s.stats.SearchDatabase(ctx, query, args["database"])
	if err != nil {
		return "", fmt.Errorf("search_database: %w", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("No se encontraron resultados para '%s'.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 🔍 Resultados de búsqueda: '%s'\n\n", query)
	fmt.Fprintf(&b, "Se encontraron %d resultados.\n\n", len(records))

	shown := records
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, row := range shown {
		fmt.Fprintf(&b, "### Resultado %d\n", i+1)
		cols := row.Columns
		if len(cols) > 5 {
			cols = cols[:5]
		}
		for _, col := range cols {
			value := row.Values[col]
			if value == nil {
				continue
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", col, formatNumber(value))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
