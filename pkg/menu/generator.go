package menu

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// TableInfo describes one table of the statistics warehouse. Sample holds
// one row of string-rendered values, used to harvest search keywords.
type TableInfo struct {
	Name    string
	Columns []string
	Sample  map[string]string
}

// StructureProvider exposes the warehouse layout: database name mapped to
// its tables. The generator only needs names and columns.
type StructureProvider interface {
	DatabaseStructure(ctx context.Context) (map[string][]TableInfo, error)
}

// Category groups warehouse tables under a navigable topic.
type Category struct {
	Name        string
	Keywords    []string
	Icon        string
	Description string
}

// categories in fixed order so tie scores resolve the same way every run.
var categories = []Category{
	{"pbg", []string{"pbg", "producto bruto geográfico", "producto bruto", "pbi", "producto interno bruto"}, "📈", "Producto Bruto Geográfico"},
	{"inflacion", []string{"inflación", "inflacion", "ipc", "índice de precios", "indice de precios", "precios"}, "💰", "Inflación e Índices de Precios"},
	{"empleo", []string{"empleo", "trabajo", "desempleo", "ocupación", "ocupacion", "puestos", "empleados"}, "💼", "Empleo y Ocupación"},
	{"poblacion", []string{"población", "poblacion", "habitantes", "ciudadanos", "personas", "censo"}, "👥", "Población y Demografía"},
	{"educacion", []string{"educación", "educacion", "escolaridad", "nivel educativo", "clima educativo"}, "🎓", "Educación"},
	{"salud", []string{"salud", "cobertura", "obra social", "pami", "hospital"}, "🏥", "Salud y Cobertura"},
	{"vivienda", []string{"vivienda", "hogar", "inmat", "calidad", "material"}, "🏠", "Vivienda e Infraestructura"},
	{"servicios", []string{"agua", "cloaca", "combustible", "internet", "servicios básicos", "servicios basicos"}, "⚡", "Servicios Básicos"},
	{"transporte", []string{"transporte", "vehículos", "vehiculos", "patentamiento", "dnrpa", "anac"}, "🚗", "Transporte y Vehículos"},
	{"comercio", []string{"comercio", "supermercado", "facturación", "facturacion", "ventas", "canasta básica", "canasta basica"}, "🛒", "Comercio y Consumo"},
	{"moneda", []string{"dólar", "dolar", "moneda", "tipo de cambio", "blue", "ccl"}, "💵", "Moneda y Tipo de Cambio"},
	{"combustible", []string{"combustible", "nafta", "gasoil", "precio combustible"}, "⛽", "Combustibles"},
}

// friendlyNames maps technical table names to display names.
var friendlyNames = map[string]string{
	"pbg_valor_anual":                          "PBG Anual",
	"pbg_valor_trimestral":                     "PBG Trimestral",
	"pbg_anual_desglosado":                     "PBG Anual Desglosado",
	"tabla_ipc_acumulados":                     "Índice de Precios al Consumidor",
	"ipc":                                      "Inflación Mensual",
	"empleados_cada_mil_habitantes":            "Empleados por cada 1000 habitantes",
	"empleo_nacional_porcentajes_variaciones":  "Variaciones de Empleo Nacional",
	"empleo_nea_variaciones":                   "Variaciones de Empleo NEA",
	"indicadores_semaforo":                     "Indicadores Semáforo",
	"puestos_de_trabajo":                       "Puestos de Trabajo",
	"censo_ipecd_departamentos":                "Población por Departamento",
	"censo_ipecd_municipios":                   "Población por Municipio",
	"base_poblacion_viviendas":                 "Población y Viviendas",
	"base_piramide":                            "Pirámide Poblacional",
	"base_asistencia_escolar":                  "Asistencia Escolar",
	"base_nivel_educativo":                     "Nivel Educativo",
	"clima_educativo":                          "Clima Educativo del Hogar",
	"ecv_educacion":                            "Educación - Encuesta de Condiciones de Vida",
	"base_cobertura_salud":                     "Cobertura de Salud",
	"censo_nea_nacion_cobertura_salud":         "Cobertura de Salud NEA",
	"base_inmat":                               "Calidad de Vivienda (INMAT)",
	"base_material_piso":                       "Material de Piso",
	"base_propiedad_de_la_vivienda":            "Propiedad de Vivienda",
	"base_agua_beber_o_cocinar":                "Acceso al Agua",
	"base_cloaca":                              "Servicio de Cloaca",
	"base_combustible_para_cocinar":            "Combustible para Cocinar",
	"base_internet":                            "Acceso a Internet",
	"canasta_basica":                           "Canasta Básica",
	"supermercado_deflactado":                  "Ventas de Supermercados",
	"dolar_blue":                               "Dólar Blue",
	"dolar_ccl":                                "Dólar CCL",
	"dolar_mep":                                "Dólar MEP",
	"dolar_oficial":                            "Dólar Oficial",
	"anac":                                     "Tráfico Aéreo",
	"dnrpa":                                    "Patentamiento de Vehículos",
}

// Generator builds menu nodes out of the warehouse structure so newly
// loaded tables become navigable without editing the menu file.
type Generator struct {
	provider     StructureProvider
	tablesPerDB  int
	tablesPerCat int
}

func NewGenerator(provider StructureProvider) *Generator {
	return &Generator{
		provider:     provider,
		tablesPerDB:  50,
		tablesPerCat: 10,
	}
}

type categorizedTable struct {
	dbName string
	table  TableInfo
}

// GenerateNodes analyzes the warehouse and produces nodes in deterministic
// order: for each category, the table leaves, then one submenu per source
// database, then the category node itself.
func (g *Generator) GenerateNodes(ctx context.Context) ([]*Node, error) {
	structure, err := g.provider.DatabaseStructure(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze database structure: %w", err)
	}

	byCategory := make(map[string][]categorizedTable)
	dbNames := make([]string, 0, len(structure))
	for dbName := range structure {
		dbNames = append(dbNames, dbName)
	}
	sort.Strings(dbNames)

	for _, dbName := range dbNames {
		tables := structure[dbName]
		if len(tables) > g.tablesPerDB {
			tables = tables[:g.tablesPerDB]
		}
		for _, table := range tables {
			if category := CategorizeTable(table.Name, table.Columns); category != "" {
				byCategory[category] = append(byCategory[category], categorizedTable{dbName: dbName, table: table})
			}
		}
	}

	var nodes []*Node
	for _, cat := range categories {
		tables := byCategory[cat.Name]
		if len(tables) == 0 {
			continue
		}
		if len(tables) > g.tablesPerCat {
			tables = tables[:g.tablesPerCat]
		}

		categoryNodeID := "cat_" + cat.Name

		childrenByDB := make(map[string][]string)
		var dbOrder []string
		for _, ct := range tables {
			tableNodeID := fmt.Sprintf("%s_%s_%s", categoryNodeID, ct.dbName, ct.table.Name)
			nodes = append(nodes, &Node{
				ID:       tableNodeID,
				Title:    FriendlyName(ct.table.Name),
				Action:   ActionQuery,
				DBQuery:  ct.dbName + "." + ct.table.Name,
				Keywords: append([]string{strings.ToLower(ct.table.Name), strings.ToLower(ct.dbName)}, cat.Keywords...),
			})
			if _, seen := childrenByDB[ct.dbName]; !seen {
				dbOrder = append(dbOrder, ct.dbName)
			}
			childrenByDB[ct.dbName] = append(childrenByDB[ct.dbName], tableNodeID)
		}

		var categoryChildren []string
		for _, dbName := range dbOrder {
			dbNodeID := categoryNodeID + "_" + dbName
			nodes = append(nodes, &Node{
				ID:       dbNodeID,
				Title:    dbFriendlyName(dbName),
				Action:   ActionMenu,
				Children: childrenByDB[dbName],
				Keywords: []string{strings.ToLower(dbName)},
			})
			categoryChildren = append(categoryChildren, dbNodeID)
		}

		nodes = append(nodes, &Node{
			ID:       categoryNodeID,
			Title:    cat.Icon + " " + cat.Description,
			Action:   ActionMenu,
			Children: categoryChildren,
			Keywords: cat.Keywords,
		})
	}

	return nodes, nil
}

// CategorizeTable scores the table name (+10 per keyword) and its columns
// (+5 per keyword) against each category. Requires a minimum score of 5.
func CategorizeTable(tableName string, columns []string) string {
	tableLower := strings.ToLower(tableName)
	columnsLower := make([]string, len(columns))
	for i, c := range columns {
		columnsLower[i] = strings.ToLower(c)
	}

	best := ""
	bestScore := 0
	for _, cat := range categories {
		score := 0
		for _, keyword := range cat.Keywords {
			if strings.Contains(tableLower, keyword) {
				score += 10
			}
		}
		for _, keyword := range cat.Keywords {
			for _, col := range columnsLower {
				if strings.Contains(col, keyword) {
					score += 5
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat.Name
		}
	}

	if bestScore >= 5 {
		return best
	}
	return ""
}

// FriendlyName converts a technical table name to a display name, falling
// back to a cleaned, title-cased version of the identifier.
func FriendlyName(tableName string) string {
	if name, ok := friendlyNames[tableName]; ok {
		return name
	}

	tableLower := strings.ToLower(tableName)
	techNames := make([]string, 0, len(friendlyNames))
	for techName := range friendlyNames {
		techNames = append(techNames, techName)
	}
	sort.Strings(techNames)
	for _, techName := range techNames {
		if strings.Contains(tableLower, techName) || strings.Contains(techName, tableLower) {
			return friendlyNames[techName]
		}
	}

	friendly := tableName
	for _, prefix := range []string{"base_", "censo_", "ecv_", "tabla_", "dp_", "dicc_", "dwh_", "datalake_"} {
		friendly = strings.ReplaceAll(friendly, prefix, "")
	}
	words := strings.Split(strings.ReplaceAll(friendly, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

func dbFriendlyName(dbName string) string {
	lower := strings.ToLower(dbName)
	if strings.Contains(lower, "economico") {
		return "Datos Económicos"
	}
	if strings.Contains(lower, "socio") || strings.Contains(lower, "sociodemografico") {
		return "Datos Sociales"
	}
	cleaned := strings.ReplaceAll(strings.ReplaceAll(dbName, "datalake_", ""), "dwh_", "")
	words := strings.Split(strings.ReplaceAll(cleaned, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}
