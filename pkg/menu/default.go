package menu

// defaultNodes builds the deterministic fallback tree used when no
// persisted definition can be loaded.
func defaultNodes() []*Node {
	return []*Node{
		{
			ID:          "root",
			Title:       "Menú Principal",
			Description: "Bienvenido al chatbot de datos. Selecciona una opción:",
			Action:      ActionMenu,
			Children:    []string{"economico", "socio", "general"},
		},
		{
			ID:          "economico",
			Title:       "📊 Datos Económicos",
			Description: "Información económica y financiera",
			Action:      ActionMenu,
			Children:    []string{"datalake_economico", "dwh_economico"},
			Keywords:    []string{"economico", "economía", "finanzas", "dinero", "presupuesto", "ingresos", "gastos"},
		},
		{
			ID:          "socio",
			Title:       "👥 Datos Sociales",
			Description: "Información social y demográfica",
			Action:      ActionMenu,
			Children:    []string{"datalake_socio", "dwh_socio"},
			Keywords:    []string{"social", "sociedad", "demografía", "población", "ciudadanos", "habitantes"},
		},
		{
			ID:          "general",
			Title:       "ℹ️ Información General",
			Description: "Información general y ayuda",
			Action:      ActionMenu,
			Children:    []string{"ayuda", "estructura"},
			Keywords:    []string{"ayuda", "help", "información", "info", "general"},
		},
		{
			ID:          "datalake_economico",
			Title:       "📈 Datalake Económico",
			Description: "Datos económicos en bruto",
			Action:      ActionQuery,
			DBQuery:     "datalake_economico",
			Keywords:    []string{"datalake", "raw", "bruto", "económico"},
		},
		{
			ID:          "dwh_economico",
			Title:       "📊 DWH Económico",
			Description: "Data Warehouse económico procesado",
			Action:      ActionQuery,
			DBQuery:     "dwh_economico",
			Keywords:    []string{"dwh", "warehouse", "procesado", "económico"},
		},
		{
			ID:          "datalake_socio",
			Title:       "👤 Datalake Social",
			Description: "Datos sociales en bruto",
			Action:      ActionQuery,
			DBQuery:     "datalake_socio",
			Keywords:    []string{"datalake", "raw", "bruto", "social"},
		},
		{
			ID:          "dwh_socio",
			Title:       "👥 DWH Social",
			Description: "Data Warehouse social procesado",
			Action:      ActionQuery,
			DBQuery:     "dwh_socio",
			Keywords:    []string{"dwh", "warehouse", "procesado", "social"},
		},
		{
			ID:          "ayuda",
			Title:       "❓ Ayuda",
			Description: "Información sobre cómo usar el chatbot",
			Action:      ActionInfo,
			Keywords:    []string{"ayuda", "help", "como usar", "instrucciones"},
		},
		{
			ID:          "estructura",
			Title:       "🗂️ Estructura de Datos",
			Description: "Ver estructura de las bases de datos disponibles",
			Action:      ActionQuery,
			DBQuery:     "structure",
			Keywords:    []string{"estructura", "tablas", "columnas", "schema", "base de datos"},
		},
	}
}
