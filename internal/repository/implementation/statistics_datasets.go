package implementation

import (
	"context"
	"strings"

	"ipecd-chatbot-be/internal/entity"
)

// Dataset readers. Each mirrors the production query for its indicator;
// optional filters append LIKE conditions. Logical database keys:
// datalake_economico holds national series, dwh_economico the provincial
// dashboard, dwh_socio the household surveys and censuses.

func (r *StatisticsRepositoryImpl) IPC(ctx context.Context, fecha, region, categoria string) ([]entity.StatRecord, error) {
	sql := `
		SELECT v.fecha AS Fecha,
		       r.descripcion_region AS Region,
		       c.nombre AS Categoria,
		       d.nombre AS Division,
		       v.valor AS Valor,
		       v.var_mensual AS variacion_mensual,
		       v.var_interanual AS variacion_interanual
		FROM ipc_valores v
		LEFT JOIN identificador_regiones r ON v.id_region = r.id_region
		LEFT JOIN ipc_categoria c ON v.id_categoria = c.id_categoria
		LEFT JOIN ipc_division d ON v.id_division = d.id_division
		WHERE v.id_subdivision = 1`
	var args []any

	if fecha != "" {
		sql += " AND DATE_FORMAT(v.fecha, '%Y-%m') = ?"
		args = append(args, fecha)
	} else {
		sql += " AND v.fecha = (SELECT MAX(fecha) FROM ipc_valores)"
	}
	if region != "" {
		sql += " AND r.descripcion_region LIKE ?"
		args = append(args, like(region))
	}
	if categoria != "" {
		sql += " AND (c.nombre LIKE ? OR d.nombre LIKE ?)"
		args = append(args, like(categoria), like(categoria))
	}
	sql += " ORDER BY r.descripcion_region, c.nombre, d.nombre LIMIT 50"

	return r.query(ctx, "datalake_economico", "ipc_valores", sql, args...)
}

// dolarTables maps the requested type to its source table.
var dolarTables = map[string]string{
	"blue":    "dolar_blue",
	"oficial": "dolar_oficial",
	"mep":     "dolar_mep",
	"ccl":     "dolar_ccl",
}

func (r *StatisticsRepositoryImpl) Dolar(ctx context.Context, tipo, fecha string) ([]entity.StatRecord, error) {
	table, ok := dolarTables[strings.ToLower(tipo)]
	if !ok {
		table = "dolar_blue"
	}

	if fecha != "" {
		return r.query(ctx, "datalake_economico", table,
			"SELECT * FROM `"+table+"` WHERE fecha = ?", fecha)
	}
	return r.query(ctx, "datalake_economico", table,
		"SELECT * FROM `"+table+"` ORDER BY fecha DESC LIMIT 5")
}

func (r *StatisticsRepositoryImpl) EmpleoEPH(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	sql := "SELECT Region, Aglomerado, Año, Trimestre," +
		" `Tasa de Actividad`, `Tasa de Empleo`, `Tasa de desocupación`" +
		" FROM eph_trabajo_tasas WHERE 1=1"
	var args []any
	if provincia != "" {
		sql += " AND (Aglomerado LIKE ? OR Region LIKE ?)"
		args = append(args, like(provincia), like(provincia))
	}
	sql += " ORDER BY Año DESC, Trimestre DESC LIMIT 20"
	return r.query(ctx, "dwh_socio", "eph_trabajo_tasas", sql, args...)
}

func (r *StatisticsRepositoryImpl) EmpleoSIPA(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	sql := `
		SELECT s.fecha, p.nombre_provincia_indec AS provincia,
		       t.descripcion_registro AS tipo,
		       s.cantidad_con_estacionalidad, s.cantidad_sin_estacionalidad
		FROM sipa_valores s
		JOIN identificador_provincias p ON s.id_provincia = p.id_provincia_indec
		JOIN sipa_tiporegistro t ON s.id_tipo_registro = t.id_registro
		WHERE 1=1`
	var args []any
	if provincia != "" {
		sql += " AND p.nombre_provincia_indec LIKE ?"
		args = append(args, like(provincia))
	}
	sql += " ORDER BY s.fecha DESC LIMIT 30"
	return r.query(ctx, "datalake_economico", "sipa_valores", sql, args...)
}

func (r *StatisticsRepositoryImpl) Semaforo(ctx context.Context, tipo string) (*entity.StatRecord, error) {
	table := "semaforo_" + strings.ToLower(tipo)
	records, err := r.query(ctx, "dwh_economico", table,
		"SELECT * FROM `"+table+"` ORDER BY fecha DESC LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *StatisticsRepositoryImpl) CanastaBasica(ctx context.Context) ([]entity.StatRecord, error) {
	sql := `
		SELECT fecha, cba_gba, cbt_gna AS cbt_gba, cba_nea, cbt_nea,
		       cba_nea_familia, cbt_nea_familia,
		       vmensual_cba, vinter_cba, vmensual_cbt, vinter_cbt
		FROM correo_cbt_cba
		ORDER BY fecha DESC
		LIMIT 6`
	return r.query(ctx, "dwh_socio", "correo_cbt_cba", sql)
}

func (r *StatisticsRepositoryImpl) ECV(ctx context.Context, aglomerado string) ([]entity.StatRecord, error) {
	if aglomerado == "" {
		aglomerado = "Corrientes"
	}
	sql := "SELECT Aglomerado, Año, Trimestre," +
		" `Tasa de Actividad`, `Tasa de Empleo`, `Tasa de desocupación`," +
		" `Trabajo Público`, `Trabajo Privado`," +
		" `Trabajo Privado Registrado`, `Trabajo Privado No Registrado`," +
		" `Salario Promedio Público`, `Salario Promedio Privado`," +
		" `Salario Promedio Privado Registrado`, `Salario Promedio Privado No Registrado`" +
		" FROM ecv_trabajo WHERE Aglomerado LIKE ?" +
		" ORDER BY Año DESC, Trimestre DESC LIMIT 8"
	return r.query(ctx, "dwh_socio", "ecv_trabajo", sql, like(aglomerado))
}

func (r *StatisticsRepositoryImpl) Censo(ctx context.Context, municipio string) ([]entity.StatRecord, error) {
	sql := `
		SELECT DISTINCT municipio,
		       MAX(poblacion_viv_part_2010) AS pob_2010,
		       MAX(poblacion_viv_part_2022) AS pob_2022,
		       MAX(var_abs_poblacion_2010_vs_2022) AS var_absoluta,
		       MAX(peso_relativo_2022) AS peso_relativo_2022,
		       MAX(var_rel_poblacion_2010_vs_2022) AS var_relativa
		FROM censo_ipecd_municipios
		WHERE municipio != 'Indeterminado'`
	var args []any
	if municipio != "" {
		sql += " AND municipio LIKE ?"
		args = append(args, like(municipio))
	}
	sql += " GROUP BY municipio ORDER BY pob_2022 DESC LIMIT 20"
	return r.query(ctx, "dwh_socio", "censo_ipecd_municipios", sql, args...)
}

func (r *StatisticsRepositoryImpl) CensoDepartamentos(ctx context.Context, departamento string) ([]entity.StatRecord, error) {
	sql := `
		SELECT departamento,
		       SUM(poblacion_viv_part_2010) AS pob_2010,
		       SUM(poblacion_viv_part_2022) AS pob_2022
		FROM censo_ipecd_municipios
		WHERE municipio != 'Indeterminado'`
	var args []any
	if departamento != "" {
		sql += " AND departamento LIKE ?"
		args = append(args, like(departamento))
	}
	sql += " GROUP BY departamento ORDER BY pob_2022 DESC LIMIT 25"

	records, err := r.query(ctx, "dwh_socio", "censo_ipecd_municipios", sql, args...)
	if err == nil {
		return records, nil
	}

	// Older snapshots lack the departamento column; derive it from the
	// municipality prefix instead.
	fallback := `
		SELECT SUBSTRING_INDEX(municipio, ' - ', 1) AS departamento,
		       SUM(poblacion_viv_part_2010) AS pob_2010,
		       SUM(poblacion_viv_part_2022) AS pob_2022
		FROM censo_ipecd_municipios
		WHERE municipio != 'Indeterminado'
		GROUP BY departamento
		ORDER BY pob_2022 DESC
		LIMIT 25`
	return r.query(ctx, "dwh_socio", "censo_ipecd_municipios", fallback)
}

func (r *StatisticsRepositoryImpl) Combustible(ctx context.Context, provincia, producto string) ([]entity.StatRecord, error) {
	sql := `
		SELECT c.fecha, p.nombre_provincia_indec AS provincia,
		       c.producto, c.cantidad
		FROM combustible c
		JOIN identificador_provincias p ON c.provincia = p.id_provincia_indec
		WHERE 1=1`
	var args []any
	if provincia != "" {
		sql += " AND p.nombre_provincia_indec LIKE ?"
		args = append(args, like(provincia))
	}
	if producto != "" {
		sql += " AND c.producto LIKE ?"
		args = append(args, like(producto))
	}
	sql += " ORDER BY c.fecha DESC LIMIT 30"
	return r.query(ctx, "datalake_economico", "combustible", sql, args...)
}

func (r *StatisticsRepositoryImpl) Patentamientos(ctx context.Context, provincia, tipo string) ([]entity.StatRecord, error) {
	sql := `
		SELECT d.fecha, p.nombre_provincia_indec AS provincia,
		       CASE d.id_vehiculo WHEN 1 THEN 'Automóviles' ELSE 'Motovehículos' END AS tipo,
		       d.cantidad
		FROM dnrpa d
		LEFT JOIN identificador_provincias p ON d.id_provincia_indec = p.id_provincia_indec
		WHERE 1=1`
	var args []any
	if provincia != "" {
		sql += " AND p.nombre_provincia_indec LIKE ?"
		args = append(args, like(provincia))
	}
	switch {
	case strings.Contains(strings.ToLower(tipo), "auto"):
		sql += " AND d.id_vehiculo = 1"
	case strings.Contains(strings.ToLower(tipo), "moto"):
		sql += " AND d.id_vehiculo = 2"
	}
	sql += " ORDER BY d.fecha DESC LIMIT 30"
	return r.query(ctx, "datalake_economico", "dnrpa", sql, args...)
}

func (r *StatisticsRepositoryImpl) Aeropuertos(ctx context.Context, aeropuerto string) ([]entity.StatRecord, error) {
	sql := "SELECT fecha, aeropuerto, cantidad AS pasajeros FROM anac WHERE 1=1"
	var args []any
	if aeropuerto != "" {
		sql += " AND aeropuerto LIKE ?"
		args = append(args, like(aeropuerto))
	}
	sql += " ORDER BY fecha DESC LIMIT 20"
	return r.query(ctx, "datalake_economico", "anac", sql, args...)
}

func (r *StatisticsRepositoryImpl) OEDE(ctx context.Context, provincia, categoria string) ([]entity.StatRecord, error) {
	if provincia == "" {
		provincia = "Corrientes"
	}
	sql := `
		SELECT o.fecha, p.nombre_provincia_indec AS provincia,
		       d.nombre AS categoria, o.valor
		FROM OEDE_valores o
		LEFT JOIN identificador_provincias p ON o.id_provincia = p.id_provincia_indec
		LEFT JOIN OEDE_diccionario d ON o.id_categoria = d.id_categoria
		    AND o.id_subcategoria = d.id_subcategoria
		WHERE p.nombre_provincia_indec LIKE ?`
	args := []any{like(provincia)}
	if categoria != "" {
		sql += " AND d.nombre LIKE ?"
		args = append(args, like(categoria))
	}
	sql += " ORDER BY o.fecha DESC LIMIT 30"
	return r.query(ctx, "datalake_economico", "OEDE_valores", sql, args...)
}

func (r *StatisticsRepositoryImpl) Pobreza(ctx context.Context) ([]entity.StatRecord, error) {
	sql := `
		SELECT fecha,
		       cba_gba, cbt_gna AS cbt_gba,
		       cba_nea, cbt_nea,
		       cba_nea_familia, cbt_nea_familia,
		       vmensual_cba, vinter_cba
		FROM correo_cbt_cba
		ORDER BY fecha DESC LIMIT 12`
	return r.query(ctx, "dwh_socio", "correo_cbt_cba", sql)
}

func (r *StatisticsRepositoryImpl) EMAE(ctx context.Context, categoria string) ([]entity.StatRecord, error) {
	sql := `
		SELECT e.fecha, c.categoria_descripcion AS categoria, e.valor
		FROM emae e
		LEFT JOIN emae_categoria c ON e.sector_productivo = c.id_categoria
		WHERE 1=1`
	var args []any
	if categoria != "" {
		sql += " AND c.categoria_descripcion LIKE ?"
		args = append(args, like(categoria))
	}
	sql += " ORDER BY e.fecha DESC LIMIT 30"
	return r.query(ctx, "datalake_economico", "emae", sql, args...)
}

func (r *StatisticsRepositoryImpl) PBG(ctx context.Context, tipo, sector string) ([]entity.StatRecord, error) {
	switch strings.ToLower(tipo) {
	case "trimestral":
		sql := `
			SELECT Año, Trimestre, Actividad, Valor, Variacion
			FROM pbg_valor_trimestral
			ORDER BY Año DESC, Trimestre DESC
			LIMIT 20`
		return r.query(ctx, "datalake_economico", "pbg_valor_trimestral", sql)

	case "desglosado":
		sql := "SELECT año, descripcion, valor, variacion_interanual FROM pbg_anual_desglosado WHERE 1=1"
		var args []any
		if sector != "" {
			sql += " AND descripcion LIKE ?"
			args = append(args, like(sector))
		}
		sql += " ORDER BY año DESC, valor DESC LIMIT 30"
		return r.query(ctx, "datalake_economico", "pbg_anual_desglosado", sql, args...)

	default:
		sql := "SELECT Año, Actividad, Valor, Variacion FROM pbg_valor_anual WHERE 1=1"
		var args []any
		if sector != "" {
			sql += " AND Actividad LIKE ?"
			args = append(args, like(sector))
		}
		sql += " ORDER BY Año DESC, Valor DESC LIMIT 30"
		return r.query(ctx, "datalake_economico", "pbg_valor_anual", sql, args...)
	}
}

func (r *StatisticsRepositoryImpl) Salarios(ctx context.Context, tipo string) ([]entity.StatRecord, error) {
	switch strings.ToLower(tipo) {
	case "ripte":
		return r.query(ctx, "datalake_economico", "ripte",
			"SELECT fecha, valor FROM ripte ORDER BY fecha DESC LIMIT 12")

	case "indicadores":
		sql := `
			SELECT periodo, is_sector_privado_registrado, is_sector_publico,
			       is_total_registrado, is_indice_total
			FROM indicadores_salarios ORDER BY periodo DESC LIMIT 12`
		return r.query(ctx, "datalake_economico", "indicadores_salarios", sql)

	default:
		sql := `
			SELECT fecha, salario_mvm_mensual, salario_mvm_diario, salario_mvm_hora
			FROM salario_mvm ORDER BY fecha DESC LIMIT 12`
		return r.query(ctx, "datalake_economico", "salario_mvm", sql)
	}
}

func (r *StatisticsRepositoryImpl) Supermercados(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	sql := `
		SELECT s.fecha, p.nombre_provincia_indec AS provincia,
		       s.total_facturacion, s.bebidas, s.almacen, s.lacteos, s.carnes
		FROM supermercado_encuesta s
		LEFT JOIN identificador_provincias p ON s.id_provincia_indec = p.id_provincia_indec
		WHERE 1=1`
	var args []any
	if provincia != "" {
		sql += " AND p.nombre_provincia_indec LIKE ?"
		args = append(args, like(provincia))
	}
	sql += " ORDER BY s.fecha DESC LIMIT 20"
	return r.query(ctx, "datalake_economico", "supermercado_encuesta", sql, args...)
}

// construccionTables maps the dataset flavor to its IERIC table.
var construccionTables = map[string]string{
	"ingresos":  "ieric_ingreso",
	"actividad": "ieric_actividad",
	"puestos":   "ieric_puestos_trabajo",
}

func (r *StatisticsRepositoryImpl) Construccion(ctx context.Context, tipo string) ([]entity.StatRecord, error) {
	table, ok := construccionTables[strings.ToLower(tipo)]
	if !ok {
		table = "ieric_puestos_trabajo"
	}
	return r.query(ctx, "datalake_economico", table,
		"SELECT * FROM `"+table+"` ORDER BY fecha DESC LIMIT 20")
}

func (r *StatisticsRepositoryImpl) IPCCorrientes(ctx context.Context) ([]entity.StatRecord, error) {
	sql := `
		SELECT fecha, valor, var_mensual, var_interanual
		FROM ipicorr
		ORDER BY fecha DESC
		LIMIT 12`
	return r.query(ctx, "datalake_economico", "ipicorr", sql)
}

func like(term string) string {
	return "%" + term + "%"
}
