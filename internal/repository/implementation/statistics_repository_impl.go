package implementation

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"ipecd-chatbot-be/internal/config"
	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/menu"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// searchStopwords never count as search terms.
var searchStopwords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "de": {}, "del": {}, "en": {},
	"un": {}, "una": {}, "y": {}, "o": {}, "que": {}, "para": {}, "por": {},
	"con": {}, "sin": {},
}

// tableSynonyms widens search terms before matching table names, so
// "conectividad" still finds the internet tables.
var tableSynonyms = []struct {
	name     string
	synonyms []string
}{
	{"internet", []string{"internet", "conectividad", "acceso", "online", "red"}},
	{"agua", []string{"agua", "beber", "cocinar", "potable"}},
	{"cloaca", []string{"cloaca", "alcantarillado", "saneamiento"}},
	{"salud", []string{"salud", "cobertura", "obra social", "pami"}},
	{"educacion", []string{"educacion", "escolar", "asistencia", "clima educativo"}},
	{"vivienda", []string{"vivienda", "hogar", "inmat", "calidad"}},
	{"empleo", []string{"empleo", "trabajo", "ocupacion", "laboral"}},
	{"sexo", []string{"sexo", "genero", "masculino", "femenino"}},
	{"censo", []string{"censo", "poblacion", "demografico"}},
	{"patentamiento", []string{"patentamiento", "vehiculo", "auto", "moto", "dnrpa"}},
	{"combustible", []string{"combustible", "nafta", "gasoil", "gasolina"}},
	{"inflacion", []string{"inflacion", "ipc", "precios", "indice"}},
	{"pbg", []string{"pbg", "producto bruto", "geografico", "economico"}},
}

var metaColumns = map[string]struct{}{
	"id": {}, "created_at": {}, "updated_at": {}, "deleted_at": {}, "timestamp": {},
}

var tableQueryPattern = regexp.MustCompile(`^([^.]+)\.([^.]+)$`)

// StatisticsRepositoryImpl talks to the MySQL warehouse. One engine per
// database, created lazily; table and column listings are cached for the
// process lifetime because the warehouse schema only changes between
// deploys, and search results are cached briefly to absorb repeated
// questions.
type StatisticsRepositoryImpl struct {
	cfg config.WarehouseConfig

	mu      sync.Mutex
	engines map[string]*gorm.DB

	schemaMu sync.RWMutex
	tables   map[string][]string
	columns  map[string][]string

	searchCache *gocache.Cache
	perDBBudget time.Duration
}

func NewStatisticsRepository(cfg config.WarehouseConfig) contract.StatisticsRepository {
	return &StatisticsRepositoryImpl{
		cfg:         cfg,
		engines:     make(map[string]*gorm.DB),
		tables:      make(map[string][]string),
		columns:     make(map[string][]string),
		searchCache: gocache.New(5*time.Minute, 10*time.Minute),
		perDBBudget: 3 * time.Second,
	}
}

func (r *StatisticsRepositoryImpl) engine(dbName string) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.engines[dbName]; ok {
		return db, nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&timeout=5s&readTimeout=10s&writeTimeout=10s",
		r.cfg.User, r.cfg.Password, r.cfg.Host, r.cfg.Port, dbName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open warehouse database %s: %w", dbName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(15)
	sqlDB.SetConnMaxLifetime(time.Hour)

	r.engines[dbName] = db
	log.Printf("[STATS] opened warehouse engine for %s", dbName)
	return db, nil
}

// engineByKey resolves a logical key like "dwh_socio" to its engine.
func (r *StatisticsRepositoryImpl) engineByKey(dbKey string) (*gorm.DB, string, error) {
	for _, db := range r.cfg.Databases {
		if db.Key == dbKey || db.Name == dbKey {
			engine, err := r.engine(db.Name)
			return engine, db.Name, err
		}
	}
	return nil, "", fmt.Errorf("unknown warehouse database %q", dbKey)
}

func (r *StatisticsRepositoryImpl) Available() bool {
	for _, db := range r.cfg.Databases {
		engine, err := r.engine(db.Name)
		if err != nil {
			continue
		}
		if sqlDB, err := engine.DB(); err == nil && sqlDB.Ping() == nil {
			return true
		}
	}
	return false
}

// query runs raw SQL against one database and scans every row
// generically, preserving the column order of the select.
func (r *StatisticsRepositoryImpl) query(ctx context.Context, dbKey, table, sql string, args ...any) ([]entity.StatRecord, error) {
	engine, dbName, err := r.engineByKey(dbKey)
	if err != nil {
		return nil, err
	}

	rows, err := engine.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", dbName, table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []entity.StatRecord
	for rows.Next() {
		raw := make([]any, len(cols))
		for i := range raw {
			raw[i] = new(any)
		}
		if err := rows.Scan(raw...); err != nil {
			return nil, err
		}

		values := make(map[string]any, len(cols))
		for i, col := range cols {
			v := *(raw[i].(*any))
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[col] = v
		}
		records = append(records, entity.StatRecord{
			SourceDB:    dbName,
			SourceTable: table,
			Columns:     cols,
			Values:      values,
		})
	}
	return records, rows.Err()
}

func (r *StatisticsRepositoryImpl) tableNames(ctx context.Context, dbKey string) ([]string, error) {
	engine, dbName, err := r.engineByKey(dbKey)
	if err != nil {
		return nil, err
	}

	r.schemaMu.RLock()
	cached, ok := r.tables[dbName]
	r.schemaMu.RUnlock()
	if ok {
		return cached, nil
	}

	var names []string
	if err := engine.WithContext(ctx).Raw("SHOW TABLES").Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("list tables of %s: %w", dbName, err)
	}

	r.schemaMu.Lock()
	r.tables[dbName] = names
	r.schemaMu.Unlock()
	return names, nil
}

func (r *StatisticsRepositoryImpl) columnNames(ctx context.Context, dbKey, table string) ([]string, error) {
	engine, dbName, err := r.engineByKey(dbKey)
	if err != nil {
		return nil, err
	}

	cacheKey := dbName + "." + table
	r.schemaMu.RLock()
	cached, ok := r.columns[cacheKey]
	r.schemaMu.RUnlock()
	if ok {
		return cached, nil
	}

	rows, err := engine.WithContext(ctx).Raw("DESCRIBE `" + table + "`").Rows()
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", cacheKey, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		raw := make([]any, len(cols))
		for i := range raw {
			raw[i] = new(any)
		}
		if err := rows.Scan(raw...); err != nil {
			return nil, err
		}
		// DESCRIBE puts the column name in the first field.
		v := *(raw[0].(*any))
		if b, ok := v.([]byte); ok {
			names = append(names, string(b))
		} else if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}

	r.schemaMu.Lock()
	r.columns[cacheKey] = names
	r.schemaMu.Unlock()
	return names, rows.Err()
}

func (r *StatisticsRepositoryImpl) DatabaseStructure(ctx context.Context) (map[string][]menu.TableInfo, error) {
	structure := make(map[string][]menu.TableInfo)

	for _, db := range r.cfg.Databases {
		tables, err := r.tableNames(ctx, db.Key)
		if err != nil {
			log.Printf("[STATS] structure of %s unavailable: %v", db.Name, err)
			continue
		}
		if len(tables) > 20 {
			tables = tables[:20]
		}

		var infos []menu.TableInfo
		for _, table := range tables {
			columns, err := r.columnNames(ctx, db.Key, table)
			if err != nil {
				continue
			}
			info := menu.TableInfo{Name: table, Columns: columns}
			if rows, err := r.query(ctx, db.Key, table, "SELECT * FROM `"+table+"` LIMIT 1"); err == nil && len(rows) == 1 {
				sample := make(map[string]string, len(rows[0].Columns))
				for _, col := range rows[0].Columns {
					sample[col] = fmt.Sprintf("%v", rows[0].Values[col])
				}
				info.Sample = sample
			}
			infos = append(infos, info)
		}
		if len(infos) > 0 {
			structure[db.Name] = infos
		}
	}

	if len(structure) == 0 {
		return nil, fmt.Errorf("no warehouse database reachable")
	}
	return structure, nil
}

func (r *StatisticsRepositoryImpl) QueryTable(ctx context.Context, dbKey, table string, limit int) ([]entity.StatRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	columns, err := r.columnNames(ctx, dbKey, table)
	if err != nil {
		return nil, err
	}

	sql := "SELECT * FROM `" + table + "` LIMIT ?"
	if dateCol := dateColumn(columns); dateCol != "" {
		sql = "SELECT * FROM `" + table + "` ORDER BY `" + dateCol + "` DESC LIMIT ?"
	}
	return r.query(ctx, dbKey, table, sql, limit)
}

// dateColumn picks the column used for recency ordering.
func dateColumn(columns []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "fecha") || strings.Contains(lower, "date") ||
			strings.Contains(lower, "año") || strings.Contains(lower, "ano") {
			return col
		}
	}
	return ""
}

func searchTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if _, stop := searchStopwords[word]; stop || len([]rune(word)) <= 2 {
			continue
		}
		terms = append(terms, word)
	}
	if len(terms) == 0 {
		words := strings.Fields(strings.ToLower(query))
		if len(words) > 3 {
			words = words[:3]
		}
		terms = words
	}
	return terms
}

// relevantTable reports whether a table name matches the (synonym
// expanded) search terms.
func relevantTable(table string, terms []string) bool {
	tableLower := strings.ToLower(table)

	expanded := append([]string(nil), terms...)
	for _, term := range terms {
		for _, group := range tableSynonyms {
			match := false
			for _, syn := range group.synonyms {
				if term == syn || strings.Contains(term, syn) {
					match = true
					break
				}
			}
			if match {
				expanded = append(expanded, group.synonyms...)
			}
		}
	}

	for _, term := range expanded {
		if strings.Contains(tableLower, term) {
			return true
		}
	}
	return false
}

func (r *StatisticsRepositoryImpl) Search(ctx context.Context, query string, limit, maxResults int) ([]entity.StatRecord, error) {
	if limit <= 0 {
		limit = 3
	}
	if maxResults <= 0 {
		maxResults = 15
	}

	cacheKey := fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%s:%d:%d", strings.ToLower(strings.TrimSpace(query)), limit, maxResults))))
	if cached, ok := r.searchCache.Get(cacheKey); ok {
		return cached.([]entity.StatRecord), nil
	}

	// "database.table" asks for one table directly.
	if m := tableQueryPattern.FindStringSubmatch(strings.TrimSpace(query)); m != nil {
		if records, err := r.QueryTable(ctx, m[1], m[2], maxResults); err == nil && len(records) > 0 {
			r.searchCache.Set(cacheKey, records, gocache.DefaultExpiration)
			return records, nil
		}
	}

	results := r.scan(ctx, searchTerms(query), limit, maxResults)

	// Nothing found: retry with just the first significant term.
	if len(results) == 0 {
		terms := searchTerms(query)
		if len(terms) > 1 {
			log.Printf("[STATS] no results for full query, retrying with %q", terms[0])
			results = r.scan(ctx, terms[:1], limit*2, maxResults)
		}
	}

	// Still nothing: find tables whose name matches and show their
	// latest rows as samples.
	if len(results) == 0 {
		results = r.sampleByTableName(ctx, query, limit, maxResults)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	r.searchCache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results, nil
}

// scan is the straight LIKE search across every database.
func (r *StatisticsRepositoryImpl) scan(ctx context.Context, terms []string, limit, maxResults int) []entity.StatRecord {
	if len(terms) == 0 {
		return nil
	}

	var results []entity.StatRecord
	for _, db := range r.cfg.Databases {
		if len(results) >= maxResults {
			break
		}
		started := time.Now()

		tables, err := r.tableNames(ctx, db.Key)
		if err != nil {
			log.Printf("[STATS] search skipping %s: %v", db.Name, err)
			continue
		}

		var relevant, rest []string
		for _, table := range tables {
			if relevantTable(table, terms) {
				relevant = append(relevant, table)
			} else {
				rest = append(rest, table)
			}
		}

		// Fall back to column-name relevance when table names said nothing.
		if len(relevant) == 0 {
			probe := rest
			if len(probe) > 10 {
				probe = probe[:10]
			}
			for _, table := range probe {
				columns, err := r.columnNames(ctx, db.Key, table)
				if err != nil {
					continue
				}
				joined := strings.ToLower(strings.Join(columns, " "))
				for _, term := range terms {
					if strings.Contains(joined, term) {
						relevant = append(relevant, table)
						break
					}
				}
				if len(relevant) >= 3 {
					break
				}
			}
		}

		candidates := append(relevant, rest...)
		if len(candidates) > 5 {
			candidates = candidates[:5]
		}

		for _, table := range candidates {
			if len(results) >= maxResults || time.Since(started) > r.perDBBudget {
				break
			}
			rows, err := r.searchTable(ctx, db.Key, table, terms, limit)
			if err != nil {
				continue
			}
			for _, row := range rows {
				results = append(results, row)
				if len(results) >= maxResults {
					break
				}
			}
		}
	}
	return results
}

func (r *StatisticsRepositoryImpl) searchTable(ctx context.Context, dbKey, table string, terms []string, limit int) ([]entity.StatRecord, error) {
	columns, err := r.columnNames(ctx, dbKey, table)
	if err != nil {
		return nil, err
	}

	var textColumns []string
	for _, col := range columns {
		if _, meta := metaColumns[strings.ToLower(col)]; !meta {
			textColumns = append(textColumns, col)
		}
	}
	if len(textColumns) == 0 {
		return nil, nil
	}
	if len(textColumns) > 3 {
		textColumns = textColumns[:3]
	}

	searchTerms := terms
	if len(searchTerms) > 2 {
		searchTerms = searchTerms[:2]
	}

	var conditions []string
	var args []any
	for _, term := range searchTerms {
		var perTerm []string
		for _, col := range textColumns {
			perTerm = append(perTerm, "`"+col+"` LIKE ?")
			args = append(args, "%"+term+"%")
		}
		conditions = append(conditions, "("+strings.Join(perTerm, " OR ")+")")
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	sql := "SELECT * FROM `" + table + "` WHERE " + strings.Join(conditions, " OR ")
	if dateCol := dateColumn(columns); dateCol != "" {
		sql += " ORDER BY `" + dateCol + "` DESC"
	}
	sql += " LIMIT ?"
	args = append(args, limit)

	return r.query(ctx, dbKey, table, sql, args...)
}

// sampleByTableName is the last search strategy: tables whose name
// contains a query word contribute their latest rows, flagged as
// samples so rendering can qualify them.
func (r *StatisticsRepositoryImpl) sampleByTableName(ctx context.Context, query string, limit, maxResults int) []entity.StatRecord {
	words := strings.Fields(strings.ToLower(query))

	var results []entity.StatRecord
	for _, db := range r.cfg.Databases {
		tables, err := r.tableNames(ctx, db.Key)
		if err != nil {
			continue
		}
		for _, table := range tables {
			tableLower := strings.ToLower(table)
			matched := false
			for _, word := range words {
				if len([]rune(word)) > 2 && strings.Contains(tableLower, word) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			rows, err := r.QueryTable(ctx, db.Key, table, limit*2)
			if err != nil {
				continue
			}
			if len(rows) > 5 {
				rows = rows[:5]
			}
			for _, row := range rows {
				row.IsSample = true
				results = append(results, row)
				if len(results) >= maxResults {
					return results
				}
			}
		}
	}
	return results
}

func (r *StatisticsRepositoryImpl) SearchDatabase(ctx context.Context, query, dbKey string) ([]entity.StatRecord, error) {
	if dbKey == "" {
		return r.Search(ctx, query, 5, 20)
	}

	terms := searchTerms(query)
	tables, err := r.tableNames(ctx, dbKey)
	if err != nil {
		return nil, err
	}
	if len(tables) > 10 {
		tables = tables[:10]
	}

	var results []entity.StatRecord
	for _, table := range tables {
		rows, err := r.searchTable(ctx, dbKey, table, terms, 5)
		if err != nil {
			continue
		}
		results = append(results, rows...)
		if len(results) >= 20 {
			break
		}
	}
	if len(results) > 20 {
		results = results[:20]
	}
	return results, nil
}
