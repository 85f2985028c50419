package contract

import (
	"context"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/pkg/menu"
)

// StatisticsRepository reads the statistics warehouse. Dataset methods
// return raw rows in select order; rendering stays in the service layer.
// dbKey arguments name a configured warehouse database (for example
// "datalake_economico"), not the physical schema name.
type StatisticsRepository interface {
	// Available reports whether at least one warehouse database answers.
	Available() bool

	// DatabaseStructure lists every database with its tables, columns and
	// one sample row. Feeds menu generation and keyword harvesting.
	DatabaseStructure(ctx context.Context) (map[string][]menu.TableInfo, error)

	// Search scans the warehouse for rows matching the query, widening
	// its strategy when the straight scan finds nothing.
	Search(ctx context.Context, query string, limit, maxResults int) ([]entity.StatRecord, error)

	// SearchDatabase restricts the scan to one database ("" means all).
	SearchDatabase(ctx context.Context, query, dbKey string) ([]entity.StatRecord, error)

	// QueryTable returns the latest rows of one table, ordered by its
	// date column when one exists.
	QueryTable(ctx context.Context, dbKey, table string, limit int) ([]entity.StatRecord, error)

	IPC(ctx context.Context, fecha, region, categoria string) ([]entity.StatRecord, error)
	Dolar(ctx context.Context, tipo, fecha string) ([]entity.StatRecord, error)
	EmpleoEPH(ctx context.Context, provincia string) ([]entity.StatRecord, error)
	EmpleoSIPA(ctx context.Context, provincia string) ([]entity.StatRecord, error)
	Semaforo(ctx context.Context, tipo string) (*entity.StatRecord, error)
	CanastaBasica(ctx context.Context) ([]entity.StatRecord, error)
	ECV(ctx context.Context, aglomerado string) ([]entity.StatRecord, error)
	Censo(ctx context.Context, municipio string) ([]entity.StatRecord, error)
	CensoDepartamentos(ctx context.Context, departamento string) ([]entity.StatRecord, error)
	Combustible(ctx context.Context, provincia, producto string) ([]entity.StatRecord, error)
	Patentamientos(ctx context.Context, provincia, tipo string) ([]entity.StatRecord, error)
	Aeropuertos(ctx context.Context, aeropuerto string) ([]entity.StatRecord, error)
	OEDE(ctx context.Context, provincia, categoria string) ([]entity.StatRecord, error)
	Pobreza(ctx context.Context) ([]entity.StatRecord, error)
	EMAE(ctx context.Context, categoria string) ([]entity.StatRecord, error)
	PBG(ctx context.Context, tipo, sector string) ([]entity.StatRecord, error)
	Salarios(ctx context.Context, tipo string) ([]entity.StatRecord, error)
	Supermercados(ctx context.Context, provincia string) ([]entity.StatRecord, error)
	Construccion(ctx context.Context, tipo string) ([]entity.StatRecord, error)
	IPCCorrientes(ctx context.Context) ([]entity.StatRecord, error)
}
