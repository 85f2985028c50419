package service

import (
	"context"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/pkg/menu"
)

// nopLogger satisfies logger.ILogger for tests that do not care about
// log output.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// statRec builds a warehouse row with Columns in the given order.
func statRec(values map[string]any, cols ...string) entity.StatRecord {
	return entity.StatRecord{Columns: cols, Values: values}
}

// fakeStats is an in-memory stand-in for the warehouse repository.
// Tests populate only the fields the handler under test reads; every
// other method returns empty results.
type fakeStats struct {
	available bool
	err       error

	ipc          []entity.StatRecord
	dolar        []entity.StatRecord
	empleoEPH    []entity.StatRecord
	empleoSIPA   []entity.StatRecord
	semaforo     *entity.StatRecord
	censoDeptos  []entity.StatRecord
	searchHits   []entity.StatRecord
	dbSearchHits []entity.StatRecord
	structure    map[string][]menu.TableInfo

	lastDolarTipo    string
	lastSemaforoTipo string
	lastSearchQuery  string
	lastSearchDB     string
}

func (f *fakeStats) Available() bool { return f.available }

func (f *fakeStats) DatabaseStructure(ctx context.Context) (map[string][]menu.TableInfo, error) {
	return f.structure, f.err
}

func (f *fakeStats) Search(ctx context.Context, query string, limit, maxResults int) ([]entity.StatRecord, error) {
	f.lastSearchQuery = query
	return f.searchHits, f.err
}

func (f *fakeStats) SearchDatabase(ctx context.Context, query, dbKey string) ([]entity.StatRecord, error) {
	f.lastSearchQuery = query
	f.lastSearchDB = dbKey
	return f.dbSearchHits, f.err
}

func (f *fakeStats) QueryTable(ctx context.Context, dbKey, table string, limit int) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) IPC(ctx context.Context, fecha, region, categoria string) ([]entity.StatRecord, error) {
	return f.ipc, f.err
}

func (f *fakeStats) Dolar(ctx context.Context, tipo, fecha string) ([]entity.StatRecord, error) {
	f.lastDolarTipo = tipo
	return f.dolar, f.err
}

func (f *fakeStats) EmpleoEPH(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	return f.empleoEPH, f.err
}

func (f *fakeStats) EmpleoSIPA(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	return f.empleoSIPA, f.err
}

func (f *fakeStats) Semaforo(ctx context.Context, tipo string) (*entity.StatRecord, error) {
	f.lastSemaforoTipo = tipo
	return f.semaforo, f.err
}

func (f *fakeStats) CanastaBasica(ctx context.Context) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) ECV(ctx context.Context, aglomerado string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Censo(ctx context.Context, municipio string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) CensoDepartamentos(ctx context.Context, departamento string) ([]entity.StatRecord, error) {
	return f.censoDeptos, f.err
}

func (f *fakeStats) Combustible(ctx context.Context, provincia, producto string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Patentamientos(ctx context.Context, provincia, tipo string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Aeropuertos(ctx context.Context, aeropuerto string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) OEDE(ctx context.Context, provincia, categoria string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Pobreza(ctx context.Context) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) EMAE(ctx context.Context, categoria string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) PBG(ctx context.Context, tipo, sector string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Salarios(ctx context.Context, tipo string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Supermercados(ctx context.Context, provincia string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) Construccion(ctx context.Context, tipo string) ([]entity.StatRecord, error) {
	return nil, f.err
}

func (f *fakeStats) IPCCorrientes(ctx context.Context) ([]entity.StatRecord, error) {
	return nil, f.err
}
