package intent

import (
	"context"
	"path/filepath"
	"testing"

	"ipecd-chatbot-be/pkg/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetectorTree(t *testing.T) *menu.Tree {
	t.Helper()
	tree := menu.NewTree(menu.NewFileStore(filepath.Join(t.TempDir(), "menu.json")))
	tree.Load()
	return tree
}

type fakeStructure map[string][]menu.TableInfo

func (f fakeStructure) DatabaseStructure(ctx context.Context) (map[string][]menu.TableInfo, error) {
	return f, nil
}

func TestDetectNumberSelection(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))

	t.Run("submenu child", func(t *testing.T) {
		d := detector.Detect("2", "root")
		md, ok := d.(MenuDetection)
		require.True(t, ok)
		assert.Equal(t, "socio", md.NodeID)
		assert.Equal(t, 1.0, md.Score)
	})

	t.Run("query leaf child", func(t *testing.T) {
		d := detector.Detect("1", "economico")
		qd, ok := d.(QueryDetection)
		require.True(t, ok)
		assert.Equal(t, "datalake_economico", qd.NodeID)
		assert.Equal(t, "datalake_economico", qd.DBQuery)
	})

	t.Run("out of range falls through", func(t *testing.T) {
		d := detector.Detect("9", "root")
		_, ok := d.(OpenDetection)
		assert.True(t, ok)
	})
}

func TestDetectNavigationWords(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))

	d := detector.Detect("menu", "economico")
	md, ok := d.(MenuDetection)
	require.True(t, ok)
	assert.Equal(t, "root", md.NodeID)

	d = detector.Detect("atrás", "economico")
	_, ok = d.(BackDetection)
	assert.True(t, ok)

	d = detector.Detect("ayuda", "root")
	md, ok = d.(MenuDetection)
	require.True(t, ok)
	assert.Equal(t, "ayuda", md.NodeID)
}

func TestDetectMenuTermMapping(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))

	d := detector.Detect("quiero ver el datalake economico", "root")
	md, ok := d.(MenuDetection)
	require.True(t, ok)
	assert.Equal(t, "economico", md.NodeID)
	assert.Equal(t, 0.95, md.Score)

	d = detector.Detect("dwh social", "root")
	md, ok = d.(MenuDetection)
	require.True(t, ok)
	assert.Equal(t, "socio", md.NodeID)
}

func TestDetectStructureQuery(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))

	d := detector.Detect("que hay en la base", "root")
	qd, ok := d.(QueryDetection)
	require.True(t, ok)
	assert.Equal(t, "structure", qd.DBQuery)
	assert.Equal(t, 0.9, qd.Score)
}

func TestDetectOpenQuery(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))

	d := detector.Detect("ultimo valor de inflacion", "root")
	od, ok := d.(OpenDetection)
	require.True(t, ok)
	assert.Equal(t, "ultimo valor de inflacion", od.Query)
	assert.Equal(t, "ultimo", od.QueryType)
	assert.Equal(t, 0.6, od.Score)
}

func TestDetectUsesWarehouseVocabulary(t *testing.T) {
	detector := NewDetector(newDetectorTree(t))
	detector.LoadVocabulary(context.Background(), fakeStructure{
		"datalake_economico": {{
			Name:    "ipc",
			Columns: []string{"valor", "region", "fecha"},
		}},
	})

	d := detector.Detect("valor del ipc", "root")
	od, ok := d.(OpenDetection)
	require.True(t, ok)
	assert.Equal(t, 0.8, od.Score)
	assert.Contains(t, od.DBMatches, "ipc")
	assert.Contains(t, od.DBMatches, "valor")
	// Bookkeeping columns never enter the vocabulary.
	assert.NotContains(t, od.DBMatches, "fecha")
	assert.Contains(t, od.Keywords, "database_match")
}
