package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree(NewFileStore(filepath.Join(t.TempDir(), "menu.json")))
	tree.Load()
	return tree
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.Error(t, err)

	def := &Definition{
		RootNodeID: "root",
		Nodes: []*Node{
			{ID: "root", Title: "Menú", Action: ActionMenu, Children: []string{"a"}},
			{ID: "a", Title: "Opción A", Action: ActionQuery, DBQuery: "a"},
		},
	}
	require.NoError(t, store.Save(def))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "root", loaded.RootNodeID)
	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "Opción A", loaded.Nodes[1].Title)
}

func TestTreeLoadFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	tree := NewTree(NewFileStore(path))
	tree.Load()

	assert.Equal(t, "root", tree.RootID())
	assert.Equal(t, 10, tree.Size())
	require.NotNil(t, tree.GetNode("economico"))

	// The default definition gets persisted for the next start.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestTreeLoadBadJSONFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupto"), 0644))

	tree := NewTree(NewFileStore(path))
	tree.Load()

	assert.Equal(t, "root", tree.RootID())
	assert.Equal(t, 10, tree.Size())
}

func TestTreeLoadPersistedDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(&Definition{
		RootNodeID: "inicio",
		Nodes: []*Node{
			{ID: "inicio", Title: "Inicio", Action: ActionMenu, Children: []string{"precios"}},
			{ID: "precios", Title: "Precios", Action: ActionQuery, DBQuery: "precios"},
		},
	}))

	tree := NewTree(store)
	tree.Load()

	assert.Equal(t, "inicio", tree.RootID())
	assert.Equal(t, 2, tree.Size())
	assert.Nil(t, tree.GetNode("economico"))
}

func TestGetChildByNumber(t *testing.T) {
	tree := newTestTree(t)

	first := tree.GetChildByNumber("root", 1)
	require.NotNil(t, first)
	assert.Equal(t, "economico", first.ID)

	third := tree.GetChildByNumber("root", 3)
	require.NotNil(t, third)
	assert.Equal(t, "general", third.ID)

	assert.Nil(t, tree.GetChildByNumber("root", 0))
	assert.Nil(t, tree.GetChildByNumber("root", 4))
	assert.Nil(t, tree.GetChildByNumber("desconocido", 1))
	// Leaves have no children to select from.
	assert.Nil(t, tree.GetChildByNumber("datalake_economico", 1))
}

func TestNearestMenuAncestor(t *testing.T) {
	tree := newTestTree(t)

	parent := tree.NearestMenuAncestor("datalake_economico")
	require.NotNil(t, parent)
	assert.Equal(t, "economico", parent.ID)

	parent = tree.NearestMenuAncestor("economico")
	require.NotNil(t, parent)
	assert.Equal(t, "root", parent.ID)

	assert.Nil(t, tree.NearestMenuAncestor("desconocido"))
}

func TestFormatMenu(t *testing.T) {
	tree := newTestTree(t)

	t.Run("numbered submenu", func(t *testing.T) {
		out := tree.FormatMenu("root")
		assert.Contains(t, out, "1. 📊 Datos Económicos")
		assert.Contains(t, out, "2. 👥 Datos Sociales")
		assert.Contains(t, out, "3. ℹ️ Información General")
		assert.Contains(t, out, "└─ Información económica y financiera")
	})

	t.Run("info leaf shows help", func(t *testing.T) {
		out := tree.FormatMenu("ayuda")
		assert.Contains(t, out, "CÓMO USAR EL CHATBOT")
	})

	t.Run("query leaf shows search placeholder", func(t *testing.T) {
		out := tree.FormatMenu("datalake_economico")
		assert.Equal(t, "🔍 Buscando información sobre: 📈 Datalake Económico", out)
	})

	t.Run("unknown node degrades to first node", func(t *testing.T) {
		assert.Equal(t, tree.FormatMenu("root"), tree.FormatMenu("no_existe"))
	})

	t.Run("empty id renders the root", func(t *testing.T) {
		assert.Equal(t, tree.FormatMenu("root"), tree.FormatMenu(""))
	})
}

func TestFindNodeByKeyword(t *testing.T) {
	tree := newTestTree(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare number selects from root", "1", "economico"},
		{"title match", "ayuda", "ayuda"},
		{"structure by keyword", "estructura", "estructura"},
		{"submenu keyword", "finanzas", "economico"},
		{"social keyword", "datos sociales", "socio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := tree.FindNodeByKeyword(tt.text)
			require.NotNil(t, node)
			assert.Equal(t, tt.want, node.ID)
		})
	}

	t.Run("no match below threshold", func(t *testing.T) {
		assert.Nil(t, tree.FindNodeByKeyword("receta de milanesas"))
	})

	t.Run("action queries prefer tool nodes", func(t *testing.T) {
		require.NoError(t, tree.Apply([]*Node{{
			ID:       "dolar_hoy",
			Title:    "Dólar hoy",
			Action:   ActionTool,
			Tool:     "get_dolar",
			Keywords: []string{"dolar"},
		}}, map[string][]string{"economico": {"dolar_hoy"}}))

		node := tree.FindNodeByKeyword("dame el dolar")
		require.NotNil(t, node)
		assert.Equal(t, "dolar_hoy", node.ID)
	})
}

func TestTreeApplyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	tree := NewTree(NewFileStore(path))
	tree.Load()

	generated := []*Node{
		{ID: "eco_ipc", Title: "IPC", Action: ActionQuery, DBQuery: "datalake_economico ipc"},
	}
	require.NoError(t, tree.Apply(generated, map[string][]string{"economico": {"eco_ipc"}}))

	economico := tree.GetNode("economico")
	require.NotNil(t, economico)
	assert.Contains(t, economico.Children, "eco_ipc")

	// A fresh tree on the same store sees the applied nodes.
	reloaded := NewTree(NewFileStore(path))
	reloaded.Load()
	require.NotNil(t, reloaded.GetNode("eco_ipc"))
	assert.Contains(t, reloaded.GetNode("economico").Children, "eco_ipc")
}

func TestTreeApplyDeduplicatesChildren(t *testing.T) {
	tree := newTestTree(t)

	nodes := []*Node{{ID: "extra", Title: "Extra", Action: ActionQuery, DBQuery: "x"}}
	require.NoError(t, tree.Apply(nodes, map[string][]string{"economico": {"extra", "extra"}}))
	require.NoError(t, tree.Apply(nodes, map[string][]string{"economico": {"extra"}}))

	children := tree.GetNode("economico").Children
	count := 0
	for _, id := range children {
		if id == "extra" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGetNodeReturnsCopies(t *testing.T) {
	tree := newTestTree(t)

	node := tree.GetNode("economico")
	require.NotNil(t, node)
	node.Title = "mutado"
	node.Children[0] = "otro"

	fresh := tree.GetNode("economico")
	assert.Equal(t, "📊 Datos Económicos", fresh.Title)
	assert.Equal(t, "datalake_economico", fresh.Children[0])
}

func TestRelatedOptionsFinder(t *testing.T) {
	tree := newTestTree(t)

	t.Run("keyword hit", func(t *testing.T) {
		finder := NewRelatedOptionsFinder(tree, 5)
		related := finder.FindRelated("población")
		require.NotEmpty(t, related)
		assert.Equal(t, "socio", related[0].Node.ID)
	})

	t.Run("no options for unrelated text", func(t *testing.T) {
		finder := NewRelatedOptionsFinder(tree, 5)
		assert.Empty(t, finder.FindRelated("receta de milanesas"))
	})

	t.Run("short and common words are ignored", func(t *testing.T) {
		finder := NewRelatedOptionsFinder(tree, 5)
		assert.Empty(t, finder.FindRelated("de la el un"))
	})

	t.Run("cap respects the configured maximum", func(t *testing.T) {
		finder := NewRelatedOptionsFinder(tree, 2)
		related := finder.FindRelated("datos")
		assert.Len(t, related, 2)
	})
}

func TestFormatRelatedMenu(t *testing.T) {
	tree := newTestTree(t)
	finder := NewRelatedOptionsFinder(tree, 5)

	assert.Equal(t, "", finder.FormatRelatedMenu("x", nil))

	related := finder.FindRelated("población")
	out := finder.FormatRelatedMenu("poblacion de goya", related)
	assert.Contains(t, out, "No encontré información específica sobre 'poblacion de goya'")
	assert.Contains(t, out, "1. 👥 Datos Sociales")
	assert.Contains(t, out, "💡")
}
