package tools

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ipecd-chatbot-be/pkg/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(result string) Handler {
	return func(ctx context.Context, args map[string]string) (string, error) {
		return result, nil
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("get_ipc", echoHandler("ipc")))
	assert.True(t, reg.Has("get_ipc"))

	err := reg.Register("get_ipc", echoHandler("otra vez"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, reg.Register("", echoHandler("x")))
	assert.Error(t, reg.Register("get_nil", nil))
}

func TestRegistryListKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"get_ipc", "get_dolar", "get_censo"}
	for _, name := range names {
		require.NoError(t, reg.Register(name, echoHandler(name)))
	}
	assert.Equal(t, names, reg.ListAvailable())
}

func TestRegistryAvailability(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.IsAvailable())

	require.NoError(t, reg.Register("get_ipc", echoHandler("ipc")))
	assert.True(t, reg.IsAvailable())
}

func TestRegistryExecute(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("get_ipc", echoHandler("datos del ipc")))
	require.NoError(t, reg.Register("get_falla", func(ctx context.Context, args map[string]string) (string, error) {
		return "", errors.New("sin conexion")
	}))

	out, err := reg.Execute(context.Background(), "get_ipc", nil)
	require.NoError(t, err)
	assert.Equal(t, "datos del ipc", out)

	_, err = reg.Execute(context.Background(), "get_nada", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)

	_, err = reg.Execute(context.Background(), "get_falla", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get_falla")
	assert.Contains(t, err.Error(), "sin conexion")
}

func TestRegistryExecutePassesArgs(t *testing.T) {
	reg := NewRegistry()
	var got map[string]string
	require.NoError(t, reg.Register("get_dolar", func(ctx context.Context, args map[string]string) (string, error) {
		got = args
		return "ok", nil
	}))

	_, err := reg.Execute(context.Background(), "get_dolar", map[string]string{"tipo": "blue"})
	require.NoError(t, err)
	assert.Equal(t, "blue", got["tipo"])

	// Nil args arrive as an empty map, never nil.
	_, err = reg.Execute(context.Background(), "get_dolar", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestValidateMenu(t *testing.T) {
	tree := menu.NewTree(menu.NewFileStore(filepath.Join(t.TempDir(), "menu.json")))
	tree.Load()
	require.NoError(t, tree.Apply([]*menu.Node{{
		ID:     "dolar_hoy",
		Title:  "Dólar hoy",
		Action: menu.ActionTool,
		Tool:   "get_dolar",
	}}, map[string][]string{"economico": {"dolar_hoy"}}))

	reg := NewRegistry()

	err := reg.ValidateMenu(tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dolar_hoy -> get_dolar")

	require.NoError(t, reg.Register("get_dolar", echoHandler("ok")))
	assert.NoError(t, reg.ValidateMenu(tree))
}
