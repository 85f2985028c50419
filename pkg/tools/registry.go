// Package tools holds the registry of named statistics tools the chat can
// invoke. Handlers are registered once at startup and validated against
// the menu tree, so a menu entry can never point at a missing tool.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ipecd-chatbot-be/pkg/menu"
)

// ErrToolNotFound is returned by Execute for an unregistered tool name.
var ErrToolNotFound = errors.New("tool not found")

// User-facing fallback messages, kept in the bot's voice.
const (
	MsgToolUnavailable  = "Herramienta %s no disponible"
	MsgToolFailed       = "Lo siento, hubo un error al obtener los datos. Por favor intenta de nuevo."
	MsgToolsUnavailable = "Error: Herramientas de base de datos no disponibles"
)

// Handler runs one tool. Args carry extracted parameters like the
// municipality or the dollar type; handlers ignore keys they do not use.
type Handler func(ctx context.Context, args map[string]string) (string, error)

// Registry maps tool names to handlers. Registration happens during
// startup wiring; afterwards the registry is read-only and safe for
// concurrent Execute calls.
type Registry struct {
	handlers map[string]Handler
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds a handler to a name. Registering the same name twice is
// a wiring bug and fails loudly.
func (r *Registry) Register(name string, handler Handler) error {
	if name == "" || handler == nil {
		return fmt.Errorf("register tool %q: empty name or nil handler", name)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("register tool %q: already registered", name)
	}
	r.handlers[name] = handler
	r.order = append(r.order, name)
	return nil
}

// Has reports whether a tool name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// IsAvailable reports whether any tool is usable at all.
func (r *Registry) IsAvailable() bool {
	return len(r.handlers) > 0
}

// ListAvailable returns the registered tool names in registration order.
func (r *Registry) ListAvailable() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Execute runs the named tool. An unknown name returns ErrToolNotFound;
// handler failures come back wrapped with the tool name.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]string) (string, error) {
	handler, ok := r.handlers[name]
	if !ok {
		log.Printf("[TOOLS] tool not found: %s", name)
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]string{}
	}

	log.Printf("[TOOLS] executing %s with args %v", name, args)
	result, err := handler(ctx, args)
	if err != nil {
		return "", fmt.Errorf("execute tool %s: %w", name, err)
	}
	return result, nil
}

// ValidateMenu checks that every tool node in the tree references a
// registered handler. Run once at startup; a failure here means the menu
// file and the wiring disagree.
func (r *Registry) ValidateMenu(tree *menu.Tree) error {
	var missing []string
	for _, node := range tree.Nodes() {
		if node.Action != menu.ActionTool || node.Tool == "" {
			continue
		}
		if !r.Has(node.Tool) {
			missing = append(missing, fmt.Sprintf("%s -> %s", node.ID, node.Tool))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("menu references unregistered tools: %v", missing)
	}
	return nil
}
