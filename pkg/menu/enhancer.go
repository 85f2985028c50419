package menu

import (
	"context"
	"log"
	"strings"
	"sync"
)

// Enhancer is the single writer of the runtime menu mutation. The tree is
// shared across sessions, so enhancement runs at most once per process;
// concurrent callers block on the mutex and see the done flag afterwards.
// A failed attempt (warehouse unreachable) leaves done unset so a later
// turn can retry.
type Enhancer struct {
	mu        sync.Mutex
	done      bool
	tree      *Tree
	generator *Generator
}

func NewEnhancer(tree *Tree, generator *Generator) *Enhancer {
	return &Enhancer{
		tree:      tree,
		generator: generator,
	}
}

// Done reports whether the tree has been enhanced already.
func (e *Enhancer) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Enhance generates warehouse nodes and attaches them to the economico
// and socio menus. Enhancement only adds nodes, so running it is safe at
// any point of a conversation.
func (e *Enhancer) Enhance(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return nil
	}

	nodes, err := e.generator.GenerateNodes(ctx)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		e.done = true
		return nil
	}

	// A generated submenu belongs to the economic or social branch
	// depending on which source database its table leaves query.
	batch := make(map[string]*Node, len(nodes))
	for _, node := range nodes {
		batch[node.ID] = node
	}

	attach := map[string][]string{}
	for _, node := range nodes {
		if len(node.Children) == 0 {
			continue
		}
		isEconomic, isSocial := false, false
		for _, childID := range node.Children {
			child := batch[childID]
			if child == nil {
				child = e.tree.GetNode(childID)
			}
			if child == nil || child.DBQuery == "" {
				continue
			}
			query := strings.ToLower(child.DBQuery)
			if strings.Contains(query, "economico") {
				isEconomic = true
			} else if strings.Contains(query, "socio") {
				isSocial = true
			}
		}
		if isEconomic {
			attach["economico"] = append(attach["economico"], node.ID)
		} else if isSocial {
			attach["socio"] = append(attach["socio"], node.ID)
		}
	}

	if err := e.tree.Apply(nodes, attach); err != nil {
		return err
	}

	e.done = true
	log.Printf("[MENU] enhanced menu tree with %d dynamic nodes", len(nodes))
	return nil
}
