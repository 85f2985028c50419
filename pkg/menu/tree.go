package menu

import (
	"fmt"
	"log"
	"sync"
)

// Tree owns the node map and the root id. It is shared process-wide and
// mutated at runtime by the enhancement path, so every accessor takes the
// lock. Node order follows the persisted definition (generated nodes are
// appended), which keeps keyword search deterministic.
type Tree struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	order  []string
	rootID string
	store  Store
}

func NewTree(store Store) *Tree {
	return &Tree{
		nodes: make(map[string]*Node),
		store: store,
	}
}

// Load reads the persisted definition. Any failure (missing file, bad
// JSON, missing root) falls back to the default tree and persists it.
// Load never fails past this boundary.
func (t *Tree) Load() {
	def, err := t.store.Load()
	if err != nil {
		log.Printf("[MENU] load failed, creating default menu: %v", err)
		t.createDefault()
		return
	}

	t.mu.Lock()
	t.nodes = make(map[string]*Node, len(def.Nodes))
	t.order = t.order[:0]
	for _, node := range def.Nodes {
		if node == nil || node.ID == "" {
			continue
		}
		if _, exists := t.nodes[node.ID]; exists {
			continue
		}
		node.Children = dedupe(node.Children)
		t.nodes[node.ID] = node
		t.order = append(t.order, node.ID)
	}

	t.rootID = def.RootNodeID
	if t.rootID == "" {
		t.rootID = "root"
	}
	if _, ok := t.nodes[t.rootID]; !ok {
		log.Printf("[MENU] root node %q not found, using first node", t.rootID)
		if len(t.order) > 0 {
			t.rootID = t.order[0]
		}
	}

	empty := len(t.nodes) == 0
	t.mu.Unlock()

	if empty {
		log.Printf("[MENU] definition has no nodes, creating default menu")
		t.createDefault()
		return
	}

	log.Printf("[MENU] menu tree loaded: %d nodes, root: %s", t.Size(), t.RootID())
}

func (t *Tree) createDefault() {
	nodes := defaultNodes()

	t.mu.Lock()
	t.nodes = make(map[string]*Node, len(nodes))
	t.order = t.order[:0]
	for _, node := range nodes {
		t.nodes[node.ID] = node
		t.order = append(t.order, node.ID)
	}
	t.rootID = "root"
	t.mu.Unlock()

	if err := t.persist(); err != nil {
		log.Printf("[MENU] persisting default menu failed: %v", err)
	}
}

func (t *Tree) persist() error {
	t.mu.RLock()
	def := &Definition{
		RootNodeID: t.rootID,
		Nodes:      make([]*Node, 0, len(t.order)),
	}
	for _, id := range t.order {
		if node, ok := t.nodes[id]; ok {
			def.Nodes = append(def.Nodes, node.clone())
		}
	}
	t.mu.RUnlock()

	return t.store.Save(def)
}

// GetNode returns a copy of the node, or nil when the id is unknown.
func (t *Tree) GetNode(id string) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[id].clone()
}

func (t *Tree) RootID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rootID
}

func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.rootID].clone()
}

func (t *Tree) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Nodes returns copies of every node in insertion order.
func (t *Tree) Nodes() []*Node {
	return t.snapshot()
}

// GetChildByNumber resolves a 1-indexed menu selection against a parent
// node. Out-of-range numbers and unknown parents return nil.
func (t *Tree) GetChildByNumber(nodeID string, number int) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.nodes[nodeID]
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	if number < 1 || number > len(node.Children) {
		return nil
	}
	return t.nodes[node.Children[number-1]].clone()
}

// FindPathToNode walks depth-first from the root to the target. The
// visited set guards against cycles introduced by generated nodes.
func (t *Tree) FindPathToNode(targetID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.rootID == "" {
		return nil
	}

	visited := make(map[string]struct{})
	var dfs func(currentID string, path []string) []string
	dfs = func(currentID string, path []string) []string {
		if currentID == targetID {
			return append(path, currentID)
		}
		node := t.nodes[currentID]
		if node == nil {
			return nil
		}
		visited[currentID] = struct{}{}
		for _, childID := range node.Children {
			if _, seen := visited[childID]; seen {
				continue
			}
			if result := dfs(childID, append(path, currentID)); result != nil {
				return result
			}
		}
		return nil
	}

	return dfs(t.rootID, nil)
}

// NearestMenuAncestor climbs from a node to the closest ancestor whose
// action is "menu". Returns nil when no menu lies on the path.
func (t *Tree) NearestMenuAncestor(nodeID string) *Node {
	path := t.FindPathToNode(nodeID)
	if len(path) == 0 {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(path) - 2; i >= 0; i-- {
		if node := t.nodes[path[i]]; node != nil && node.Action == ActionMenu {
			return node.clone()
		}
	}
	return nil
}

// Apply merges generated nodes into the tree and appends their ids to the
// given parents, deduplicating while preserving the original order, then
// persists the result. Existing nodes with the same id are overwritten.
func (t *Tree) Apply(nodes []*Node, attach map[string][]string) error {
	t.mu.Lock()
	for _, node := range nodes {
		if node == nil || node.ID == "" {
			continue
		}
		node.Children = dedupe(node.Children)
		if _, exists := t.nodes[node.ID]; !exists {
			t.order = append(t.order, node.ID)
		}
		t.nodes[node.ID] = node
	}
	for parentID, childIDs := range attach {
		parent := t.nodes[parentID]
		if parent == nil {
			log.Printf("[MENU] attach parent %q not found, skipping %d children", parentID, len(childIDs))
			continue
		}
		parent.Children = dedupe(append(parent.Children, childIDs...))
	}
	t.mu.Unlock()

	if err := t.persist(); err != nil {
		return fmt.Errorf("persist enhanced menu: %w", err)
	}
	return nil
}

// snapshot returns the nodes in deterministic order for scoring passes.
func (t *Tree) snapshot() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Node, 0, len(t.order))
	for _, id := range t.order {
		if node, ok := t.nodes[id]; ok {
			out = append(out, node.clone())
		}
	}
	return out
}
