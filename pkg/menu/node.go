package menu

// Node actions. A node either opens a submenu, runs a named tool, shows
// static text, or forwards a raw search term to the data layer.
const (
	ActionMenu  = "menu"
	ActionTool  = "tool"
	ActionInfo  = "info"
	ActionQuery = "query"
)

// Node is one entry of the navigable catalog. Children hold ids, not
// pointers, because the persisted definition references nodes by id and
// the generator appends ids it created in the same batch.
type Node struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Action      string            `json:"action"`
	Children    []string          `json:"children"`
	Keywords    []string          `json:"keywords"`
	DBQuery     string            `json:"db_query,omitempty"`
	Tool        string            `json:"tool,omitempty"`
	ToolArgs    map[string]string `json:"tool_args,omitempty"`
	InfoText    string            `json:"info_text,omitempty"`
}

// IsMenu reports whether the node opens a submenu.
func (n *Node) IsMenu() bool {
	return n.Action == ActionMenu
}

// clone returns a copy safe to hand out while the tree keeps mutating.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = append([]string(nil), n.Children...)
	c.Keywords = append([]string(nil), n.Keywords...)
	if n.ToolArgs != nil {
		c.ToolArgs = make(map[string]string, len(n.ToolArgs))
		for k, v := range n.ToolArgs {
			c.ToolArgs[k] = v
		}
	}
	return &c
}

// dedupe removes duplicate ids preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
