package arbor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// TreeNode is an application-owned tree that can be stored in app state,
// serialized, and converted to branches every frame with ToBranches. Use it
// when the application, not the widget's persisted order, is the source of
// truth for the tree's shape. Trees built from nodes should call
// ResetOrder so the widget displays the forest as declared.
type TreeNode[ID comparable] struct {
	ID          ID              `json:"id" yaml:"id"`
	Children    []*TreeNode[ID] `json:"children,omitempty" yaml:"children,omitempty"`
	AcceptsDrop bool            `json:"accepts_drops,omitempty" yaml:"accepts_drops,omitempty"`
	Draggable   bool            `json:"draggable" yaml:"draggable"`
	IsExpanded  bool            `json:"expanded" yaml:"expanded"`
}

// NewTreeNode creates a draggable, collapsed node.
func NewTreeNode[ID comparable](id ID) *TreeNode[ID] {
	return &TreeNode[ID]{ID: id, Draggable: true}
}

// WithChildren replaces the node's children.
func (n *TreeNode[ID]) WithChildren(children ...*TreeNode[ID]) *TreeNode[ID] {
	n.Children = children
	return n
}

// AcceptsDrops marks the node as a drop target for its middle third.
func (n *TreeNode[ID]) AcceptsDrops() *TreeNode[ID] {
	n.AcceptsDrop = true
	return n
}

// BlockDragging makes the node selectable but not draggable.
func (n *TreeNode[ID]) BlockDragging() *TreeNode[ID] {
	n.Draggable = false
	return n
}

// SetExpanded sets the expansion state.
func (n *TreeNode[ID]) SetExpanded(expanded bool) *TreeNode[ID] {
	n.IsExpanded = expanded
	return n
}

// ToggleExpanded flips the node's expansion state.
func (n *TreeNode[ID]) ToggleExpanded() {
	n.IsExpanded = !n.IsExpanded
}

// AddChild appends child. A nil child is ignored.
func (n *TreeNode[ID]) AddChild(child *TreeNode[ID]) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// AddChildTo appends child to the node with id parent anywhere in the
// subtree. It reports whether the parent was found.
func (n *TreeNode[ID]) AddChildTo(parent ID, child *TreeNode[ID]) bool {
	if child == nil {
		return false
	}
	p := n.Find(parent)
	if p == nil {
		return false
	}
	p.Children = append(p.Children, child)
	return true
}

// Find returns the node with id in the subtree rooted at n, or nil.
func (n *TreeNode[ID]) Find(id ID) *TreeNode[ID] {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// RemoveNode detaches the descendant with id and returns it, or nil when no
// descendant matches. n itself is never removed.
func (n *TreeNode[ID]) RemoveNode(id ID) *TreeNode[ID] {
	for i, c := range n.Children {
		if c.ID == id {
			n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
			return c
		}
	}
	for _, c := range n.Children {
		if removed := c.RemoveNode(id); removed != nil {
			return removed
		}
	}
	return nil
}

// MoveNode re-parents the descendant with id under newParent. Moving a node
// under itself or one of its own descendants is refused and leaves the tree
// unchanged.
func (n *TreeNode[ID]) MoveNode(id, newParent ID) bool {
	node := n.Find(id)
	if node == nil || node == n || node.Find(newParent) != nil {
		return false
	}
	if n.Find(newParent) == nil {
		return false
	}
	removed := n.RemoveNode(id)
	return n.AddChildTo(newParent, removed)
}

// CollectIDs returns every id in the subtree in pre-order.
func (n *TreeNode[ID]) CollectIDs() []ID {
	ids := []ID{n.ID}
	for _, c := range n.Children {
		ids = append(ids, c.CollectIDs()...)
	}
	return ids
}

// ToggleExpandedAt flips the expansion of the node with id and reports
// whether it was found.
func (n *TreeNode[ID]) ToggleExpandedAt(id ID) bool {
	node := n.Find(id)
	if node == nil {
		return false
	}
	node.ToggleExpanded()
	return true
}

// ToBranch converts the subtree into branches, asking content for the
// content of each node.
func (n *TreeNode[ID]) ToBranch(content func(ID) Content) *Branch[ID] {
	b := NewBranch[ID](content(n.ID)).WithID(n.ID).Expanded(n.IsExpanded)
	if !n.Draggable {
		b.BlockDragging()
	}
	if n.AcceptsDrop {
		b.AcceptsDrops()
	}
	if len(n.Children) > 0 {
		children := make([]*Branch[ID], 0, len(n.Children))
		for _, c := range n.Children {
			if c != nil {
				children = append(children, c.ToBranch(content))
			}
		}
		b.WithChildren(children...)
	}
	return b
}

// ToBranches converts a forest of nodes into root branches.
func ToBranches[ID comparable](roots []*TreeNode[ID], content func(ID) Content) []*Branch[ID] {
	out := make([]*Branch[ID], 0, len(roots))
	for _, r := range roots {
		if r != nil {
			out = append(out, r.ToBranch(content))
		}
	}
	return out
}

// --- Forest operations ---

// findInForest returns the node with id, its parent (nil for roots), and
// the index of the root that contains it.
func findInForest[ID comparable](roots []*TreeNode[ID], id ID) (node, parent *TreeNode[ID], root int) {
	var walk func(n, p *TreeNode[ID]) bool
	walk = func(n, p *TreeNode[ID]) bool {
		if n.ID == id {
			node, parent = n, p
			return true
		}
		for _, c := range n.Children {
			if walk(c, n) {
				return true
			}
		}
		return false
	}
	for i, r := range roots {
		if r != nil && walk(r, nil) {
			return node, parent, i
		}
	}
	return nil, nil, -1
}

// detach removes the node with id from the forest and returns the new root
// slice and the removed node.
func detach[ID comparable](roots []*TreeNode[ID], id ID) ([]*TreeNode[ID], *TreeNode[ID]) {
	for i, r := range roots {
		if r != nil && r.ID == id {
			return append(roots[:i:i], roots[i+1:]...), r
		}
	}
	for _, r := range roots {
		if r == nil {
			continue
		}
		if removed := r.RemoveNode(id); removed != nil {
			return roots, removed
		}
	}
	return roots, nil
}

func insertAt[ID comparable](s []*TreeNode[ID], i int, nodes ...*TreeNode[ID]) []*TreeNode[ID] {
	out := make([]*TreeNode[ID], 0, len(s)+len(nodes))
	out = append(out, s[:i]...)
	out = append(out, nodes...)
	return append(out, s[i:]...)
}

func indexOfNode[ID comparable](s []*TreeNode[ID], n *TreeNode[ID]) int {
	for i, c := range s {
		if c == n {
			return i
		}
	}
	return -1
}

// ApplyDrop mirrors a drop reported by OnDrop onto an application-owned
// forest. Into makes the dragged nodes the target's first children, and
// Before and After place them next to the target. After on the last nested
// child of the last root pops them out to the end of the top level. The
// widget shows such a drop directly below the target's subtree, and where
// an ancestor of the target has later children that position has no
// equivalent in a forest; the nodes still end up as the last roots. A drop
// whose target sits inside a dragged subtree is refused. It returns the new
// root slice. Rebuild the tree with ResetOrder after applying a drop.
func ApplyDrop[ID comparable](roots []*TreeNode[ID], info DropInfo[ID]) ([]*TreeNode[ID], bool) {
	if !info.HasTarget || len(info.Dragged) == 0 {
		return roots, false
	}
	for _, id := range info.Dragged {
		node, _, _ := findInForest(roots, id)
		if node == nil || node.Find(info.Target) != nil {
			return roots, false
		}
	}

	moved := make([]*TreeNode[ID], 0, len(info.Dragged))
	for _, id := range info.Dragged {
		var n *TreeNode[ID]
		roots, n = detach(roots, id)
		if n != nil {
			moved = append(moved, n)
		}
	}

	target, parent, root := findInForest(roots, info.Target)
	if target == nil {
		return roots, false
	}
	switch info.Position {
	case DropInto:
		target.Children = insertAt(target.Children, 0, moved...)
	case DropBefore, DropAfter:
		siblings := roots
		if parent != nil {
			siblings = parent.Children
		}
		i := indexOfNode(siblings, target)
		if info.Position == DropAfter {
			if parent != nil && i == len(siblings)-1 && root == len(roots)-1 {
				return append(roots, moved...), true
			}
			i++
		}
		siblings = insertAt(siblings, i, moved...)
		if parent != nil {
			parent.Children = siblings
		} else {
			roots = siblings
		}
	}
	return roots, true
}

// --- Persistence ---

// MarshalTreeNodes encodes a forest as JSON.
func MarshalTreeNodes[ID comparable](roots []*TreeNode[ID]) ([]byte, error) {
	return json.MarshalIndent(roots, "", "  ")
}

// UnmarshalTreeNodes decodes a forest from JSON.
func UnmarshalTreeNodes[ID comparable](data []byte) ([]*TreeNode[ID], error) {
	var roots []*TreeNode[ID]
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("decode tree nodes: %w", err)
	}
	return roots, nil
}

// SaveTreeNodes writes a forest to path as YAML when the extension is .yaml
// or .yml, and as JSON otherwise.
func SaveTreeNodes[ID comparable](path string, roots []*TreeNode[ID]) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(roots)
	} else {
		data, err = MarshalTreeNodes(roots)
	}
	if err != nil {
		return fmt.Errorf("encode tree nodes: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write tree nodes %s: %w", path, err)
	}
	return nil
}

// LoadTreeNodes reads a forest written by SaveTreeNodes.
func LoadTreeNodes[ID comparable](path string) ([]*TreeNode[ID], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree nodes %s: %w", path, err)
	}
	if !isYAML(path) {
		return UnmarshalTreeNodes[ID](data)
	}
	var roots []*TreeNode[ID]
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("decode tree nodes %s: %w", path, err)
	}
	return roots, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
