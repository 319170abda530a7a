package arbor

import (
	"path/filepath"
	"strings"
	"testing"
)

func node(id string, children ...*TreeNode[string]) *TreeNode[string] {
	return NewTreeNode(id).WithChildren(children...)
}

// outline renders a forest as "a[b c] d".
func outline(roots []*TreeNode[string]) string {
	parts := make([]string, 0, len(roots))
	for _, n := range roots {
		s := n.ID
		if len(n.Children) > 0 {
			s += "[" + outline(n.Children) + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func TestTreeNodeFindAndRemove(t *testing.T) {
	root := node("a", node("b", node("c")), node("d"))
	if n := root.Find("c"); n == nil || n.ID != "c" {
		t.Errorf("Find(c) = %v", n)
	}
	if root.Find("zz") != nil {
		t.Error("Find of a missing id should be nil")
	}
	if got := root.CollectIDs(); strings.Join(got, "") != "abcd" {
		t.Errorf("CollectIDs = %v, want [a b c d]", got)
	}

	removed := root.RemoveNode("b")
	if removed == nil || removed.ID != "b" || len(removed.Children) != 1 {
		t.Fatalf("RemoveNode(b) = %v", removed)
	}
	if got := outline([]*TreeNode[string]{root}); got != "a[d]" {
		t.Errorf("after remove = %q, want a[d]", got)
	}
	if root.RemoveNode("a") != nil {
		t.Error("RemoveNode should never remove the receiver")
	}
}

func TestTreeNodeMoveNode(t *testing.T) {
	tests := []struct {
		name      string
		id, to    string
		wantOK    bool
		wantShape string
	}{
		{"under sibling", "d", "c", true, "a[b[c[d]]]"},
		{"under own child", "b", "c", false, "a[b[c] d]"},
		{"under itself", "b", "b", false, "a[b[c] d]"},
		{"missing parent", "d", "zz", false, "a[b[c] d]"},
		{"root", "a", "d", false, "a[b[c] d]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := node("a", node("b", node("c")), node("d"))
			if got := root.MoveNode(tt.id, tt.to); got != tt.wantOK {
				t.Errorf("MoveNode = %v, want %v", got, tt.wantOK)
			}
			if got := outline([]*TreeNode[string]{root}); got != tt.wantShape {
				t.Errorf("shape = %q, want %q", got, tt.wantShape)
			}
		})
	}
}

func TestTreeNodeExpansion(t *testing.T) {
	root := node("a", node("b"))
	if root.IsExpanded {
		t.Error("new nodes start collapsed")
	}
	if !root.ToggleExpandedAt("b") || !root.Children[0].IsExpanded {
		t.Error("ToggleExpandedAt(b) should expand b")
	}
	if root.ToggleExpandedAt("zz") {
		t.Error("ToggleExpandedAt of a missing id should report false")
	}
	root.AddChild(nil)
	if len(root.Children) != 1 {
		t.Error("AddChild(nil) should be ignored")
	}
}

func TestApplyDrop(t *testing.T) {
	tests := []struct {
		name    string
		forest  func() []*TreeNode[string]
		dragged []string
		target  string
		pos     DropPosition
		wantOK  bool
		want    string
	}{
		{
			name:    "before root",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b"), node("c")), node("d")} },
			dragged: []string{"b"}, target: "a", pos: DropBefore,
			wantOK: true, want: "b a[c] d",
		},
		{
			name:    "into",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b"), node("c")), node("d")} },
			dragged: []string{"d"}, target: "a", pos: DropInto,
			wantOK: true, want: "a[d b c]",
		},
		{
			name:    "after root",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b"), node("c")), node("d")} },
			dragged: []string{"b"}, target: "d", pos: DropAfter,
			wantOK: true, want: "a[c] d b",
		},
		{
			name:    "after last child with a root below stays nested",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b"), node("c")), node("d"), node("e")} },
			dragged: []string{"e"}, target: "c", pos: DropAfter,
			wantOK: true, want: "a[b c e] d",
		},
		{
			name:    "after last child of last root pops out",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("d", node("e"))} },
			dragged: []string{"a"}, target: "e", pos: DropAfter,
			wantOK: true, want: "d[e] a",
		},
		{
			name:    "after last child with a later nested sibling pops to the end",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("d"), node("r", node("p", node("t")), node("q"))} },
			dragged: []string{"d"}, target: "t", pos: DropAfter,
			wantOK: true, want: "r[p[t] q] d",
		},
		{
			name:    "multiple in order",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("b"), node("c")} },
			dragged: []string{"a", "b"}, target: "c", pos: DropAfter,
			wantOK: true, want: "c a b",
		},
		{
			name:    "into own descendant",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b")), node("d")} },
			dragged: []string{"a"}, target: "b", pos: DropInto,
			wantOK: false, want: "a[b] d",
		},
		{
			name:    "unknown dragged",
			forest:  func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("d")} },
			dragged: []string{"zz"}, target: "a", pos: DropBefore,
			wantOK: false, want: "a d",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DropInfo[string]{Dragged: tt.dragged, Target: tt.target, HasTarget: true, Position: tt.pos}
			roots, ok := ApplyDrop(tt.forest(), info)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got := outline(roots); got != tt.want {
				t.Errorf("forest = %q, want %q", got, tt.want)
			}
		})
	}
}

// shape lists each entry of o as "id:parent", naming branches by their
// external ids.
func shape(tree *Tree[string], o OrderState) string {
	var parts []string
	for _, e := range o.Entries() {
		id, _ := tree.ExternalID(e.ID)
		parent := "-"
		if e.Parent != noParent {
			parent, _ = tree.ExternalID(e.Parent)
		}
		parts = append(parts, id+":"+parent)
	}
	return strings.Join(parts, " ")
}

func TestApplyDropMatchesReorder(t *testing.T) {
	tests := []struct {
		name   string
		forest func() []*TreeNode[string]
		drag   string
		target string
		pos    DropPosition
	}{
		{"before", func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("b", node("c"))} }, "a", "c", DropBefore},
		{"into", func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("b", node("c"))} }, "a", "b", DropInto},
		{"after nested", func() []*TreeNode[string] { return []*TreeNode[string]{node("a", node("b"), node("c")), node("d"), node("e")} }, "e", "b", DropAfter},
		{"pop out", func() []*TreeNode[string] { return []*TreeNode[string]{node("a"), node("d", node("e"))} }, "a", "e", DropAfter},
	}
	content := func(id string) Content { return NewLabel(id) }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := New(ToBranches(tt.forest(), content)...)
			drag, _ := before.InternalID(tt.drag)
			target, _ := before.InternalID(tt.target)
			next, ok := Reorder(before.reg.declaredOrder(), []int{drag}, target, tt.pos)
			if !ok {
				t.Fatal("Reorder refused the drop")
			}

			roots, ok := ApplyDrop(tt.forest(), DropInfo[string]{
				Dragged: []string{tt.drag}, Target: tt.target, HasTarget: true, Position: tt.pos,
			})
			if !ok {
				t.Fatal("ApplyDrop refused the drop")
			}
			after := New(ToBranches(roots, content)...)

			if got, want := shape(after, after.reg.declaredOrder()), shape(before, next); got != want {
				t.Errorf("forest order = %q, widget order = %q", got, want)
			}
		})
	}
}

func TestApplyDropWithoutTarget(t *testing.T) {
	roots := []*TreeNode[string]{node("a"), node("b")}
	out, ok := ApplyDrop(roots, DropInfo[string]{Dragged: []string{"a"}, Position: DropBefore})
	if ok || outline(out) != "a b" {
		t.Errorf("ApplyDrop without target = %q, %v", outline(out), ok)
	}
}

func TestApplyDropMirrorsWidget(t *testing.T) {
	roots := []*TreeNode[string]{node("a"), node("b"), node("c")}
	content := func(id string) Content { return NewLabel(id) }
	var tree *Tree[string]
	build := func() *Tree[string] {
		tree = New(ToBranches(roots, content)...).ResetOrder().OnDrop(func(info DropInfo[string]) {
			roots, _ = ApplyDrop(roots, info)
		})
		return tree
	}
	displayed := func(st *State) string {
		var names []string
		for _, e := range st.Order().Entries() {
			ext, _ := tree.ExternalID(e.ID)
			names = append(names, ext)
		}
		return strings.Join(names, " ")
	}

	st := NewState()
	var q EventQueue
	q.InjectPress(150, rowY(2))
	q.InjectMove(150, 20)
	q.InjectMove(150, 8)
	q.InjectRelease(150, 8)
	build().Frame(st, testBounds, &q, nil)

	if got := outline(roots); got != "c a b" {
		t.Errorf("forest = %q, want c a b", got)
	}
	if got := displayed(st); got != "c a b" {
		t.Errorf("displayed after drop = %q, want c a b", got)
	}

	for range 2 {
		build().Frame(st, testBounds, &q, nil)
		if got := displayed(st); got != "c a b" {
			t.Errorf("displayed after rebuild = %q, want c a b", got)
		}
	}
}

func TestToBranches(t *testing.T) {
	roots := []*TreeNode[string]{
		node("a", node("b")).SetExpanded(false),
		NewTreeNode("c").BlockDragging().AcceptsDrops(),
		nil,
	}
	branches := ToBranches(roots, func(id string) Content { return NewLabel(id) })
	if len(branches) != 2 {
		t.Fatalf("len = %d, want 2", len(branches))
	}
	if branches[1].Draggable || !branches[1].AcceptsDrop || branches[1].ExternalID != "c" {
		t.Errorf("c = %+v", branches[1])
	}

	st := NewState()
	New(branches...).Layout(st, testBounds)
	if st.IsExpanded(0) {
		t.Error("a is declared collapsed")
	}
	if st.IsVisible(1) {
		t.Error("b should be hidden under collapsed a")
	}
}

func TestTreeNodePersistence(t *testing.T) {
	roots := []*TreeNode[string]{
		node("a", node("b")).SetExpanded(true),
		NewTreeNode("c").BlockDragging().AcceptsDrops(),
	}
	for _, name := range []string{"tree.yaml", "tree.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := SaveTreeNodes(path, roots); err != nil {
				t.Fatal(err)
			}
			got, err := LoadTreeNodes[string](path)
			if err != nil {
				t.Fatal(err)
			}
			if outline(got) != "a[b] c" {
				t.Errorf("shape = %q, want a[b] c", outline(got))
			}
			if !got[0].IsExpanded || !got[0].Children[0].Draggable {
				t.Errorf("a = %+v", got[0])
			}
			if got[1].Draggable || !got[1].AcceptsDrop {
				t.Errorf("c = %+v", got[1])
			}
		})
	}
}

func TestLoadTreeNodesErrors(t *testing.T) {
	if _, err := LoadTreeNodes[string](filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := UnmarshalTreeNodes[string]([]byte(`{`)); err == nil {
		t.Error("expected an error for bad JSON")
	}
}
