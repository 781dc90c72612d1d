package render

import (
	"strings"

	"gdoc2html/gdoc"
)

// listState tracks chain of currently open list containers. One instance
// belongs to a single rendering context: document body or one table cell.
// While a list is open len(stack) == level+1, otherwise stack is empty and
// level is -1.
type listState struct {
	listID string
	level  int
	stack  []string
}

func newListState() *listState {
	return &listState{level: -1}
}

func (ls *listState) isOpen() bool {
	return len(ls.stack) > 0
}

// enter moves state to bullet's list and level writing necessary transitions.
func (ls *listState) enter(sb *strings.Builder, defs gdoc.ListDefinitions, b *gdoc.Bullet) {
	if ls.isOpen() && ls.listID != b.ListID {
		ls.closeAll(sb)
	}
	for ls.level < b.NestingLevel {
		ls.level++
		tag := listTag(defs, b.ListID, ls.level)
		sb.WriteString("<" + tag + ">")
		ls.stack = append(ls.stack, tag)
	}
	for ls.level > b.NestingLevel {
		ls.pop(sb)
	}
	ls.listID = b.ListID
}

// closeAll closes every open container in LIFO order and resets state.
func (ls *listState) closeAll(sb *strings.Builder) {
	for ls.isOpen() {
		ls.pop(sb)
	}
	ls.listID = ""
	ls.level = -1
}

func (ls *listState) pop(sb *strings.Builder) {
	last := len(ls.stack) - 1
	sb.WriteString("</" + ls.stack[last] + ">")
	ls.stack = ls.stack[:last]
	ls.level--
}

// listTag selects container for list level: "ol" for numbering glyph
// families, "ul" for everything else including missing definitions.
func listTag(defs gdoc.ListDefinitions, listID string, level int) string {
	if g, ok := defs.Glyph(listID, level); ok && g.Ordered() {
		return "ol"
	}
	return "ul"
}
