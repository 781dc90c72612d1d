package gdoc

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"gdoc2html/utils/debug"
)

// String returns a readable tree of the whole document. It exists solely for
// manual inspection and debug reports.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}

	tw := debug.NewTreeWriter()
	tw.Attrs(0, "Document", "id", d.ID, "title", d.Title)

	tw.Line(1, "Blocks: %d", len(d.Blocks))
	for i := range d.Blocks {
		dumpBlock(tw, 2, i, &d.Blocks[i])
	}

	if len(d.Lists) > 0 {
		tw.Line(1, "Lists: %d", len(d.Lists))
		keys := slices.Collect(maps.Keys(d.Lists))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			levels := make([]string, 0, len(d.Lists[k]))
			for _, g := range d.Lists[k] {
				levels = append(levels, string(g))
			}
			tw.Line(2, "List[%q] levels: [%s]", k, strings.Join(levels, " "))
		}
	}

	if len(d.Objects) > 0 {
		tw.Line(1, "Objects: %d", len(d.Objects))
		keys := slices.Collect(maps.Keys(d.Objects))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			o := d.Objects[k]
			tw.Attrs(2, fmt.Sprintf("Object[%q]", k), "alt", o.AltText, "title", o.Title, "uri", o.ContentURI)
		}
	}
	return tw.String()
}

func dumpBlock(tw *debug.TreeWriter, depth, idx int, b *Block) {
	switch b.Kind {
	case BlockParagraph:
		if b.Paragraph == nil {
			tw.Line(depth, "[%d] paragraph <nil>", idx)
			return
		}
		p := b.Paragraph
		kv := []string{"style", p.Style.NamedStyle, "align", p.Style.Alignment}
		if p.Bullet != nil {
			kv = append(kv, "list", p.Bullet.ListID, "level", strconv.Itoa(p.Bullet.NestingLevel))
		}
		tw.Attrs(depth, fmt.Sprintf("[%d] paragraph", idx), kv...)
		for _, r := range p.Runs {
			dumpRun(tw, depth+1, &r)
		}
	case BlockTable:
		if b.Table == nil {
			tw.Line(depth, "[%d] table <nil>", idx)
			return
		}
		tw.Line(depth, "[%d] table rows=%d", idx, len(b.Table.Rows))
		for r, row := range b.Table.Rows {
			for c := range row {
				cell := &row[c]
				tw.Attrs(depth+1, fmt.Sprintf("cell[%d,%d]", r, c),
					"align", cell.Style.Alignment,
					"colspan", spanText(cell.Style.ColumnSpan),
					"rowspan", spanText(cell.Style.RowSpan))
				for i := range cell.Blocks {
					dumpBlock(tw, depth+2, i, &cell.Blocks[i])
				}
			}
		}
	case BlockSectionBreak:
		var st string
		if b.SectionBreak != nil {
			st = b.SectionBreak.SectionType
		}
		tw.Attrs(depth, fmt.Sprintf("[%d] section-break", idx), "type", st)
	default:
		tw.Line(depth, "[%d] unknown %q", idx, b.Kind)
	}
}

func dumpRun(tw *debug.TreeWriter, depth int, r *Run) {
	switch r.Kind {
	case RunText:
		if r.Text == nil {
			tw.Line(depth, "text <nil>")
			return
		}
		tw.Text(depth, "text"+styleFlags(r.Text.Style), r.Text.Content)
	case RunObject:
		if r.Object == nil {
			tw.Line(depth, "object <nil>")
			return
		}
		tw.Line(depth, "object %q", r.Object.ObjectID)
	default:
		tw.Line(depth, "unknown run %q", r.Kind)
	}
}

func styleFlags(ts TextStyle) string {
	var flags []string
	if ts.Bold {
		flags = append(flags, "b")
	}
	if ts.Italic {
		flags = append(flags, "i")
	}
	if ts.Underline {
		flags = append(flags, "u")
	}
	if ts.Strikethrough {
		flags = append(flags, "s")
	}
	if ts.Link != "" {
		flags = append(flags, "link")
	}
	if len(flags) == 0 {
		return ""
	}
	return "(" + strings.Join(flags, ",") + ")"
}

func spanText(n int) string {
	if n <= 1 {
		return ""
	}
	return strconv.Itoa(n)
}
