package render

import (
	"strconv"
	"strings"

	"gdoc2html/gdoc"
)

const (
	tableStyle = "border-collapse: collapse; width: 100%; margin: 16px 0;"
	emptyCell  = "&nbsp;"
)

var baseCellCSS = []string{"border: 1px solid #ddd", "padding: 8px", "vertical-align: top"}

func (w *walker) table(sb *strings.Builder, t *gdoc.Table) {
	sb.WriteString(`<table style="` + tableStyle + `">`)
	for r, row := range t.Rows {
		sb.WriteString("<tr>")
		for c := range row {
			w.cell(sb, r, &row[c])
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
}

// cell renders single table cell. Each cell gets its own list state so lists
// inside never leak into surrounding document.
func (w *walker) cell(sb *strings.Builder, row int, cell *gdoc.Cell) {
	var content strings.Builder
	lists := newListState()
	for i := range cell.Blocks {
		w.cellBlock(&content, lists, &cell.Blocks[i])
	}
	lists.closeAll(&content)
	html := strings.TrimSuffix(content.String(), lineBreak)

	// first row cells with bold content are treated as header cells
	tag := "td"
	if row == 0 && strings.Contains(html, "<strong>") {
		tag = "th"
	}

	sb.WriteString("<" + tag)
	if cell.Style.ColumnSpan > 1 {
		sb.WriteString(` colspan="` + strconv.Itoa(cell.Style.ColumnSpan) + `"`)
	}
	if cell.Style.RowSpan > 1 {
		sb.WriteString(` rowspan="` + strconv.Itoa(cell.Style.RowSpan) + `"`)
	}
	sb.WriteString(styleAttr(cellCSS(cell.Style)))
	sb.WriteByte('>')
	if html == "" {
		html = emptyCell
	}
	sb.WriteString(html)
	sb.WriteString("</" + tag + ">")
}

func (w *walker) cellBlock(sb *strings.Builder, lists *listState, b *gdoc.Block) {
	switch b.Kind {
	case gdoc.BlockParagraph:
		p := b.Paragraph
		content := w.inline(p.Runs)
		if strings.TrimSpace(content) == "" {
			return
		}
		if p.Bullet != nil {
			lists.enter(sb, w.doc.Lists, p.Bullet)
			sb.WriteString("<li>" + content + "</li>")
			return
		}
		lists.closeAll(sb)
		if level := p.Style.HeadingLevel(); level > 0 {
			tag := "h" + strconv.Itoa(level)
			sb.WriteString("<" + tag + ">" + content + "</" + tag + ">")
			return
		}
		sb.WriteString(content)
		sb.WriteString(lineBreak)
	case gdoc.BlockTable:
		lists.closeAll(sb)
		w.table(sb, b.Table)
	case gdoc.BlockSectionBreak:
		lists.closeAll(sb)
	}
}

func cellCSS(cs gdoc.CellStyle) []string {
	css := append([]string(nil), baseCellCSS...)
	switch strings.ToLower(cs.Alignment) {
	case "center":
		css = append(css, "text-align: center")
	case "right":
		css = append(css, "text-align: right")
	}
	for _, side := range []struct {
		name  string
		value float64
	}{
		{"padding-left", cs.PaddingLeft},
		{"padding-right", cs.PaddingRight},
		{"padding-top", cs.PaddingTop},
		{"padding-bottom", cs.PaddingBottom},
	} {
		if side.value != 0 {
			css = append(css, side.name+": "+points(side.value))
		}
	}
	if cs.Background != nil {
		if c := HexColor(*cs.Background); c != defaultBackground {
			css = append(css, "background-color: "+c)
		}
	}
	return css
}
