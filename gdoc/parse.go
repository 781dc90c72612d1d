package gdoc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/docs/v1"
)

// Decoding of Google Docs API JSON. We go through the official API types so
// that field names and nesting are never guessed, and then map them onto our
// own model, dropping everything rendering does not need.

// Parse decodes document JSON. Accepted shapes are a full API document (with
// or without tabs content) or a bare body content array.
func Parse(data []byte, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}

	switch trimmed[0] {
	case '[':
		var content []*docs.StructuralElement
		if err := json.Unmarshal(trimmed, &content); err != nil {
			return nil, fmt.Errorf("%w: unable to decode content array: %w", ErrMalformedInput, err)
		}
		blocks, err := convertElements(content, "content", log)
		if err != nil {
			return nil, err
		}
		return &Document{Blocks: blocks}, nil
	case '{':
		var doc docs.Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: unable to decode document: %w", ErrMalformedInput, err)
		}
		return FromAPI(&doc, log)
	default:
		return nil, fmt.Errorf("%w: document must be JSON object or content array", ErrMalformedInput)
	}
}

// FromAPI maps API document onto the rendering model. When the document was
// fetched with tabs content and has no legacy body, the first tab carrying a
// document is used.
func FromAPI(doc *docs.Document, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMalformedInput)
	}

	body, lists, objects := doc.Body, doc.Lists, doc.InlineObjects
	if body == nil {
		tab := firstDocumentTab(doc.Tabs)
		if tab == nil {
			return nil, fmt.Errorf("%w: document has neither body nor tabs", ErrMalformedInput)
		}
		log.Debug("Using first document tab", zap.Int("tabs", len(doc.Tabs)))
		body, lists, objects = tab.Body, tab.Lists, tab.InlineObjects
		if body == nil {
			return nil, fmt.Errorf("%w: document tab has no body", ErrMalformedInput)
		}
	}

	blocks, err := convertElements(body.Content, "body.content", log)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:      doc.DocumentId,
		Title:   doc.Title,
		Blocks:  blocks,
		Lists:   convertLists(lists),
		Objects: convertObjects(objects, log),
	}, nil
}

func firstDocumentTab(tabs []*docs.Tab) *docs.DocumentTab {
	for _, t := range tabs {
		if t == nil {
			continue
		}
		if t.DocumentTab != nil {
			return t.DocumentTab
		}
		if dt := firstDocumentTab(t.ChildTabs); dt != nil {
			return dt
		}
	}
	return nil
}

func convertElements(elements []*docs.StructuralElement, path string, log *zap.Logger) ([]Block, error) {
	blocks := make([]Block, 0, len(elements))
	for i, se := range elements {
		if se == nil {
			log.Debug("Skipping empty structural element", zap.String("path", path), zap.Int("index", i))
			continue
		}
		switch {
		case se.Paragraph != nil:
			blocks = append(blocks, Block{Kind: BlockParagraph, Paragraph: convertParagraph(se.Paragraph, log)})
		case se.Table != nil:
			table, err := convertTable(se.Table, fmt.Sprintf("%s[%d].table", path, i), log)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, Block{Kind: BlockTable, Table: table})
		case se.SectionBreak != nil:
			sb := &SectionBreak{}
			if se.SectionBreak.SectionStyle != nil {
				sb.SectionType = se.SectionBreak.SectionStyle.SectionType
			}
			blocks = append(blocks, Block{Kind: BlockSectionBreak, SectionBreak: sb})
		case se.TableOfContents != nil:
			log.Debug("Dropping table of contents", zap.String("path", path), zap.Int("index", i))
		default:
			return nil, fmt.Errorf("%w: %s[%d]: structural element has no known content", ErrMalformedInput, path, i)
		}
	}
	return blocks, nil
}

func convertParagraph(p *docs.Paragraph, log *zap.Logger) *Paragraph {
	out := &Paragraph{Style: convertParagraphStyle(p.ParagraphStyle)}
	if p.Bullet != nil {
		out.Bullet = &Bullet{ListID: p.Bullet.ListId, NestingLevel: int(p.Bullet.NestingLevel)}
	}

	out.Runs = make([]Run, 0, len(p.Elements))
	for _, el := range p.Elements {
		if el == nil {
			continue
		}
		switch {
		case el.TextRun != nil:
			out.Runs = append(out.Runs, Run{Kind: RunText, Text: &TextRun{
				Content: el.TextRun.Content,
				Style:   convertTextStyle(el.TextRun.TextStyle),
			}})
		case el.InlineObjectElement != nil:
			out.Runs = append(out.Runs, Run{Kind: RunObject, Object: &ObjectRun{ObjectID: el.InlineObjectElement.InlineObjectId}})
		case el.RichLink != nil && el.RichLink.RichLinkProperties != nil:
			// smart chips pointing to other documents are kept as plain links
			props := el.RichLink.RichLinkProperties
			text := props.Title
			if text == "" {
				text = props.Uri
			}
			style := convertTextStyle(el.RichLink.TextStyle)
			style.Link = props.Uri
			out.Runs = append(out.Runs, Run{Kind: RunText, Text: &TextRun{Content: text, Style: style}})
		default:
			log.Debug("Dropping unsupported paragraph element", zap.Int64("start", el.StartIndex))
		}
	}
	return out
}

func convertParagraphStyle(ps *docs.ParagraphStyle) ParagraphStyle {
	if ps == nil {
		return ParagraphStyle{}
	}
	return ParagraphStyle{
		NamedStyle:  ps.NamedStyleType,
		Alignment:   ps.Alignment,
		LineSpacing: ps.LineSpacing,
		IndentStart: magnitude(ps.IndentStart),
		SpaceAbove:  magnitude(ps.SpaceAbove),
		SpaceBelow:  magnitude(ps.SpaceBelow),
	}
}

func convertTextStyle(ts *docs.TextStyle) TextStyle {
	if ts == nil {
		return TextStyle{}
	}
	out := TextStyle{
		Bold:          ts.Bold,
		Italic:        ts.Italic,
		Underline:     ts.Underline,
		Strikethrough: ts.Strikethrough,
		Foreground:    convertColor(ts.ForegroundColor),
		Background:    convertColor(ts.BackgroundColor),
		FontSize:      magnitude(ts.FontSize),
	}
	if ts.WeightedFontFamily != nil {
		out.FontFamily = ts.WeightedFontFamily.FontFamily
	}
	if ts.Link != nil {
		out.Link = ts.Link.Url
	}
	return out
}

func convertColor(oc *docs.OptionalColor) *Color {
	if oc == nil || oc.Color == nil || oc.Color.RgbColor == nil {
		return nil
	}
	rgb := oc.Color.RgbColor
	return &Color{Red: rgb.Red, Green: rgb.Green, Blue: rgb.Blue}
}

func magnitude(d *docs.Dimension) float64 {
	if d == nil {
		return 0
	}
	return d.Magnitude
}

func convertTable(t *docs.Table, path string, log *zap.Logger) (*Table, error) {
	out := &Table{Rows: make([][]Cell, 0, len(t.TableRows))}
	for r, row := range t.TableRows {
		if row == nil {
			out.Rows = append(out.Rows, nil)
			continue
		}
		cells := make([]Cell, 0, len(row.TableCells))
		for c, tc := range row.TableCells {
			if tc == nil {
				cells = append(cells, Cell{})
				continue
			}
			blocks, err := convertElements(tc.Content, fmt.Sprintf("%s.rows[%d].cells[%d]", path, r, c), log)
			if err != nil {
				return nil, err
			}
			cells = append(cells, Cell{Style: convertCellStyle(tc.TableCellStyle), Blocks: blocks})
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func convertCellStyle(cs *docs.TableCellStyle) CellStyle {
	if cs == nil {
		return CellStyle{}
	}
	return CellStyle{
		Alignment:     cs.ContentAlignment,
		PaddingLeft:   magnitude(cs.PaddingLeft),
		PaddingRight:  magnitude(cs.PaddingRight),
		PaddingTop:    magnitude(cs.PaddingTop),
		PaddingBottom: magnitude(cs.PaddingBottom),
		Background:    convertColor(cs.BackgroundColor),
		ColumnSpan:    int(cs.ColumnSpan),
		RowSpan:       int(cs.RowSpan),
	}
}

func convertLists(lists map[string]docs.List) ListDefinitions {
	if len(lists) == 0 {
		return nil
	}
	out := make(ListDefinitions, len(lists))
	for id, l := range lists {
		if l.ListProperties == nil {
			out[id] = nil
			continue
		}
		levels := make([]GlyphKind, 0, len(l.ListProperties.NestingLevels))
		for _, nl := range l.ListProperties.NestingLevels {
			levels = append(levels, glyphKind(nl))
		}
		out[id] = levels
	}
	return out
}

func glyphKind(nl *docs.NestingLevel) GlyphKind {
	if nl == nil {
		return GlyphUnspecified
	}
	// symbol always means bulleted level regardless of type
	if nl.GlyphSymbol != "" {
		return GlyphBullet
	}
	switch nl.GlyphType {
	case "DECIMAL":
		return GlyphDecimal
	case "ZERO_DECIMAL":
		return GlyphZeroDecimal
	case "ALPHA":
		return GlyphAlpha
	case "UPPER_ALPHA":
		return GlyphUpperAlpha
	case "ROMAN":
		return GlyphRoman
	case "UPPER_ROMAN":
		return GlyphUpperRoman
	case "", "GLYPH_TYPE_UNSPECIFIED", "NONE":
		return GlyphUnspecified
	default:
		return GlyphOther
	}
}

func convertObjects(objects map[string]docs.InlineObject, log *zap.Logger) EmbeddedObjects {
	if len(objects) == 0 {
		return nil
	}
	out := make(EmbeddedObjects, len(objects))
	for id, obj := range objects {
		if obj.InlineObjectProperties == nil || obj.InlineObjectProperties.EmbeddedObject == nil {
			log.Debug("Inline object without embedded object", zap.String("id", id))
			continue
		}
		eo := obj.InlineObjectProperties.EmbeddedObject
		alt := eo.Description
		if alt == "" {
			alt = eo.Title
		}
		var uri string
		if eo.ImageProperties != nil {
			uri = eo.ImageProperties.ContentUri
		}
		out[id] = EmbeddedObject{AltText: alt, Title: eo.Title, ContentURI: uri}
	}
	return out
}
