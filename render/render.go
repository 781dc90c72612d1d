// Package render converts document model into HTML fragment with deferred
// media placeholders and collects descriptors of encountered images.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gdoc2html/gdoc"
)

const (
	// DefaultLinkTarget is browsing context hyperlinks open in.
	DefaultLinkTarget = "_blank"

	pageBreak = `<div style="page-break-before: always;"></div>`
)

// Renderer is immutable after construction and may be used concurrently, all
// per call state lives in walker.
type Renderer struct {
	log          *zap.Logger
	linkTarget   string
	wrapSections bool
}

type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithLinkTarget sets target attribute of generated anchors, empty value
// drops attribute altogether.
func WithLinkTarget(target string) Option {
	return func(r *Renderer) {
		r.linkTarget = target
	}
}

// WithSectionWrapping groups top level output into heading started sections.
func WithSectionWrapping(enable bool) Option {
	return func(r *Renderer) {
		r.wrapSections = enable
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:        zap.NewNop(),
		linkTarget: DefaultLinkTarget,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result of single render call. Media is in first encounter order and is not
// de-duplicated.
type Result struct {
	HTML  string
	Media []gdoc.MediaDescriptor
}

// walker holds state of one render call.
type walker struct {
	r          *Renderer
	doc        *gdoc.Document
	media      []gdoc.MediaDescriptor
	unresolved int
}

// Render produces HTML for the document. Structurally broken documents are
// rejected before any output is produced.
func (r *Renderer) Render(doc *gdoc.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	w := &walker{r: r, doc: doc, media: []gdoc.MediaDescriptor{}}

	var sb strings.Builder
	lists := newListState()
	for i := range doc.Blocks {
		w.block(&sb, lists, &doc.Blocks[i])
	}
	lists.closeAll(&sb)

	html := sb.String()
	if r.wrapSections {
		wrapped, err := WrapSections(html)
		if err != nil {
			return nil, fmt.Errorf("unable to wrap sections: %w", err)
		}
		html = wrapped
	}

	r.log.Debug("Document rendered",
		zap.String("id", doc.ID),
		zap.Int("blocks", len(doc.Blocks)),
		zap.Int("media", len(w.media)),
		zap.Int("unresolved objects", w.unresolved),
		zap.Int("size", len(html)))

	return &Result{HTML: html, Media: w.media}, nil
}

func (w *walker) block(sb *strings.Builder, lists *listState, b *gdoc.Block) {
	switch b.Kind {
	case gdoc.BlockParagraph:
		w.paragraph(sb, lists, b.Paragraph)
	case gdoc.BlockTable:
		lists.closeAll(sb)
		w.table(sb, b.Table)
	case gdoc.BlockSectionBreak:
		lists.closeAll(sb)
		if b.SectionBreak.SectionType == gdoc.SectionNextPage {
			sb.WriteString(pageBreak)
		}
	}
}

func (w *walker) paragraph(sb *strings.Builder, lists *listState, p *gdoc.Paragraph) {
	content := w.inline(p.Runs)
	// empty paragraphs leave no trace, list state included
	if strings.TrimSpace(content) == "" {
		return
	}

	if p.Bullet != nil {
		lists.enter(sb, w.doc.Lists, p.Bullet)
		sb.WriteString("<li>" + content + "</li>")
		return
	}
	lists.closeAll(sb)

	var (
		tag string
		css []string
	)
	if align := alignment(p.Style.Alignment); align != "" {
		css = append(css, "text-align: "+align)
	}
	if level := p.Style.HeadingLevel(); level > 0 {
		tag = "h" + strconv.Itoa(level)
	} else {
		tag = "p"
		css = append(css, paragraphCSS(p.Style)...)
	}
	sb.WriteString("<" + tag + styleAttr(css) + ">" + content + "</" + tag + ">")
}

func alignment(a string) string {
	switch a {
	case "", gdoc.AlignStart:
		return ""
	case gdoc.AlignJustified:
		return "justify"
	}
	return strings.ToLower(a)
}

// paragraphCSS returns spacing declarations of plain paragraph, alignment is
// handled by caller.
func paragraphCSS(ps gdoc.ParagraphStyle) []string {
	var css []string
	if ps.LineSpacing != 0 && ps.LineSpacing != 100 {
		css = append(css, "line-height: "+number(ps.LineSpacing/100))
	}
	if ps.IndentStart != 0 {
		css = append(css, "margin-left: "+points(ps.IndentStart))
	}
	if ps.SpaceAbove != 0 {
		css = append(css, "margin-top: "+points(ps.SpaceAbove))
	}
	if ps.SpaceBelow != 0 {
		css = append(css, "margin-bottom: "+points(ps.SpaceBelow))
	}
	return css
}
