package gdoc

// Type definitions for the rich document model rendered into HTML. The shape
// follows Google Docs API documents, reduced to what rendering needs.

// Document is an ordered sequence of blocks in reading order plus lookup
// tables referenced from the blocks.
type Document struct {
	ID      string
	Title   string
	Blocks  []Block
	Lists   ListDefinitions
	Objects EmbeddedObjects
}

// BlockKind distinguishes the different kinds of top-level content.
type BlockKind string

const (
	BlockParagraph    BlockKind = "paragraph"
	BlockTable        BlockKind = "table"
	BlockSectionBreak BlockKind = "section-break"
)

// Block stores a single piece of block content. Exactly one payload matching
// Kind is set.
type Block struct {
	Kind         BlockKind
	Paragraph    *Paragraph
	Table        *Table
	SectionBreak *SectionBreak
}

// Named paragraph styles with special rendering.
const (
	StyleNormal   = "NORMAL_TEXT"
	StyleTitle    = "TITLE"
	StyleSubtitle = "SUBTITLE"
	StyleHeading1 = "HEADING_1"
	StyleHeading2 = "HEADING_2"
	StyleHeading3 = "HEADING_3"
	StyleHeading4 = "HEADING_4"
	StyleHeading5 = "HEADING_5"
	StyleHeading6 = "HEADING_6"
)

// Paragraph alignment values.
const (
	AlignStart     = "START"
	AlignCenter    = "CENTER"
	AlignEnd       = "END"
	AlignJustified = "JUSTIFIED"
)

// ParagraphStyle keeps paragraph level presentation. Dimensions are in points,
// zero means not set. LineSpacing is a percentage, 100 is single spacing.
type ParagraphStyle struct {
	NamedStyle  string
	Alignment   string
	LineSpacing float64
	IndentStart float64
	SpaceAbove  float64
	SpaceBelow  float64
}

// HeadingLevel returns 1..6 for heading named styles and 0 otherwise.
func (ps ParagraphStyle) HeadingLevel() int {
	switch ps.NamedStyle {
	case StyleHeading1:
		return 1
	case StyleHeading2:
		return 2
	case StyleHeading3:
		return 3
	case StyleHeading4:
		return 4
	case StyleHeading5:
		return 5
	case StyleHeading6:
		return 6
	}
	return 0
}

// Bullet marks paragraph as a list item.
type Bullet struct {
	ListID       string
	NestingLevel int
}

type Paragraph struct {
	Style  ParagraphStyle
	Runs   []Run
	Bullet *Bullet
}

// RunKind distinguishes inline content.
type RunKind string

const (
	RunText   RunKind = "text"
	RunObject RunKind = "embedded-object"
)

// Run is the smallest styled unit inside a paragraph.
type Run struct {
	Kind   RunKind
	Text   *TextRun
	Object *ObjectRun
}

type TextRun struct {
	Content string
	Style   TextStyle
}

// ObjectRun references an entry of Document.Objects.
type ObjectRun struct {
	ObjectID string
}

// Color is an RGB triple with channels in 0..1 range.
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// TextStyle keeps character level presentation. Nil colors, zero font size and
// empty strings mean "not set".
type TextStyle struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Foreground    *Color
	Background    *Color
	FontSize      float64
	FontFamily    string
	Link          string
}

// WithoutLink returns a copy of the style with link target removed.
func (ts TextStyle) WithoutLink() TextStyle {
	ts.Link = ""
	return ts
}

// GlyphKind describes how list items at a given nesting level are marked.
type GlyphKind string

const (
	GlyphUnspecified GlyphKind = "unspecified"
	GlyphBullet      GlyphKind = "bullet"
	GlyphDecimal     GlyphKind = "decimal"
	GlyphZeroDecimal GlyphKind = "zero-decimal"
	GlyphAlpha       GlyphKind = "alpha"
	GlyphUpperAlpha  GlyphKind = "upper-alpha"
	GlyphRoman       GlyphKind = "roman"
	GlyphUpperRoman  GlyphKind = "upper-roman"
	GlyphOther       GlyphKind = "other"
)

// Ordered reports whether glyph belongs to one of the numbering families.
func (g GlyphKind) Ordered() bool {
	switch g {
	case GlyphDecimal, GlyphZeroDecimal, GlyphAlpha, GlyphUpperAlpha, GlyphRoman, GlyphUpperRoman:
		return true
	}
	return false
}

// ListDefinitions maps list id to glyph kinds by nesting level.
type ListDefinitions map[string][]GlyphKind

// Glyph returns glyph for the list at requested level. Levels deeper than
// defined use the deepest definition. Second value is false when list or
// levels are not defined at all.
func (ld ListDefinitions) Glyph(listID string, level int) (GlyphKind, bool) {
	levels, ok := ld[listID]
	if !ok || len(levels) == 0 {
		return GlyphUnspecified, false
	}
	level = max(0, min(level, len(levels)-1))
	return levels[level], true
}

// EmbeddedObject is all that is known about an embedded image at render time.
type EmbeddedObject struct {
	AltText    string
	Title      string
	ContentURI string
}

type EmbeddedObjects map[string]EmbeddedObject

type Table struct {
	Rows [][]Cell
}

type CellStyle struct {
	Alignment     string
	PaddingLeft   float64
	PaddingRight  float64
	PaddingTop    float64
	PaddingBottom float64
	Background    *Color
	ColumnSpan    int
	RowSpan       int
}

type Cell struct {
	Style  CellStyle
	Blocks []Block
}

// Section types.
const (
	SectionContinuous = "CONTINUOUS"
	SectionNextPage   = "NEXT_PAGE"
)

type SectionBreak struct {
	SectionType string
}

// MediaDescriptor is a record of one embedded image encountered during
// rendering. ID equals the source object id.
type MediaDescriptor struct {
	ID         string `json:"id"`
	ContentURI string `json:"contentUri"`
	Alt        string `json:"alt"`
	Title      string `json:"title"`
}
