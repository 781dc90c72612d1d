// Package common keeps enums shared by configuration and library packages so
// that rendering and resolution do not have to depend on configuration.
package common

//go:generate go tool go-enum --marshal --names --mustparse --nocase --file=$GOFILE

// What to put in place of deferred media placeholder which could not be
// matched to uploaded asset.
// ENUM(comment, image, keep)
type FallbackMode int

// Specification of requested output type.
// ENUM(html, markdown)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtMarkdown:
		return ".md"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
