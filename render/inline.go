package render

import (
	"strings"

	"go.uber.org/zap"

	"gdoc2html/gdoc"
)

// Newline markers found in run content: real newline and its escaped form
// left by some exporters.
const (
	newline        = "\n"
	escapedNewline = `\n`
	lineBreak      = "<br>"
)

// Token prefix and separators of deferred media placeholder
// "[[IMG:" id "|" alt "]]".
const (
	TokenPrefix = "[[IMG:"
	TokenSep    = "|"
	TokenSuffix = "]]"
)

var (
	tokenIDCleaner  = strings.NewReplacer("|", "", "]", "")
	tokenAltCleaner = strings.NewReplacer("]", "")
)

// TokenID returns object id as it appears in placeholder and media
// descriptor, without characters which would break token grammar.
func TokenID(id string) string {
	return tokenIDCleaner.Replace(id)
}

// Token builds deferred media placeholder for object. Characters which would
// break token grammar are removed, alt is HTML escaped as any other text.
func Token(id, alt string) string {
	return TokenPrefix + TokenID(id) + TokenSep + Escape(tokenAltCleaner.Replace(alt)) + TokenSuffix
}

// inline renders paragraph runs into fragment without surrounding block tag.
func (w *walker) inline(runs []gdoc.Run) string {
	var sb strings.Builder
	for i := range runs {
		switch r := &runs[i]; r.Kind {
		case gdoc.RunText:
			sb.WriteString(w.text(r.Text))
		case gdoc.RunObject:
			sb.WriteString(w.object(r.Object))
		}
	}
	return sb.String()
}

func (w *walker) text(tr *gdoc.TextRun) string {
	content := trimTrailingBreaks(tr.Content)
	if content == "" {
		return ""
	}

	var out string
	if tr.Style.Link != "" {
		out = linkWrap(tr.Style.Link, w.r.linkTarget, MapTextStyle(tr.Style.WithoutLink()).Wrap(Escape(content)))
	} else {
		out = MapTextStyle(tr.Style).Wrap(Escape(content))
	}
	out = strings.ReplaceAll(out, escapedNewline, lineBreak)
	return strings.ReplaceAll(out, newline, lineBreak)
}

func trimTrailingBreaks(s string) string {
	for {
		switch {
		case strings.HasSuffix(s, escapedNewline):
			s = s[:len(s)-len(escapedNewline)]
		case strings.HasSuffix(s, newline):
			s = s[:len(s)-len(newline)]
		default:
			return s
		}
	}
}

// object emits placeholder token for embedded object and records media
// descriptor when object is an image with known content location. Descriptor
// carries the same id as the token so resolver could find it.
func (w *walker) object(or *gdoc.ObjectRun) string {
	id := TokenID(or.ObjectID)
	obj, ok := w.doc.Objects[or.ObjectID]
	if !ok {
		w.r.log.Debug("Embedded object not found", zap.String("id", or.ObjectID))
		w.unresolved++
		return Token(id, "")
	}
	if obj.ContentURI != "" {
		w.media = append(w.media, gdoc.MediaDescriptor{
			ID:         id,
			ContentURI: obj.ContentURI,
			Alt:        obj.AltText,
			Title:      obj.Title,
		})
	} else {
		w.r.log.Debug("Embedded object has no content, not an image", zap.String("id", or.ObjectID))
		w.unresolved++
	}
	return Token(id, obj.AltText)
}
