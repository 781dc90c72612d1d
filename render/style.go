package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gdoc2html/gdoc"
)

// Colors treated as implicit defaults and never emitted.
const (
	defaultForeground = "#000000"
	defaultBackground = "#ffffff"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces five reserved characters with entities. Output entities are
// fixed, downstream tooling compares markup textually.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Styling is result of mapping text style: inline tags to wrap content in
// (first is innermost) and CSS declarations for generic container.
type Styling struct {
	Tags []string
	CSS  []string
}

// MapTextStyle converts text style into wrapping tags and declarations. Link
// target is ignored here, see linkWrap.
func MapTextStyle(ts gdoc.TextStyle) Styling {
	var s Styling
	if ts.Bold {
		s.Tags = append(s.Tags, "strong")
	}
	if ts.Italic {
		s.Tags = append(s.Tags, "em")
	}
	if ts.Underline {
		s.Tags = append(s.Tags, "u")
	}
	if ts.Strikethrough {
		s.Tags = append(s.Tags, "s")
	}
	if ts.Foreground != nil {
		if c := HexColor(*ts.Foreground); c != defaultForeground {
			s.CSS = append(s.CSS, "color: "+c)
		}
	}
	if ts.Background != nil {
		if c := HexColor(*ts.Background); c != defaultBackground {
			s.CSS = append(s.CSS, "background-color: "+c)
		}
	}
	if ts.FontSize > 0 {
		s.CSS = append(s.CSS, "font-size: "+points(ts.FontSize))
	}
	if ts.FontFamily != "" {
		s.CSS = append(s.CSS, `font-family: "`+ts.FontFamily+`"`)
	}
	return s
}

// Wrap applies styling to already escaped content.
func (s Styling) Wrap(content string) string {
	for _, tag := range s.Tags {
		content = "<" + tag + ">" + content + "</" + tag + ">"
	}
	if len(s.CSS) > 0 {
		content = `<span style="` + Escape(strings.Join(s.CSS, "; ")) + `">` + content + "</span>"
	}
	return content
}

// HexColor formats 0..1 RGB triple as "#rrggbb".
func HexColor(c gdoc.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.Red), channel(c.Green), channel(c.Blue))
}

func channel(v float64) int {
	return int(max(0, min(255, math.Round(v*255))))
}

func linkWrap(href, target, content string) string {
	var sb strings.Builder
	sb.WriteString(`<a href="`)
	sb.WriteString(Escape(href))
	sb.WriteByte('"')
	if target != "" {
		sb.WriteString(` target="`)
		sb.WriteString(Escape(target))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	sb.WriteString(content)
	sb.WriteString("</a>")
	return sb.String()
}

// points formats dimension without trailing zeroes: 12 -> "12pt", 10.5 -> "10.5pt".
func points(v float64) string {
	return number(v) + "pt"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// styleAttr returns ` style="..."` or empty string when there is nothing to set.
func styleAttr(css []string) string {
	if len(css) == 0 {
		return ""
	}
	return ` style="` + Escape(strings.Join(css, "; ")) + `"`
}
