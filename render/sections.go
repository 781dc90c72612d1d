package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WrapSections groups top level nodes of HTML fragment into <div> blocks,
// every block starting with a heading. Content preceding first heading forms
// its own block. Fragment is re-serialized, so entity spelling and void
// element syntax follow html.Render.
func WrapSections(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("unable to parse fragment: %w", err)
	}

	type section struct {
		heading string
		content strings.Builder
	}
	var (
		sections []*section
		current  *section
	)
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		var buf strings.Builder
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("unable to render node: %w", err)
		}
		if isHeading(n) {
			current = &section{heading: buf.String()}
			sections = append(sections, current)
			continue
		}
		if current == nil {
			current = &section{}
			sections = append(sections, current)
		}
		current.content.WriteString(buf.String())
	}

	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		parts := make([]string, 0, 2)
		if s.heading != "" {
			parts = append(parts, s.heading)
		}
		if s.content.Len() > 0 {
			parts = append(parts, s.content.String())
		}
		blocks = append(blocks, "<div>\n"+strings.Join(parts, "\n")+"\n</div>")
	}
	return strings.Join(blocks, "\n"), nil
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
