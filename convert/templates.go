package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"gdoc2html/common"
	"gdoc2html/config"
	"gdoc2html/gdoc"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	ID         string
	SourceFile string
	Format     string
}

// newValues collects template values for a document. Documents decoded from
// bare content arrays have no id, run id takes its place then.
func newValues(doc *gdoc.Document, src, runID string, format common.OutputFmt) Values {
	v := Values{
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Format:     format.String(),
		ID:         runID,
	}
	if doc != nil {
		v.Title = doc.Title
		if doc.ID != "" {
			v.ID = doc.ID
		}
	}
	return v
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
