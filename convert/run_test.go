package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"gdoc2html/common"
	"gdoc2html/config"
	"gdoc2html/gdoc"
	"gdoc2html/resolve"
	"gdoc2html/state"
	"gdoc2html/upload"
)

const testDocument = `{
  "documentId": "doc-42",
  "title": "Quarterly Report",
  "body": {"content": [
    {"paragraph": {
      "paragraphStyle": {"namedStyleType": "HEADING_1"},
      "elements": [{"textRun": {"content": "Intro\n"}}]
    }},
    {"paragraph": {"elements": [
      {"textRun": {"content": "Team: "}},
      {"inlineObjectElement": {"inlineObjectId": "kix.img1"}},
      {"textRun": {"content": "\n"}}
    ]}},
    {"paragraph": {"elements": [
      {"inlineObjectElement": {"inlineObjectId": "kix.img2"}},
      {"textRun": {"content": "\n"}}
    ]}}
  ]},
  "inlineObjects": {
    "kix.img1": {"inlineObjectProperties": {"embeddedObject": {
      "title": "Team Photo", "description": "Our team",
      "imageProperties": {"contentUri": "https://lh3.googleusercontent.com/team.png"}
    }}},
    "kix.img2": {"inlineObjectProperties": {"embeddedObject": {
      "title": "Sales Chart",
      "imageProperties": {"contentUri": "https://lh3.googleusercontent.com/chart"}
    }}}
  }
}`

const testAssets = `[
  {"id": 17, "slug": "team-photo", "title": {"rendered": "Team Photo"}, "source_url": "https://cdn.example.com/team-photo.png"},
  {"id": 18, "slug": "unrelated", "title": "Unrelated", "source_url": "https://cdn.example.com/unrelated.png"}
]`

type testApp struct {
	ctx context.Context
	env *state.LocalEnv
	out bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	return &testApp{ctx: ctx, env: env}
}

func (a *testApp) run(args ...string) error {
	app := &cli.Command{
		Name:     "gdoc2html",
		Writer:   &a.out,
		Commands: Commands(),
	}
	return app.Run(a.ctx, append([]string{"gdoc2html"}, args...))
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected output %s: %v", path, err)
	}
	return string(data)
}

func TestRender(t *testing.T) {
	app := newTestApp(t)
	in, out := t.TempDir(), t.TempDir()
	src := writeTestFile(t, in, "report.json", testDocument)

	if err := app.run("render", src, out); err != nil {
		t.Fatalf("render error = %v", err)
	}

	html := readTestFile(t, filepath.Join(out, "quarterly-report.html"))
	for _, want := range []string{
		"<h1>Intro</h1>",
		"[[IMG:kix.img1|Our team]]",
		"[[IMG:kix.img2|Sales Chart]]",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q:\n%s", want, html)
		}
	}

	var media []gdoc.MediaDescriptor
	if err := json.Unmarshal([]byte(readTestFile(t, filepath.Join(out, "quarterly-report.media.json"))), &media); err != nil {
		t.Fatalf("media list: %v", err)
	}
	if len(media) != 2 || media[0].ID != "kix.img1" || media[1].Title != "Sales Chart" {
		t.Errorf("unexpected media list: %+v", media)
	}

	t.Run("existing output", func(t *testing.T) {
		if err := app.run("render", src, out); err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected refusal to overwrite, got %v", err)
		}
		if err := app.run("render", "--overwrite", src, out); err != nil {
			t.Errorf("render with overwrite error = %v", err)
		}
	})

	t.Run("sections", func(t *testing.T) {
		dst := t.TempDir()
		if err := app.run("render", "--sections", src, dst); err != nil {
			t.Fatalf("render error = %v", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(readTestFile(t, filepath.Join(dst, "quarterly-report.html"))))
		if err != nil {
			t.Fatal(err)
		}
		if n := doc.Find("div > h1").Length(); n != 1 {
			t.Errorf("expected heading wrapped into section, found %d", n)
		}
	})
}

func TestRender_Errors(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"render"}},
		{"missing source", []string{"render", filepath.Join(dir, "absent.json"), dir}},
		{"malformed source", []string{"render", writeTestFile(t, dir, "bad.json", `{"body": {"content": 5}}`), dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := app.run(tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("malformed is reported as such", func(t *testing.T) {
		err := app.run("render", writeTestFile(t, dir, "text.json", `"just a string"`), dir)
		if !errors.Is(err, gdoc.ErrMalformedInput) {
			t.Errorf("expected ErrMalformedInput, got %v", err)
		}
	})
}

func TestRender_Canceled(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(app.ctx)
	cancel()
	app.ctx = ctx

	dir := t.TempDir()
	src := writeTestFile(t, dir, "report.json", testDocument)
	if err := app.run("render", src, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "quarterly-report.html")); err == nil {
		t.Error("nothing must be written after cancellation")
	}
}

func TestManifest(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	media := writeTestFile(t, dir, "media.json", `[
  {"id": "kix.img1", "contentUri": "https://lh3.googleusercontent.com/team.png", "alt": "Our team", "title": "Team Photo"},
  {"id": "kix.img2", "contentUri": "", "alt": "nothing"}
]`)

	t.Run("stdout", func(t *testing.T) {
		app.out.Reset()
		if err := app.run("manifest", media); err != nil {
			t.Fatalf("manifest error = %v", err)
		}
		var items []upload.Item
		if err := json.Unmarshal(app.out.Bytes(), &items); err != nil {
			t.Fatalf("manifest output: %v\n%s", err, app.out.String())
		}
		if len(items) != 1 || items[0].FileName != "team-photo.png" || items[0].MIMEType != "image/png" {
			t.Errorf("unexpected manifest: %+v", items)
		}
	})

	t.Run("file", func(t *testing.T) {
		app.env.Cfg.Upload.DefaultExtension = ".webp"
		dst := filepath.Join(dir, "out", "manifest.json")
		if err := app.run("manifest", media, dst); err != nil {
			t.Fatalf("manifest error = %v", err)
		}
		if got := readTestFile(t, dst); !strings.Contains(got, `"fileName": "team-photo.png"`) {
			t.Errorf("unexpected manifest file:\n%s", got)
		}
	})

	t.Run("bad media", func(t *testing.T) {
		if err := app.run("manifest", writeTestFile(t, dir, "bad.json", `{}`)); err == nil {
			t.Error("expected error for media list which is not an array")
		}
	})
}

func TestResolve(t *testing.T) {
	app := newTestApp(t)
	in, out := t.TempDir(), t.TempDir()
	src := writeTestFile(t, in, "report.json", testDocument)
	if err := app.run("render", src, in); err != nil {
		t.Fatalf("render error = %v", err)
	}
	html := filepath.Join(in, "quarterly-report.html")
	media := filepath.Join(in, "quarterly-report.media.json")
	assets := writeTestFile(t, in, "assets.json", testAssets)

	if err := app.run("resolve", html, media, assets, out); err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	resolved := readTestFile(t, filepath.Join(out, "quarterly-report.html"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resolved))
	if err != nil {
		t.Fatal(err)
	}
	img := doc.Find("img")
	if img.Length() != 1 {
		t.Fatalf("expected single image, got %d:\n%s", img.Length(), resolved)
	}
	if src, _ := img.Attr("src"); src != "https://cdn.example.com/team-photo.png" {
		t.Errorf("src = %q", src)
	}
	if id, _ := img.Attr("data-asset-id"); id != "17" {
		t.Errorf("data-asset-id = %q", id)
	}
	if !strings.Contains(resolved, "<!-- Image not found: kix.img2 -->") {
		t.Errorf("expected fallback comment:\n%s", resolved)
	}

	var report resolve.Result
	if err := json.Unmarshal([]byte(readTestFile(t, filepath.Join(out, "quarterly-report.resolve.json"))), &report); err != nil {
		t.Fatalf("resolve report: %v", err)
	}
	if !report.Success || report.ReplacedCount != 1 || report.TotalPlaceholders != 2 || report.UploadedCount != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(report.UnmatchedAssets) != 1 || report.UnmatchedAssets[0].ID != "18" {
		t.Errorf("unexpected unmatched assets: %+v", report.UnmatchedAssets)
	}

	t.Run("fallback flag", func(t *testing.T) {
		dst := t.TempDir()
		if err := app.run("resolve", "--fallback", "keep", html, media, assets, dst); err != nil {
			t.Fatalf("resolve error = %v", err)
		}
		if got := readTestFile(t, filepath.Join(dst, "quarterly-report.html")); !strings.Contains(got, "[[IMG:kix.img2|Sales Chart]]") {
			t.Errorf("unresolved placeholder must be kept:\n%s", got)
		}
	})

	t.Run("bad fallback flag", func(t *testing.T) {
		if err := app.run("resolve", "--fallback", "drop", html, media, assets, t.TempDir()); err == nil {
			t.Error("expected error for unknown fallback")
		}
	})

	t.Run("bad assets", func(t *testing.T) {
		bad := writeTestFile(t, in, "bad-assets.json", `{"not": "array"}`)
		err := app.run("resolve", html, media, bad, t.TempDir())
		if !errors.Is(err, resolve.ErrBadAssets) {
			t.Errorf("expected ErrBadAssets, got %v", err)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		if err := app.run("resolve", html, media); err == nil {
			t.Error("expected error when assets are not specified")
		}
	})
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "report.json", testDocument)
	assets := writeTestFile(t, dir, "assets.json", testAssets)

	t.Run("html with assets", func(t *testing.T) {
		app := newTestApp(t)
		out := t.TempDir()
		if err := app.run("convert", "--assets", assets, src, out); err != nil {
			t.Fatalf("convert error = %v", err)
		}
		html := readTestFile(t, filepath.Join(out, "quarterly-report.html"))
		if strings.Contains(html, "[[IMG:kix.img1") || !strings.Contains(html, "https://cdn.example.com/team-photo.png") {
			t.Errorf("matched placeholder was not resolved:\n%s", html)
		}
		for _, companion := range []string{mediaSuffix, resolveSuffix} {
			if _, err := os.Stat(filepath.Join(out, "quarterly-report"+companion)); err != nil {
				t.Errorf("missing companion %s: %v", companion, err)
			}
		}
	})

	t.Run("html without assets", func(t *testing.T) {
		app := newTestApp(t)
		out := t.TempDir()
		if err := app.run("convert", src, out); err != nil {
			t.Fatalf("convert error = %v", err)
		}
		if html := readTestFile(t, filepath.Join(out, "quarterly-report.html")); !strings.Contains(html, "[[IMG:kix.img1|Our team]]") {
			t.Errorf("placeholders must stay without assets:\n%s", html)
		}
		if _, err := os.Stat(filepath.Join(out, "quarterly-report"+resolveSuffix)); err == nil {
			t.Error("resolution report must not be written without assets")
		}
	})

	t.Run("markdown", func(t *testing.T) {
		app := newTestApp(t)
		out := t.TempDir()
		if err := app.run("convert", "--to", "markdown", "--assets", assets, src, out); err != nil {
			t.Fatalf("convert error = %v", err)
		}
		text := readTestFile(t, filepath.Join(out, "quarterly-report.md"))
		for _, want := range []string{"# Intro", "https://cdn.example.com/team-photo.png"} {
			if !strings.Contains(text, want) {
				t.Errorf("markdown missing %q:\n%s", want, text)
			}
		}
		if strings.Contains(text, "<h1>") {
			t.Errorf("markdown still has markup:\n%s", text)
		}
	})

	t.Run("configured format and template", func(t *testing.T) {
		app := newTestApp(t)
		app.env.Cfg.Output.Format = common.OutputFmtMarkdown
		app.env.Cfg.Output.NameTemplate = "{{ .ID }}/{{ .Title | lower }}"
		out := t.TempDir()
		if err := app.run("convert", src, out); err != nil {
			t.Fatalf("convert error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "doc-42", "quarterly-report.md")); err != nil {
			t.Errorf("expected templated output: %v", err)
		}
	})

	t.Run("unknown format falls back to html", func(t *testing.T) {
		app := newTestApp(t)
		out := t.TempDir()
		if err := app.run("convert", "--to", "pdf", src, out); err != nil {
			t.Fatalf("convert error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "quarterly-report.html")); err != nil {
			t.Errorf("expected html output: %v", err)
		}
	})
}
