package resolve

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap/zaptest"

	"gdoc2html/common"
	"gdoc2html/gdoc"
	"gdoc2html/render"
)

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	return New(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func mustResolve(t *testing.T, r *Resolver, html string, media []gdoc.MediaDescriptor, assets []UploadedAsset) *Result {
	t.Helper()
	res, err := r.Resolve(html, media, assets)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Resolve() must always succeed on completion")
	}
	return res
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Team Photo!", "team-photo"},
		{"team-photo", "team-photo"},
		{"  --Hello   World-- ", "hello-world"},
		{"snake_case Name", "snake_case-name"},
		{"x--y", "x-y"},
		{"C++ & Go", "c-go"},
		{"Привет", ""},
		{"Team\u00a0Photo", "team-photo"},
		{"a\u3000b\u2028c", "a-b-c"},
		{"\ufeffLogo\v", "logo"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeys(t *testing.T) {
	if keys := descriptorKeys("Team Photo!"); len(keys) != 1 || keys[0] != "team-photo" {
		t.Errorf("descriptorKeys() = %v", keys)
	}
	// non latin titles still produce transliterated key
	if keys := descriptorKeys("Привет мир"); len(keys) != 1 || keys[0] == "" {
		t.Errorf("descriptorKeys() = %v", keys)
	}
	if keys := descriptorKeys(""); len(keys) != 0 {
		t.Errorf("empty title must produce no keys, got %v", keys)
	}
	if keys := assetKeys(&UploadedAsset{Slug: "cat", Title: "Cat"}); len(keys) != 1 {
		t.Errorf("assetKeys() must drop duplicates, got %v", keys)
	}
	if similar(nil, []string{"x"}) || similar([]string{"x"}, nil) {
		t.Error("empty key sets must never be similar")
	}
	if !similar([]string{"team-photo"}, []string{"team-photo-2"}) || !similar([]string{"team-photo-2"}, []string{"photo"}) {
		t.Error("containment in either direction must match")
	}
}

func TestParseAssets(t *testing.T) {
	data := `[
		{"id": 17, "slug": "team-photo", "title": {"rendered": "Team Photo", "raw": "team raw"}, "source_url": "https://cdn/team.jpg"},
		{"id": "a-2", "slug": "chart", "title": {"raw": "Chart"}, "source_url": "https://cdn/chart.png"},
		{"json": {"id": 3, "slug": "wrapped", "title": "Plain", "source_url": "https://cdn/w.gif"}},
		{"id": null, "slug": "anon"}
	]`
	assets, err := ParseAssets([]byte(data))
	if err != nil {
		t.Fatalf("ParseAssets() error = %v", err)
	}
	want := []UploadedAsset{
		{ID: "17", Slug: "team-photo", Title: "Team Photo", SourceURL: "https://cdn/team.jpg"},
		{ID: "a-2", Slug: "chart", Title: "Chart", SourceURL: "https://cdn/chart.png"},
		{ID: "3", Slug: "wrapped", Title: "Plain", SourceURL: "https://cdn/w.gif"},
		{Slug: "anon"},
	}
	if len(assets) != len(want) {
		t.Fatalf("got %d assets, want %d", len(assets), len(want))
	}
	for i := range want {
		if assets[i] != want[i] {
			t.Errorf("asset %d = %+v, want %+v", i, assets[i], want[i])
		}
	}
}

func TestParseAssets_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"not_array":  `{"id": 1}`,
		"broken":     `[{"id": 1`,
		"bad_id":     `[{"id": {"x": 1}}]`,
		"bad_title":  `[{"title": 5}]`,
		"bad_member": `[42]`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAssets([]byte(data)); !errors.Is(err, ErrBadAssets) {
				t.Errorf("expected ErrBadAssets, got %v", err)
			}
		})
	}
}

func TestResolve_NoPlaceholders(t *testing.T) {
	html := `<p>Just <strong>text</strong> [not a token]</p>`
	res := mustResolve(t, newResolver(t), html, nil, []UploadedAsset{{ID: "1", Slug: "x"}})
	if res.HTML != html {
		t.Errorf("HTML changed: %q", res.HTML)
	}
	if res.TotalPlaceholders != 0 || res.ReplacedCount != 0 {
		t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
	}
	if len(res.UnmatchedAssets) != 1 || res.UploadedCount != 1 {
		t.Errorf("unmatched = %v, uploads = %d", res.UnmatchedAssets, res.UploadedCount)
	}
}

func TestResolve_Match(t *testing.T) {
	media := []gdoc.MediaDescriptor{
		{ID: "x1", ContentURI: "https://lh3/1", Alt: "Our team", Title: "Team Photo!"},
		{ID: "x2", ContentURI: "https://lh3/2", Alt: "Sales chart"},
	}
	assets := []UploadedAsset{
		{ID: "17", Slug: "team-photo", SourceURL: "https://cdn/team-photo.jpg"},
	}
	html := `<p>[[IMG:x1|Our team]]</p><p>[[IMG:x2|Sales chart]]</p>`

	res := mustResolve(t, newResolver(t), html, media, assets)

	want := `<p><img src="https://cdn/team-photo.jpg" alt="Our team" title="Team Photo!" data-asset-id="17"/></p>` +
		`<p><!-- Image not found: x2 --></p>`
	if res.HTML != want {
		t.Errorf("HTML = %q, want %q", res.HTML, want)
	}
	if res.TotalPlaceholders != 2 || res.ReplacedCount != 1 {
		t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
	}
	if res.ReplacedCount >= res.TotalPlaceholders {
		t.Error("partial match must leave replaced count lower than total")
	}
	if len(res.Mapping) != 1 || res.Mapping[0] != (Mapping{
		ID: "x1", AssetID: "17", SourceURL: "https://cdn/team-photo.jpg",
		Alt: "Our team", Title: "Team Photo!", OriginalURL: "https://lh3/1",
	}) {
		t.Errorf("unexpected mapping %+v", res.Mapping)
	}
	if len(res.Replacements) != 1 || res.Replacements[0].Placeholder != "[[IMG:x1|Our team]]" {
		t.Errorf("unexpected replacements %+v", res.Replacements)
	}
	if len(res.UnmatchedAssets) != 0 {
		t.Errorf("unexpected unmatched %+v", res.UnmatchedAssets)
	}
}

func TestResolve_MappingOnlyForPlaceholders(t *testing.T) {
	media := []gdoc.MediaDescriptor{
		{ID: "x1", Title: "Team Photo"},
		{ID: "x2", Title: "Sales Chart"},
	}
	assets := []UploadedAsset{
		{ID: "1", Slug: "team-photo", SourceURL: "u1"},
		{ID: "2", Slug: "sales-chart", SourceURL: "u2"},
	}

	res := mustResolve(t, newResolver(t), "<p>[[IMG:x2|]]</p>", media, assets)
	if res.ReplacedCount != 1 || res.TotalPlaceholders != 1 {
		t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
	}
	if len(res.Mapping) != 1 || res.Mapping[0].ID != "x2" || res.Mapping[0].AssetID != "2" {
		t.Errorf("unexpected mapping %+v", res.Mapping)
	}

	res = mustResolve(t, newResolver(t), "<p>no images</p>", media, assets)
	if res.Mapping == nil || len(res.Mapping) != 0 {
		t.Errorf("mapping must be empty non-nil list, got %#v", res.Mapping)
	}
}

func TestResolve_RenderedDocument(t *testing.T) {
	tests := []struct {
		name, objectID, wantID string
	}{
		{"plain id", "kix.img1", "kix.img1"},
		{"id with token separators", "img]1|x", "img1x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &gdoc.Document{
				Blocks: []gdoc.Block{{Kind: gdoc.BlockParagraph, Paragraph: &gdoc.Paragraph{Runs: []gdoc.Run{
					{Kind: gdoc.RunObject, Object: &gdoc.ObjectRun{ObjectID: tt.objectID}},
				}}}},
				Objects: gdoc.EmbeddedObjects{
					tt.objectID: {Title: "Team Photo!", AltText: "Our team", ContentURI: "https://lh3/1"},
				},
			}
			rendered, err := render.New(render.WithLogger(zaptest.NewLogger(t))).Render(doc)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if len(rendered.Media) != 1 || rendered.Media[0].ID != tt.wantID {
				t.Fatalf("unexpected media %+v", rendered.Media)
			}

			assets := []UploadedAsset{{ID: "7", Slug: "team-photo", SourceURL: "https://cdn/team-photo.jpg"}}
			res := mustResolve(t, newResolver(t), rendered.HTML, rendered.Media, assets)

			want := `<p><img src="https://cdn/team-photo.jpg" alt="Our team" title="Team Photo!" data-asset-id="7"/></p>`
			if res.HTML != want {
				t.Errorf("HTML = %q, want %q", res.HTML, want)
			}
			if res.ReplacedCount != 1 || res.TotalPlaceholders != 1 {
				t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
			}
			if len(res.Mapping) != 1 || res.Mapping[0].ID != tt.wantID {
				t.Errorf("unexpected mapping %+v", res.Mapping)
			}
			if len(res.Replacements) != 1 || res.Replacements[0].ImageID != tt.wantID {
				t.Errorf("unexpected replacements %+v", res.Replacements)
			}
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	media := []gdoc.MediaDescriptor{
		{ID: "a", Title: "Photo"},
		{ID: "b", Title: "Photo 2"},
		{ID: "c"},
	}
	assets := []UploadedAsset{
		{ID: "1", Slug: "photo-2", SourceURL: "u1"},
		{ID: "2", Slug: "photo", SourceURL: "u2"},
		{ID: "3", Slug: "anything", SourceURL: "u3"},
	}

	res := mustResolve(t, newResolver(t), "[[IMG:a|]][[IMG:b|]][[IMG:c|]]", media, assets)

	if len(res.Mapping) != 2 {
		t.Fatalf("unexpected mapping %+v", res.Mapping)
	}
	// ambiguous asset goes to first similar descriptor in order
	if res.Mapping[0].ID != "a" || res.Mapping[0].AssetID != "1" {
		t.Errorf("mapping[0] = %+v", res.Mapping[0])
	}
	if res.Mapping[1].ID != "b" || res.Mapping[1].AssetID != "2" {
		t.Errorf("mapping[1] = %+v", res.Mapping[1])
	}
	// descriptor without title or alt never matches
	if len(res.UnmatchedAssets) != 1 || res.UnmatchedAssets[0].ID != "3" {
		t.Errorf("unmatched = %+v", res.UnmatchedAssets)
	}
	if !strings.HasSuffix(res.HTML, "<!-- Image not found: c -->") {
		t.Errorf("HTML = %q", res.HTML)
	}
}

func TestResolve_AssetTitleMatch(t *testing.T) {
	media := []gdoc.MediaDescriptor{{ID: "x", Alt: "Quarterly revenue"}}
	assets := []UploadedAsset{{ID: "9", Slug: "img-0042", Title: "Quarterly Revenue (2024)", SourceURL: "https://cdn/q.png"}}

	res := mustResolve(t, newResolver(t, WithAssetAttribute("data-wp-id")), "[[IMG:x|Quarterly revenue]]", media, assets)
	if want := `<img src="https://cdn/q.png" alt="Quarterly revenue" title="" data-wp-id="9"/>`; res.HTML != want {
		t.Errorf("HTML = %q, want %q", res.HTML, want)
	}

	res = mustResolve(t, newResolver(t, WithAssetAttribute("")), "[[IMG:x|Quarterly revenue]]", media, assets)
	if want := `<img src="https://cdn/q.png" alt="Quarterly revenue" title=""/>`; res.HTML != want {
		t.Errorf("HTML = %q, want %q", res.HTML, want)
	}
}

func TestResolve_RepeatedPlaceholder(t *testing.T) {
	media := []gdoc.MediaDescriptor{{ID: "x", Title: "Logo"}, {ID: "x", Title: "Logo"}}
	assets := []UploadedAsset{{ID: "1", Slug: "logo", SourceURL: "u"}, {ID: "2", Slug: "logo-1", SourceURL: "u2"}}

	res := mustResolve(t, newResolver(t), "[[IMG:x|Logo]] and [[IMG:x|Logo]]", media, assets)
	if res.ReplacedCount != 2 || res.TotalPlaceholders != 2 {
		t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
	}
	if len(res.Mapping) != 1 {
		t.Errorf("repeated descriptors must map once, got %+v", res.Mapping)
	}
	// second upload of the same image has nothing left to match
	if len(res.UnmatchedAssets) != 1 || res.UnmatchedAssets[0].ID != "2" {
		t.Errorf("unmatched = %+v", res.UnmatchedAssets)
	}
}

func TestResolve_Fallbacks(t *testing.T) {
	media := []gdoc.MediaDescriptor{{ID: "x1", Alt: "cat", Title: "Cat"}}
	html := "<p>[[IMG:x1|cat]][[IMG:zz|Tom &amp; Jerry]]</p>"
	assets := []UploadedAsset{{ID: "1", Slug: "dog", SourceURL: "u"}}

	tests := []struct {
		name   string
		mode   common.FallbackMode
		assets []UploadedAsset
		want   string
	}{
		{
			name:   "comment",
			mode:   common.FallbackModeComment,
			assets: assets,
			want:   "<p><!-- Image not found: x1 --><!-- Image not found: zz --></p>",
		},
		{
			name: "comment_without_assets",
			mode: common.FallbackModeComment,
			want: "<p><!-- Image placeholder: x1 - cat --><!-- Image placeholder: zz - Tom &amp; Jerry --></p>",
		},
		{
			name:   "keep",
			mode:   common.FallbackModeKeep,
			assets: assets,
			want:   html,
		},
		{
			name:   "image",
			mode:   common.FallbackModeImage,
			assets: assets,
			want:   `<p><img src="" alt="cat" title="Cat"/><img src="" alt="Tom &amp; Jerry" title=""/></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustResolve(t, newResolver(t, WithFallback(tt.mode)), html, media, tt.assets)
			if res.HTML != tt.want {
				t.Errorf("HTML = %q, want %q", res.HTML, tt.want)
			}
			if res.ReplacedCount != 0 || res.TotalPlaceholders != 2 {
				t.Errorf("counters = %d/%d", res.ReplacedCount, res.TotalPlaceholders)
			}
		})
	}
}

func TestResolve_ImageMarkup(t *testing.T) {
	media := []gdoc.MediaDescriptor{{ID: "x", Alt: `Say "cheese" & <smile>`, Title: "cheese"}}
	assets := []UploadedAsset{{ID: "5", Slug: "cheese", SourceURL: "https://cdn/c.jpg?a=1&b=2"}}

	res := mustResolve(t, newResolver(t), "<div>[[IMG:x|ignored]]</div>", media, assets)

	d, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		t.Fatalf("unable to parse output: %v", err)
	}
	img := d.Find("div > img")
	if img.Length() != 1 {
		t.Fatalf("expected single image in %q", res.HTML)
	}
	for attr, want := range map[string]string{
		"src":           "https://cdn/c.jpg?a=1&b=2",
		"alt":           `Say "cheese" & <smile>`,
		"title":         "cheese",
		"data-asset-id": "5",
	} {
		if got, _ := img.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
}

func TestResult_JSON(t *testing.T) {
	res := mustResolve(t, newResolver(t), "[[IMG:x|]]", []gdoc.MediaDescriptor{{ID: "x", Title: "t"}},
		[]UploadedAsset{{ID: "1", Slug: "t", SourceURL: "u"}})

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"html", "success", "replacedCount", "totalPlaceholders", "imageMapping", "replacements", "unmatchedAssets", "totalUploads"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing %q in %s", key, data)
		}
	}
	if string(fields["unmatchedAssets"]) != "[]" {
		t.Errorf("unmatchedAssets = %s, want empty list", fields["unmatchedAssets"])
	}
}
