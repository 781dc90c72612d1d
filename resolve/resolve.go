// Package resolve replaces deferred media placeholders left by renderer with
// final image markup once uploaded assets are known.
package resolve

import (
	"fmt"
	"html"
	"regexp"

	"go.uber.org/zap"

	"gdoc2html/common"
	"gdoc2html/gdoc"
)

// DefaultAssetAttribute carries uploaded asset id on generated images.
const DefaultAssetAttribute = "data-asset-id"

var rePlaceholder = regexp.MustCompile(`\[\[IMG:([^|]+)\|([^\]]*)\]\]`)

// Mapping ties media descriptor to matched uploaded asset.
type Mapping struct {
	ID          string `json:"id"`
	AssetID     string `json:"assetId"`
	SourceURL   string `json:"sourceUrl"`
	Alt         string `json:"alt"`
	Title       string `json:"title"`
	OriginalURL string `json:"originalUrl"`
}

// Replacement records single placeholder which was resolved.
type Replacement struct {
	Placeholder string `json:"placeholder"`
	ImageID     string `json:"imageId"`
	URL         string `json:"url"`
	AssetID     string `json:"assetId"`
}

// Result is audit of a resolution pass. Success is true whenever pass ran to
// completion, partial matches are reported by counters instead.
type Result struct {
	HTML              string          `json:"html"`
	Success           bool            `json:"success"`
	ReplacedCount     int             `json:"replacedCount"`
	TotalPlaceholders int             `json:"totalPlaceholders"`
	Mapping           []Mapping       `json:"imageMapping"`
	Replacements      []Replacement   `json:"replacements"`
	UnmatchedAssets   []UploadedAsset `json:"unmatchedAssets"`
	UploadedCount     int             `json:"totalUploads"`
	Message           string          `json:"message"`
}

// Resolver is immutable after construction and may be used concurrently.
type Resolver struct {
	log       *zap.Logger
	fallback  common.FallbackMode
	assetAttr string
}

type Option func(*Resolver)

func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithFallback selects what unresolved placeholders are replaced with.
func WithFallback(mode common.FallbackMode) Option {
	return func(r *Resolver) {
		r.fallback = mode
	}
}

// WithAssetAttribute sets name of attribute referencing asset id, empty
// name drops it.
func WithAssetAttribute(name string) Option {
	return func(r *Resolver) {
		r.assetAttr = name
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		log:       zap.NewNop(),
		fallback:  common.FallbackModeComment,
		assetAttr: DefaultAssetAttribute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// match computes descriptor to asset mapping. Assets are processed in order,
// each takes the first not yet matched descriptor whose key is similar to one
// of asset keys. Returned mappings follow descriptor order.
func (r *Resolver) match(media []gdoc.MediaDescriptor, assets []UploadedAsset) (map[string]Mapping, []Mapping, []UploadedAsset) {
	type candidate struct {
		desc *gdoc.MediaDescriptor
		keys []string
	}
	candidates := make([]candidate, 0, len(media))
	for i := range media {
		title := media[i].Title
		if title == "" {
			title = media[i].Alt
		}
		candidates = append(candidates, candidate{desc: &media[i], keys: descriptorKeys(title)})
	}

	mapping := make(map[string]Mapping)
	unmatched := []UploadedAsset{}
	for i := range assets {
		a := &assets[i]
		keys := assetKeys(a)

		var found *gdoc.MediaDescriptor
		for _, c := range candidates {
			if _, done := mapping[c.desc.ID]; done {
				continue
			}
			if similar(c.keys, keys) {
				found = c.desc
				break
			}
		}
		if found == nil {
			r.log.Warn("Uploaded asset does not match any image", zap.String("asset", a.ID), zap.String("slug", a.Slug))
			unmatched = append(unmatched, *a)
			continue
		}

		alt := found.Alt
		if alt == "" {
			alt = found.Title
		}
		mapping[found.ID] = Mapping{
			ID:          found.ID,
			AssetID:     a.ID,
			SourceURL:   a.SourceURL,
			Alt:         alt,
			Title:       found.Title,
			OriginalURL: found.ContentURI,
		}
		r.log.Debug("Matched image", zap.String("image", found.ID), zap.String("asset", a.ID))
	}

	ordered := make([]Mapping, 0, len(mapping))
	seen := make(map[string]bool, len(mapping))
	for i := range media {
		if m, ok := mapping[media[i].ID]; ok && !seen[m.ID] {
			seen[m.ID] = true
			ordered = append(ordered, m)
		}
	}
	return mapping, ordered, unmatched
}

// Resolve rewrites every placeholder in HTML. Mapped placeholders become
// images pointing to uploaded assets, others are replaced according to
// fallback mode. Unresolved placeholders never fail the pass.
func (r *Resolver) Resolve(source string, media []gdoc.MediaDescriptor, assets []UploadedAsset) (*Result, error) {
	mapping, ordered, unmatched := r.match(media, assets)

	descriptors := make(map[string]*gdoc.MediaDescriptor, len(media))
	for i := range media {
		if _, ok := descriptors[media[i].ID]; !ok {
			descriptors[media[i].ID] = &media[i]
		}
	}

	res := &Result{
		Replacements:    []Replacement{},
		UnmatchedAssets: unmatched,
		UploadedCount:   len(assets),
	}

	used := make(map[string]bool, len(mapping))
	var failure error
	res.HTML = rePlaceholder.ReplaceAllStringFunc(source, func(token string) string {
		if failure != nil {
			return token
		}
		res.TotalPlaceholders++

		groups := rePlaceholder.FindStringSubmatch(token)
		id, alt := groups[1], groups[2]

		if m, ok := mapping[id]; ok {
			kv := []string{"src", m.SourceURL, "alt", m.Alt, "title", m.Title}
			if r.assetAttr != "" {
				kv = append(kv, r.assetAttr, m.AssetID)
			}
			tag, err := imgTag(kv...)
			if err != nil {
				failure = fmt.Errorf("unable to build image for %s: %w", id, err)
				return token
			}
			res.ReplacedCount++
			used[id] = true
			res.Replacements = append(res.Replacements, Replacement{
				Placeholder: token,
				ImageID:     id,
				URL:         m.SourceURL,
				AssetID:     m.AssetID,
			})
			return tag
		}

		r.log.Warn("No uploaded asset for image", zap.String("image", id))
		out, err := r.fallbackFor(token, id, alt, descriptors[id], len(assets) == 0)
		if err != nil {
			failure = err
			return token
		}
		return out
	})
	if failure != nil {
		return nil, failure
	}

	// only mappings which were referenced by placeholders are reported
	res.Mapping = make([]Mapping, 0, len(used))
	for _, m := range ordered {
		if used[m.ID] {
			res.Mapping = append(res.Mapping, m)
		}
	}

	res.Success = true
	if len(assets) == 0 {
		res.Message = "No uploaded assets - placeholders replaced with fallback"
	} else {
		res.Message = fmt.Sprintf("Replaced %d of %d image placeholders", res.ReplacedCount, res.TotalPlaceholders)
	}

	r.log.Debug("Placeholders resolved",
		zap.Int("placeholders", res.TotalPlaceholders),
		zap.Int("replaced", res.ReplacedCount),
		zap.Int("uploads", res.UploadedCount),
		zap.Int("unmatched uploads", len(res.UnmatchedAssets)))
	return res, nil
}

func (r *Resolver) fallbackFor(token, id, alt string, desc *gdoc.MediaDescriptor, noAssets bool) (string, error) {
	switch r.fallback {
	case common.FallbackModeKeep:
		return token, nil
	case common.FallbackModeImage:
		// token alt is escaped markup, etree escapes attributes on its own
		alt = html.UnescapeString(alt)
		var title string
		if desc != nil {
			title = desc.Title
			if desc.Alt != "" {
				alt = desc.Alt
			} else if desc.Title != "" {
				alt = desc.Title
			}
		}
		tag, err := imgTag("src", "", "alt", alt, "title", title)
		if err != nil {
			return "", fmt.Errorf("unable to build fallback image for %s: %w", id, err)
		}
		return tag, nil
	default:
		if noAssets {
			return comment("Image placeholder: " + id + " - " + alt), nil
		}
		return comment("Image not found: " + id), nil
	}
}
