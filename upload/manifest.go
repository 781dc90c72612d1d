// Package upload prepares manifest of images which has to be uploaded to
// media hosting before placeholders can be resolved.
package upload

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"

	"gdoc2html/gdoc"
)

const (
	DefaultMaxNameLength = 95
	DefaultExtension     = ".jpg"
)

// Item describes single upload. FileName is what hosting will derive asset
// slug from, so it is built from the same title resolution later matches on.
type Item struct {
	ID         string `json:"id"`
	ContentURI string `json:"contentUri"`
	Alt        string `json:"alt"`
	Title      string `json:"title"`
	FileName   string `json:"fileName"`
	MIMEType   string `json:"mimeType"`
}

type Options struct {
	// MaxNameLength limits file name length without extension
	MaxNameLength int
	// DefaultExtension is used when content location does not hint format
	DefaultExtension string
}

// known extensions searched for in content location, first hit wins
var extensions = []string{"png", "gif", "webp", "svg", "bmp"}

// Prepare builds upload manifest in media order. Descriptors without content
// location have nothing to upload and are skipped.
func Prepare(media []gdoc.MediaDescriptor, opts Options) []Item {
	if opts.MaxNameLength <= 0 {
		opts.MaxNameLength = DefaultMaxNameLength
	}
	if opts.DefaultExtension == "" {
		opts.DefaultExtension = DefaultExtension
	}
	if !strings.HasPrefix(opts.DefaultExtension, ".") {
		opts.DefaultExtension = "." + opts.DefaultExtension
	}

	items := make([]Item, 0, len(media))
	for _, m := range media {
		if m.ContentURI == "" {
			continue
		}
		ext := Extension(m.ContentURI, opts.DefaultExtension)
		items = append(items, Item{
			ID:         m.ID,
			ContentURI: m.ContentURI,
			Alt:        m.Alt,
			Title:      m.Title,
			FileName:   BaseName(m, opts.MaxNameLength) + ext,
			MIMEType:   MIMEType(ext),
		})
	}
	return items
}

// BaseName returns file name without extension: slug of title, alt or
// synthetic name made of descriptor id.
func BaseName(m gdoc.MediaDescriptor, maxLen int) string {
	name := slug.Make(m.Title)
	if name == "" {
		name = slug.Make(m.Alt)
	}
	if name == "" {
		name = slug.Make("image-" + m.ID)
	}
	if name == "" {
		name = "image"
	}
	return truncate(name, maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:maxLen]), "-")
}

// Extension guesses image file extension from content location.
func Extension(uri, def string) string {
	lower := strings.ToLower(uri)
	for _, ext := range extensions {
		if strings.Contains(lower, ext) {
			return "." + ext
		}
	}
	return def
}

// MIMEType returns media type for extension, falling back to generic binary
// type for unknown ones.
func MIMEType(ext string) string {
	name := strings.TrimPrefix(ext, ".")
	if t := filetype.GetType(name); t != filetype.Unknown {
		return t.MIME.Value
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
