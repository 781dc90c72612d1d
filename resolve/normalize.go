package resolve

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gosimple/slug"
)

// Word characters are ASCII only, white space includes Unicode space
// separators, line and paragraph separators and BOM.
const spaceClass = `\s\x0b\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	reNonWord = regexp.MustCompile(`[^\w` + spaceClass + `-]`)
	reSpaces  = regexp.MustCompile(`[` + spaceClass + `]+`)
	reHyphens = regexp.MustCompile(`-+`)
)

// NormalizeKey converts title or slug into comparison key: lower case, only
// word characters separated by single hyphens, no hyphens at either end.
func NormalizeKey(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// descriptorKeys returns comparison keys for media title. Besides plain
// normalization the transliterated form is used, file names of uploads are
// produced by the same transliteration, so non latin titles still match.
func descriptorKeys(title string) []string {
	return uniqueKeys(NormalizeKey(title), NormalizeKey(slug.Make(title)))
}

func assetKeys(a *UploadedAsset) []string {
	return uniqueKeys(NormalizeKey(a.Slug), NormalizeKey(a.Title))
}

// uniqueKeys drops empty and repeated keys, empty key would match anything.
func uniqueKeys(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// similar reports whether any pair of keys contains one another.
func similar(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				return true
			}
		}
	}
	return false
}
