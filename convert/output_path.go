package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"gdoc2html/common"
	"gdoc2html/config"
	"gdoc2html/state"
)

// Companion files are written next to the main output.
const (
	mediaSuffix   = ".media.json"
	resolveSuffix = ".resolve.json"
)

// buildOutputPath returns output file path for the document. Name comes from
// configured template, falling back to source file name when template is
// empty or cannot be expanded. Template may produce subdirectories, every
// segment is cleaned and, if requested, transliterated.
func buildOutputPath(values Values, dst string, format common.OutputFmt, env *state.LocalEnv) string {
	defaultFile := cleanPathSegment(values.SourceFile, env) + format.Ext()

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(dst, defaultFile)
	}

	segments := splitPath(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return filepath.Join(dst, defaultFile)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+format.Ext())
	return filepath.Join(parts...)
}

// companionPath replaces output extension with suffix.
func companionPath(output, suffix string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + suffix
}

// splitPath breaks path into non empty segments, dot segments are dropped so
// template cannot escape destination directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(strings.TrimSuffix(path, string(os.PathSeparator))); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.NameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
