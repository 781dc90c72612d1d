package convert

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"go.uber.org/zap"
)

// toMarkdown exports rendered fragment. Tables produced by renderer are
// simple enough for GitHub flavored pipe tables. Relative links are resolved
// against baseURL when it is set.
func toMarkdown(fragment, baseURL string, log *zap.Logger) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	conv := md.NewConverter(baseURL, true, nil)
	conv.Use(plugin.GitHubFlavored())

	out, err := conv.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("unable to convert to markdown: %w", err)
	}
	log.Debug("Markdown prepared", zap.Int("html", len(fragment)), zap.Int("markdown", len(out)))
	return out, nil
}
