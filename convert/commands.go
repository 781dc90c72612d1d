package convert

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"gdoc2html/common"
)

func overwriteFlag() cli.Flag {
	return &cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"}
}

func sectionsFlag() cli.Flag {
	return &cli.BoolFlag{Name: "sections", Usage: "wrap every heading with its content into <div> (overrides configuration)"}
}

func fallbackFlag() cli.Flag {
	return &cli.StringFlag{Name: "fallback",
		Usage: "replace placeholders without uploaded image with `MODE` (supported modes: " + strings.Join(common.FallbackModeNames(), ", ") + ")"}
}

// Commands returns document processing commands.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "render",
			Usage:     "Renders Google Docs document JSON into HTML fragment with image placeholders",
			Action:    Render,
			Flags:     []cli.Flag{sectionsFlag(), overwriteFlag()},
			ArgsUsage: "SOURCE [DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to document JSON as returned by Google Docs API (documents.get), with or
    without tabs content, or bare body content array

DESTINATION:
    always a path, output file names will be derived from configured name template
    if absent - current working directory

Produces HTML fragment and media list ({name}.media.json) describing every
embedded image left as placeholder.
`, cli.CommandHelpTemplate),
		},
		{
			Name:      "manifest",
			Usage:     "Prepares upload manifest from media list",
			Action:    Manifest,
			Flags:     []cli.Flag{overwriteFlag()},
			ArgsUsage: "MEDIA [DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s
MEDIA:
    media list produced by render command

DESTINATION:
    file name to write manifest to, if absent - STDOUT
`, cli.CommandHelpTemplate),
		},
		{
			Name:      "resolve",
			Usage:     "Replaces image placeholders in rendered HTML with uploaded images",
			Action:    Resolve,
			Flags:     []cli.Flag{fallbackFlag(), overwriteFlag()},
			ArgsUsage: "HTML MEDIA ASSETS [DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s
HTML:
    HTML fragment produced by render command

MEDIA:
    media list produced by render command

ASSETS:
    JSON array of uploaded media records (id, slug, title, source_url)

DESTINATION:
    always a path, if absent - current working directory

Produces resolved HTML and resolution report ({name}.resolve.json).
`, cli.CommandHelpTemplate),
		},
		{
			Name:   "convert",
			Usage:  "Renders document, resolves images when uploads are known and exports result",
			Action: Convert,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "to", Value: common.OutputFmtHtml.String(),
					Usage: "conversion output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
				&cli.StringFlag{Name: "assets", Usage: "resolve image placeholders using uploaded assets from `FILE`"},
				fallbackFlag(),
				sectionsFlag(),
				overwriteFlag(),
			},
			ArgsUsage: "SOURCE [DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to document JSON as returned by Google Docs API

DESTINATION:
    always a path, output file name and extension will be derived from other parameters
    if absent - current working directory
`, cli.CommandHelpTemplate),
		},
	}
}
