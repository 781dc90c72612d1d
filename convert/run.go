// Package convert implements program commands: rendering documents, preparing
// upload manifests, resolving image placeholders and complete conversion.
package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"gdoc2html/common"
	"gdoc2html/gdoc"
	"gdoc2html/render"
	"gdoc2html/resolve"
	"gdoc2html/state"
	"gdoc2html/upload"
)

// Render converts document JSON into HTML fragment and media list.
func Render(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	src, err := sourceArg(cmd, 0, "input document")
	if err != nil {
		return err
	}
	dst, err := destinationDir(cmd, 1, log)
	if err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Rendering starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	doc, res, err := renderSource(ctx, src, env.Cfg.Render.WrapSections || cmd.Bool("sections"), env, log)
	if err != nil {
		return err
	}

	out := buildOutputPath(newValues(doc, src, env.RunID.String(), common.OutputFmtHtml), dst, common.OutputFmtHtml, env)
	if err := writeOutput(out, []byte(res.HTML), env, log); err != nil {
		return err
	}
	if err := writeJSON(companionPath(out, mediaSuffix), res.Media, env, log); err != nil {
		return err
	}
	log.Info("Document rendered", zap.String("to", out), zap.Int("images", len(res.Media)))
	return nil
}

// Manifest turns media list into upload manifest.
func Manifest(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("manifest")

	src, err := sourceArg(cmd, 0, "media list")
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	media, err := readMedia(src)
	if err != nil {
		return err
	}
	items := upload.Prepare(media, upload.Options{
		MaxNameLength:    env.Cfg.Upload.MaxNameLength,
		DefaultExtension: env.Cfg.Upload.DefaultExtension,
	})
	log.Info("Upload manifest prepared", zap.Int("images", len(media)), zap.Int("uploads", len(items)))

	fname := cmd.Args().Get(1)
	if len(fname) == 0 {
		data, err := marshalJSON(items)
		if err != nil {
			return err
		}
		if _, err := cmd.Root().Writer.Write(data); err != nil {
			return fmt.Errorf("unable to write manifest: %w", err)
		}
		return nil
	}
	return writeJSON(fname, items, env, log)
}

// Resolve replaces placeholders in previously rendered HTML.
func Resolve(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resolve")

	var paths [3]string
	for i, what := range []string{"html source", "media list", "uploaded assets"} {
		if paths[i], err = sourceArg(cmd, i, what); err != nil {
			return err
		}
	}
	dst, err := destinationDir(cmd, 3, log)
	if err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	fallback, err := fallbackMode(cmd, env, log)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(paths[0])
	if err != nil {
		return fmt.Errorf("unable to read html source: %w", err)
	}
	media, err := readMedia(paths[1])
	if err != nil {
		return err
	}
	assets, err := readAssets(paths[2])
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := newResolver(env, fallback, log).Resolve(string(source), media, assets)
	if err != nil {
		return fmt.Errorf("unable to resolve placeholders: %w", err)
	}

	out := buildOutputPath(newValues(nil, paths[0], env.RunID.String(), common.OutputFmtHtml), dst, common.OutputFmtHtml, env)
	if err := writeOutput(out, []byte(res.HTML), env, log); err != nil {
		return err
	}
	if err := writeJSON(companionPath(out, resolveSuffix), res, env, log); err != nil {
		return err
	}
	log.Info(res.Message, zap.String("to", out))
	return nil
}

// Convert runs complete pipeline: render, resolve when assets are known and
// export in requested format.
func Convert(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src, err := sourceArg(cmd, 0, "input document")
	if err != nil {
		return err
	}
	dst, err := destinationDir(cmd, 1, log)
	if err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	format := env.Cfg.Output.Format
	if cmd.IsSet("to") {
		if format, err = common.ParseOutputFmt(cmd.String("to")); err != nil {
			log.Warn("Unknown output format requested, switching to html", zap.Error(err))
			format = common.OutputFmtHtml
		}
	}
	fallback, err := fallbackMode(cmd, env, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	doc, rendered, err := renderSource(ctx, src, env.Cfg.Render.WrapSections || cmd.Bool("sections"), env, log)
	if err != nil {
		return err
	}
	out := buildOutputPath(newValues(doc, src, env.RunID.String(), format), dst, format, env)

	if err := writeJSON(companionPath(out, mediaSuffix), rendered.Media, env, log); err != nil {
		return err
	}

	fragment := rendered.HTML
	if name := cmd.String("assets"); len(name) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		assets, err := readAssets(name)
		if err != nil {
			return err
		}
		res, err := newResolver(env, fallback, log).Resolve(fragment, rendered.Media, assets)
		if err != nil {
			return fmt.Errorf("unable to resolve placeholders: %w", err)
		}
		if err := writeJSON(companionPath(out, resolveSuffix), res, env, log); err != nil {
			return err
		}
		log.Info(res.Message)
		fragment = res.HTML
	} else if len(rendered.Media) > 0 {
		log.Info("No uploaded assets given, image placeholders left in output", zap.Int("images", len(rendered.Media)))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if format == common.OutputFmtMarkdown {
		if fragment, err = toMarkdown(fragment, env.Cfg.Output.MarkdownBaseURL, log); err != nil {
			return err
		}
	}
	if err := writeOutput(out, []byte(fragment), env, log); err != nil {
		return err
	}
	log.Info("Conversion completed", zap.String("to", out), zap.String("id", doc.ID))
	return nil
}

// renderSource parses and renders document file. Parsed tree is kept in debug
// report.
func renderSource(ctx context.Context, src string, sections bool, env *state.LocalEnv, log *zap.Logger) (*gdoc.Document, *render.Result, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read input document: %w", err)
	}
	doc, err := gdoc.Parse(data, log)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse input document (%s): %w", src, err)
	}
	env.Rpt.StoreData("document.txt", []byte(doc.String()))

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	r := render.New(
		render.WithLogger(log),
		render.WithLinkTarget(env.Cfg.Render.LinkTarget),
		render.WithSectionWrapping(sections),
	)
	res, err := r.Render(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to render document (%s): %w", src, err)
	}
	return doc, res, nil
}

func readAssets(name string) ([]resolve.UploadedAsset, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read uploaded assets: %w", err)
	}
	assets, err := resolve.ParseAssets(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse uploaded assets (%s): %w", name, err)
	}
	return assets, nil
}

// fallbackMode returns fallback requested on command line or configured one.
func fallbackMode(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) (common.FallbackMode, error) {
	if !cmd.IsSet("fallback") {
		return env.Cfg.Resolve.Fallback, nil
	}
	mode, err := common.ParseFallbackMode(cmd.String("fallback"))
	if err != nil {
		return mode, fmt.Errorf("bad fallback requested: %w", err)
	}
	log.Debug("Fallback overwritten from command line", zap.Stringer("fallback", mode))
	return mode, nil
}

func newResolver(env *state.LocalEnv, fallback common.FallbackMode, log *zap.Logger) *resolve.Resolver {
	return resolve.New(
		resolve.WithLogger(log),
		resolve.WithFallback(fallback),
		resolve.WithAssetAttribute(env.Cfg.Resolve.AssetAttribute),
	)
}
