package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"gdoc2html/gdoc"
	"gdoc2html/state"
)

// sourceArg returns absolute path of required positional argument.
func sourceArg(cmd *cli.Command, idx int, what string) (string, error) {
	src := cmd.Args().Get(idx)
	if len(src) == 0 {
		return "", fmt.Errorf("no %s has been specified", what)
	}
	return filepath.Abs(src)
}

// destinationDir returns absolute destination directory, current working
// directory when argument is absent.
func destinationDir(cmd *cli.Command, idx int, log *zap.Logger) (string, error) {
	var err error

	dst := cmd.Args().Get(idx)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", err
	}
	if cmd.Args().Len() > idx+1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[idx+1:]))
	}
	return dst, nil
}

// prepareOutput makes sure file could be written: existing files are only
// replaced when overwrite was requested.
func prepareOutput(name string, env *state.LocalEnv, log *zap.Logger) error {
	_, err := os.Stat(name)
	switch {
	case err == nil:
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		return nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
		return nil
	default:
		return err
	}
}

// writeOutput writes file and remembers it in debug report under its base
// name.
func writeOutput(name string, data []byte, env *state.LocalEnv, log *zap.Logger) error {
	if err := prepareOutput(name, env, log); err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	env.Rpt.Store("result/"+filepath.Base(name), name)
	log.Debug("Output written", zap.String("file", name), zap.Int("size", len(data)))
	return nil
}

func writeJSON(name string, v any, env *state.LocalEnv, log *zap.Logger) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	return writeOutput(name, data, env, log)
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// readMedia loads media list previously written by render.
func readMedia(name string) ([]gdoc.MediaDescriptor, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read media list: %w", err)
	}
	var media []gdoc.MediaDescriptor
	if err := json.Unmarshal(data, &media); err != nil {
		return nil, fmt.Errorf("unable to decode media list (%s): %w", name, err)
	}
	if media == nil {
		media = []gdoc.MediaDescriptor{}
	}
	return media, nil
}
