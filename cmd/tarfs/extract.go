package main

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/tarfs"
	"github.com/jmgilman/go/tarfs/errors"
)

func (a *app) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <dir>",
		Short: "Extract a tar archive into a directory",
		Example: `  tarfs extract ./out -i site.tar.zst
  curl -sL https://example.com/release.tar.gz | tarfs extract ./release --strip 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extract(cmd, args[0])
		},
	}

	cmd.Flags().StringP("input", "i", "-", "archive file, - for stdin")
	cmd.Flags().Int("strip", 0, "drop this many leading path components from every entry")
	cmd.Flags().StringArray("ignore", nil, "dockerignore style pattern to skip (repeatable)")
	return cmd
}

func (a *app) extract(cmd *cobra.Command, dir string) error {
	ignore, err := tarfs.IgnorePatterns(dir, a.v.GetStringSlice("ignore")...)
	if err != nil {
		return err
	}

	in, closeIn, err := a.openInput(a.v.GetString("input"))
	if err != nil {
		return err
	}
	defer func() { _ = closeIn() }()

	opts := tarfs.ExtractOptions{
		Ignore: ignore,
		Strip:  a.v.GetInt("strip"),
		Logger: a.logger,
		Finish: func(s tarfs.Stats) {
			a.logger.Info("extracted",
				"entries", s.Entries,
				"skipped", s.Skipped,
				"content", humanize.IBytes(uint64(s.Bytes)),
			)
		},
	}

	_, err = tarfs.Extract(cmd.Context(), dir, in, opts)
	return err
}

func (a *app) openInput(name string) (io.Reader, func() error, error) {
	if name == "-" || name == "" {
		return a.stdin, func() error { return nil }, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.WrapWithContext(err, errors.CodeFilesystem, "failed to open archive", map[string]interface{}{
			"path": name,
			"op":   "open",
		})
	}
	return f, f.Close, nil
}
