package main

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/tarfs"
	"github.com/jmgilman/go/tarfs/codec"
	"github.com/jmgilman/go/tarfs/errors"
)

func (a *app) packCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <dir>",
		Short: "Pack a directory into a tar archive",
		Example: `  tarfs pack ./site -o site.tar.zst --compression zstd
  tarfs pack . --entries go.mod,cmd --ignore '*.log' > src.tar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.pack(cmd, args[0])
		},
	}

	cmd.Flags().StringP("output", "o", "-", "archive file, - for stdout")
	cmd.Flags().StringSlice("entries", nil, "pack only these paths relative to the directory")
	cmd.Flags().StringArray("ignore", nil, "dockerignore style pattern to leave out (repeatable)")
	cmd.Flags().Bool("dereference", false, "archive what symlinks point to instead of the links")
	cmd.Flags().String("compression", "none", "gzip, zstd, lz4 or none")
	cmd.Flags().String("level", "default", "compression level: fastest, default or best")
	cmd.Flags().String("prefix", "", "place every entry under this directory in the archive")
	return cmd
}

func (a *app) pack(cmd *cobra.Command, dir string) error {
	compression, err := codec.ParseCompression(a.v.GetString("compression"))
	if err != nil {
		return err
	}
	level, err := parseLevel(a.v.GetString("level"))
	if err != nil {
		return err
	}

	ignore, err := tarfs.IgnorePatterns(dir, a.v.GetStringSlice("ignore")...)
	if err != nil {
		return err
	}

	opts := tarfs.PackOptions{
		Ignore:      ignore,
		Entries:     a.v.GetStringSlice("entries"),
		Dereference: a.v.GetBool("dereference"),
		Logger:      a.logger,
		Finish: func(s *tarfs.Stream) {
			a.logger.Info("packed",
				"entries", s.Entries(),
				"content", humanize.IBytes(uint64(s.Bytes())),
				"archive", humanize.IBytes(uint64(s.Size())),
				"digest", s.Digest().String(),
			)
		},
	}
	if prefix := a.v.GetString("prefix"); prefix != "" {
		opts.Map = tarfs.PrefixMap(prefix)
	}

	out, closeOut, err := a.openOutput(a.v.GetString("output"))
	if err != nil {
		return err
	}

	stream, err := tarfs.NewStream(out, tarfs.WithCompression(compression), tarfs.WithLevel(level))
	if err != nil {
		_ = closeOut()
		return err
	}
	if err := tarfs.Pack(cmd.Context(), dir, stream, opts); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func (a *app) openOutput(name string) (io.Writer, func() error, error) {
	if name == "-" || name == "" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create archive", map[string]interface{}{
			"path": name,
			"op":   "create",
		})
	}
	return f, f.Close, nil
}

func parseLevel(s string) (codec.Level, error) {
	switch s {
	case "", "default":
		return codec.LevelDefault, nil
	case "fastest":
		return codec.LevelFastest, nil
	case "best":
		return codec.LevelBest, nil
	default:
		return codec.LevelDefault, errors.Newf(errors.CodeInvalidInput, "unknown compression level %q", s)
	}
}
