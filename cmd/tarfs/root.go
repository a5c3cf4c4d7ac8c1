package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmgilman/go/tarfs/errors"
)

const envPrefix = "TARFS"

// app holds the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		v:      newViper(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tarfs",
		Short: "Pack directories into tar archives and extract them safely",
		Long: `tarfs packs a directory tree into a tar stream and extracts tar streams
back onto disk. Extraction refuses entries and links that would reach
outside the destination directory.

Flags can also be set through TARFS_* environment variables, for
example TARFS_COMPRESSION=zstd or TARFS_STRIP=1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, errors.CodeInternal, "failed to bind flags")
			}
			a.logger = newLogger(a.stderr, a.v.GetBool("verbose"))
			return nil
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "log every entry")
	cmd.PersistentFlags().Bool("json", false, "print errors as JSON")

	cmd.AddCommand(a.packCmd())
	cmd.AddCommand(a.extractCmd())
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// report prints err to stderr, as JSON when --json is set.
func (a *app) report(err error) {
	if a.v.GetBool("json") {
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(errors.ToJSON(err))
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}
