package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/pipeline"
)

// formatExt maps output formats to the file extension used when several
// formats are written next to each other.
var formatExt = map[string]string{
	pipeline.FormatText: ".txt",
	pipeline.FormatJSON: ".json",
	pipeline.FormatYAML: ".yaml",
}

// dumpFlags holds the flag values of the dump command.
type dumpFlags struct {
	opts    dump.Options
	format  string
	output  string
	noCache bool
	refresh bool
}

// dumpCommand creates the dump command.
func (c *CLI) dumpCommand() *cobra.Command {
	var f dumpFlags

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the packet structure of OpenPGP data",
		Long: `Print the packet structure of an OpenPGP file, or of standard input when no
file (or "-") is given. Armored and cleartext-signed input is unwrapped and
compressed packets are expanded in place.

Several formats can be written in one run, e.g. -f text,json -o out writes
out.txt and out.json from the same walk.`,
		Example: `  pgpdump dump key.asc
  pgpdump dump --grips --mpi -f json key.gpg
  gpg --export alice | pgpdump dump -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := errors.StdinPath
			if len(args) == 1 {
				input = args[0]
			}
			cfg, err := loadConfig(c.resolveConfigPath())
			if err != nil {
				return err
			}
			cfg.apply(cmd.Flags(), &f)
			return c.runDump(cmd.Context(), input, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", pipeline.DefaultFormat, "output formats, comma separated (text, json, yaml)")
	flags.StringVarP(&f.output, "output", "o", "", "output file, or base name when several formats are written")
	flags.BoolVar(&f.noCache, "no-cache", false, "neither read nor write the output cache")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached output and dump again")
	addDumpFlags(flags, &f.opts)

	return cmd
}

// addDumpFlags registers the flags that map onto dump.Options.
func addDumpFlags(flags *pflag.FlagSet, o *dump.Options) {
	flags.BoolVarP(&o.DumpPackets, "dump-packets", "d", false, "hexdump packet and subpacket contents")
	flags.BoolVar(&o.DumpMPI, "mpi", false, "print MPI values")
	flags.BoolVar(&o.DumpGrips, "grips", false, "print key fingerprints and grips")
	flags.IntVar(&o.MaxLayers, "max-layers", dump.DefaultMaxLayers, "maximum nesting of compressed data and embedded signatures")
	flags.IntVar(&o.MaxErrors, "max-errors", dump.DefaultMaxErrors, "stop after this many packets fail to decode")
	flags.IntVar(&o.MaxStreamPackets, "max-stream-packets", dump.DefaultMaxStreamPackets, "stop after this many compressed, literal or encrypted packets")
	flags.IntVar(&o.PreviewBytes, "preview-bytes", dump.DefaultPreviewBytes, "packet body bytes to hexdump with --dump-packets")
}

// runDump dumps input according to f. A single format from standard input,
// or with caching disabled, is streamed; everything else is read into memory
// so every format comes from one walk and can be cached.
func (c *CLI) runDump(ctx context.Context, input string, f dumpFlags) error {
	formats := parseFormats(f.format)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if len(formats) > 1 && (f.output == "" || f.output == errors.StdinPath) {
		return errors.New(errors.ErrCodeInvalidInput, "writing %d formats needs --output", len(formats))
	}

	opts := pipeline.Options{
		Formats: formats,
		Dump:    f.opts,
		Refresh: f.refresh,
	}
	if len(formats) == 1 && (input == errors.StdinPath || f.noCache) {
		return c.streamDump(ctx, input, f.output, opts)
	}
	return c.executeDump(ctx, input, f, opts)
}

func (c *CLI) streamDump(ctx context.Context, input, output string, opts pipeline.Options) error {
	in, err := pipeline.OpenInput(input, c.Stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	w, closeOut, err := c.openOutput(output)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		closeOut()
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	stats, err := runner.Stream(ctx, in, w, opts)
	if cerr := closeOut(); err == nil && cerr != nil {
		err = errors.Wrap(errors.ErrCodeInternal, cerr, "write %s", output)
	}
	if err != nil {
		return err
	}
	prog.done("dumped packets", "packets", stats.Packets, "failures", stats.Failures)

	var paths []string
	if !isStdout(output) {
		paths = []string{output}
	}
	c.report(stats, false, paths)
	return nil
}

func (c *CLI) executeDump(ctx context.Context, input string, f dumpFlags, opts pipeline.Options) error {
	data, err := pipeline.ReadInput(input, c.Stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := startSpinner(ctx, "Dumping "+filepath.Base(input)+"...")
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, data, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("dumped packets", "packets", res.Stats.Packets, "cached", res.CacheHit)

	paths, err := c.writeOutputs(res.Outputs, opts.Formats, f.output)
	if err != nil {
		return err
	}
	c.report(res.Stats, res.CacheHit, paths)
	return nil
}

// writeOutputs writes each rendered format. A single format goes to output
// (or standard output); several formats go to output with the format's
// extension appended.
func (c *CLI) writeOutputs(outs map[string][]byte, formats []string, output string) ([]string, error) {
	if len(formats) == 1 && isStdout(output) {
		_, err := c.Stdout.Write(outs[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := output
		if len(formats) > 1 {
			path = outputBase(output) + formatExt[format]
		}
		if err := os.WriteFile(path, outs[format], 0644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// openOutput returns a writer for output and a function closing it.
func (c *CLI) openOutput(output string) (io.Writer, func() error, error) {
	if isStdout(output) {
		return c.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
	}
	return f, f.Close, nil
}

// report prints a status summary on a terminal.
func (c *CLI) report(stats dump.Stats, cached bool, paths []string) {
	if !statusEnabled() {
		return
	}
	if stats.Stopped != "" {
		printWarning("dump stopped early: %s bound reached", stats.Stopped)
	}
	if len(paths) == 0 {
		return
	}
	printSuccess("Wrote %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(p)
	}
	printStats(stats, cached)
}

// outputBase strips a known format extension from output.
func outputBase(output string) string {
	ext := filepath.Ext(output)
	for _, e := range formatExt {
		if ext == e {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func isStdout(output string) bool {
	return output == "" || output == errors.StdinPath
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatBytes renders a byte count for display.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
