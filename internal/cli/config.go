package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/pipeline"
)

// Config holds defaults read from the config file.
//
//	format = "json"
//	cache = false
//
//	[dump]
//	dump_mpi = true
//	max_layers = 8
type Config struct {
	Format string       `toml:"format"`
	Cache  *bool        `toml:"cache"`
	Dump   dump.Options `toml:"dump"`
}

// loadConfig reads the config file at path. A missing file yields the zero
// Config. Unknown keys are rejected so typos do not go unnoticed.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Format != "" {
		if err := pipeline.ValidateFormats(parseFormats(cfg.Format)); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
		}
	}
	if err := cfg.Dump.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// apply copies config values into f for every flag not set on the command
// line. Zero values in the file leave the built-in defaults in place.
func (cfg Config) apply(flags *pflag.FlagSet, f *dumpFlags) {
	unset := func(name string) bool { return !flags.Changed(name) }

	if cfg.Format != "" && unset("format") {
		f.format = cfg.Format
	}
	if cfg.Cache != nil && !*cfg.Cache && unset("no-cache") {
		f.noCache = true
	}

	d := cfg.Dump
	if d.DumpPackets && unset("dump-packets") {
		f.opts.DumpPackets = true
	}
	if d.DumpMPI && unset("mpi") {
		f.opts.DumpMPI = true
	}
	if d.DumpGrips && unset("grips") {
		f.opts.DumpGrips = true
	}
	if d.MaxLayers > 0 && unset("max-layers") {
		f.opts.MaxLayers = d.MaxLayers
	}
	if d.MaxErrors > 0 && unset("max-errors") {
		f.opts.MaxErrors = d.MaxErrors
	}
	if d.MaxStreamPackets > 0 && unset("max-stream-packets") {
		f.opts.MaxStreamPackets = d.MaxStreamPackets
	}
	if d.PreviewBytes > 0 && unset("preview-bytes") {
		f.opts.PreviewBytes = d.PreviewBytes
	}
}
