// Package pipeline runs packet dumps for the CLI and other entry points.
//
// A pipeline run reads one input, walks it once with the dump engine and
// renders the result in every requested format at the same time, so text,
// JSON and YAML outputs of a run always describe the same walk. Rendered
// outputs can be cached by a content hash of the input.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    Formats: []string{"text", "json"},
//	    Dump:    dump.Options{DumpGrips: true},
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Outputs["text"])
//
// Inputs that should not be held in memory (standard input, large files)
// go through [Runner.Stream] instead, which renders a single format without
// caching.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pgpdump/pkg/cache"
	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatText

// JSONIndent is the indent of pretty-printed JSON output.
const JSONIndent = "    "

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatYAML: true,
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.ValidateChoice("format", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateFormats checks every format and rejects duplicates.
func ValidateFormats(formats []string) error {
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	Formats []string     `json:"formats,omitempty"`
	Dump    dump.Options `json:"dump"`
	Refresh bool         `json:"refresh,omitempty"` // ignore cached outputs

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults validates formats and dump bounds and fills in
// defaults. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Dump.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Dump.Logger == nil {
		o.Dump.Logger = o.Logger
	}
	o.validated = true
	return nil
}

// DumpKeyOpts returns the cache key options for one format. Bounds are
// normalized so that an explicit default and an unset bound share a key.
func (o *Options) DumpKeyOpts(format string) cache.DumpKeyOpts {
	d := o.Dump
	d.SetDefaults()
	return cache.DumpKeyOpts{
		Format:           format,
		DumpPackets:      d.DumpPackets,
		DumpMPI:          d.DumpMPI,
		DumpGrips:        d.DumpGrips,
		MaxLayers:        d.MaxLayers,
		MaxErrors:        d.MaxErrors,
		MaxStreamPackets: d.MaxStreamPackets,
		PreviewBytes:     d.PreviewBytes,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of [Runner.Execute].
type Result struct {
	// Outputs holds the rendered dump keyed by format.
	Outputs map[string][]byte

	// InputHash is the content hash of the input.
	InputHash string

	// Stats describes the walk. It is zero when every output came from the
	// cache.
	Stats dump.Stats

	// CacheHit reports that every output came from the cache.
	CacheHit bool

	// Duration is the wall time of the run.
	Duration time.Duration
}
