package dump

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/observability"
	"github.com/matzehuels/pgpdump/pkg/packet"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxLayers bounds nesting of compressed streams and embedded
	// signatures.
	DefaultMaxLayers = 32

	// DefaultMaxErrors bounds the number of packets that fail to decode
	// before the dump stops.
	DefaultMaxErrors = 64

	// DefaultMaxStreamPackets bounds the number of compressed, literal and
	// encrypted data packets in one dump.
	DefaultMaxStreamPackets = 128

	// DefaultPreviewBytes is how many body bytes are hexdumped per packet
	// when packet contents are dumped.
	DefaultPreviewBytes = 1024
)

// Upper limits accepted for the configurable bounds. A preview peeks the
// header and body together, so both must fit the source buffer.
const (
	LimitLayers        = 1024
	LimitErrors        = 1 << 20
	LimitStreamPackets = 1 << 20
	LimitPreviewBytes  = stream.BufferSize - packet.MaxHeaderSize
)

// Marker texts emitted when a bound is exceeded.
const (
	MarkerLayers        = "too many OpenPGP packet layers, stopping."
	MarkerErrors        = "too many packet dump errors, stopping."
	MarkerStreamPackets = "too many OpenPGP stream packets, stopping."
)

// Marker texts describing the input wrapper.
const (
	MarkerCleartext = "cleartext signed data"
	MarkerArmored   = "armored input"
	MarkerEmpty     = "empty input"
)

// =============================================================================
// Options
// =============================================================================

// Options configures a dump. The zero value dumps structure only, with the
// default bounds.
type Options struct {
	// Output detail
	DumpPackets bool `json:"dump_packets,omitempty" toml:"dump_packets"` // hexdump packet and subpacket contents
	DumpMPI     bool `json:"dump_mpi,omitempty" toml:"dump_mpi"`         // print MPI values, not just sizes
	DumpGrips   bool `json:"dump_grips,omitempty" toml:"dump_grips"`     // compute fingerprints and grips

	// Bounds
	MaxLayers        int `json:"max_layers,omitempty" toml:"max_layers"`
	MaxErrors        int `json:"max_errors,omitempty" toml:"max_errors"`
	MaxStreamPackets int `json:"max_stream_packets,omitempty" toml:"max_stream_packets"`
	PreviewBytes     int `json:"preview_bytes,omitempty" toml:"preview_bytes"`

	// Runtime (not serialized)
	Decompressor stream.Decompressor     `json:"-" toml:"-"`
	Logger       *log.Logger             `json:"-" toml:"-"`
	Hooks        observability.DumpHooks `json:"-" toml:"-"`
}

// Validate checks that the bounds are within range. Zero bounds are valid and
// select the defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateBound("max_layers", o.MaxLayers, LimitLayers); err != nil {
		return err
	}
	if err := errors.ValidateBound("max_errors", o.MaxErrors, LimitErrors); err != nil {
		return err
	}
	if err := errors.ValidateBound("max_stream_packets", o.MaxStreamPackets, LimitStreamPackets); err != nil {
		return err
	}
	return errors.ValidateBound("preview_bytes", o.PreviewBytes, LimitPreviewBytes)
}

// SetDefaults fills unset bounds and runtime collaborators.
func (o *Options) SetDefaults() {
	if o.MaxLayers == 0 {
		o.MaxLayers = DefaultMaxLayers
	}
	if o.MaxErrors == 0 {
		o.MaxErrors = DefaultMaxErrors
	}
	if o.MaxStreamPackets == 0 {
		o.MaxStreamPackets = DefaultMaxStreamPackets
	}
	if o.PreviewBytes == 0 {
		o.PreviewBytes = DefaultPreviewBytes
	}
	if o.Decompressor == nil {
		o.Decompressor = stream.Decompress
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Dump()
	}
}
