package dump

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/pgpdump/pkg/errors"
)

// errStop unwinds the traversal after a global bound was hit. It never
// escapes [Context.Run].
var errStop = stderrors.New("dump: stopped")

// Bound names reported through hooks and [Stats].
const (
	BoundLayers        = "layers"
	BoundErrors        = "errors"
	BoundStreamPackets = "stream packets"
)

// Context carries the state of one dump: the fixed options and the three
// counters the bounds are checked against. A Context is used for a single
// [Context.Run] and must not be shared between goroutines.
type Context struct {
	ctx  context.Context
	opts Options

	depth      int
	failures   int
	streamPkts int
	packets    int
	stopped    string
}

// Stats summarizes a finished dump.
type Stats struct {
	Packets       int    // packet headers seen, nested ones included
	Failures      int    // packets that failed to decode, unknown tags included
	StreamPackets int    // compressed, literal and encrypted data packets
	Stopped       string // bound that ended the dump early, empty if none
}

// NewContext validates opts and returns a fresh context for one dump.
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	return &Context{ctx: ctx, opts: opts}, nil
}

// Options returns the effective options, defaults applied.
func (c *Context) Options() Options { return c.opts }

// Stats returns the counters collected so far.
func (c *Context) Stats() Stats {
	return Stats{
		Packets:       c.packets,
		Failures:      c.failures,
		StreamPackets: c.streamPkts,
		Stopped:       c.stopped,
	}
}

// enter descends one nesting level. It returns false, leaving the depth
// unchanged, when the level would exceed MaxLayers.
func (c *Context) enter() bool {
	if c.depth >= c.opts.MaxLayers {
		c.limit(BoundLayers)
		return false
	}
	c.depth++
	return true
}

func (c *Context) leave() {
	if c.depth > 0 {
		c.depth--
	}
}

// fail records a packet that could not be decoded.
func (c *Context) fail(tag int, err error) {
	c.failures++
	c.opts.Logger.Warn("failed to process packet", "tag", tag, "err", err)
	c.opts.Hooks.OnDecodeError(c.ctx, tag, err)
}

func (c *Context) limit(bound string) {
	c.opts.Logger.Warn("dump bound reached", "bound", bound)
	c.opts.Hooks.OnLimit(c.ctx, bound)
}

// stop emits the marker for a global bound and unwinds the traversal.
func (c *Context) stop(emit func(*Node) error, bound, marker string) error {
	c.stopped = bound
	c.limit(bound)
	if err := emit(NewMarker(marker, false)); err != nil {
		return err
	}
	return errStop
}

// checkBounds is called after every packet of a scope.
func (c *Context) checkBounds(emit func(*Node) error) error {
	if c.failures > c.opts.MaxErrors {
		return c.stop(emit, BoundErrors, MarkerErrors)
	}
	if c.streamPkts > c.opts.MaxStreamPackets {
		return c.stop(emit, BoundStreamPackets, MarkerStreamPackets)
	}
	return nil
}

func renderError(err error) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "failed to render packet")
}
