package packet

import "errors"

// Sentinel errors returned (wrapped) by the packet parsers.
var (
	// ErrShortData means the input ended before a field was complete.
	ErrShortData = errors.New("packet: not enough data")

	// ErrBadFormat means a field had an impossible value.
	ErrBadFormat = errors.New("packet: bad format")

	// ErrUnsupported means the packet uses a version or algorithm this
	// package cannot interpret.
	ErrUnsupported = errors.New("packet: unsupported")
)
