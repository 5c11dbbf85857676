package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// program version so that a new release never serves dumps rendered by an
// older one:
//
//	keyer := cache.NewScopedKeyer(nil, "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DumpKey implements Keyer.
func (k *ScopedKeyer) DumpKey(inputHash string, opts DumpKeyOpts) string {
	return k.prefix + k.inner.DumpKey(inputHash, opts)
}
