package render

import "github.com/matzehuels/pgpdump/pkg/dump"

// Multi passes every node to each backend in order, stopping at the first
// error.
type Multi []dump.Backend

// Emit implements dump.Backend.
func (m Multi) Emit(n *dump.Node) error {
	for _, b := range m {
		if err := b.Emit(n); err != nil {
			return err
		}
	}
	return nil
}
