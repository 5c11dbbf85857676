package stream

import (
	"fmt"

	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck // only the armor decoder is used
)

// Armored is the result of [Unarmor]: a source over the decoded binary body
// together with the armor block's type and headers.
type Armored struct {
	*Source
	Type    string
	Headers map[string]string
}

// Unarmor decodes the ASCII-armored block at the current position of src and
// returns a new Source over its binary contents. Offsets of the returned
// source start at zero. The checksum, if present, is verified when the body
// is read to the end.
func Unarmor(src *Source) (*Armored, error) {
	block, err := armor.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("armor: %w", err)
	}
	return &Armored{
		Source:  New(block.Body),
		Type:    block.Type,
		Headers: block.Header,
	}, nil
}
