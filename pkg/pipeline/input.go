package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/pgpdump/pkg/errors"
)

// OpenInput opens path for reading. [errors.StdinPath] selects stdin, which
// is returned wrapped so that closing it is a no-op.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return nil, err
	}
	if path == errors.StdinPath {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRead, err, "open input")
	}
	return f, nil
}

// ReadInput reads all of path (or stdin).
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	r, err := OpenInput(path, stdin)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRead, err, "read input")
	}
	return data, nil
}
