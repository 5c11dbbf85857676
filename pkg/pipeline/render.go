package pipeline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/render"
)

// outputs holds one backend per requested format. All backends are fed by a
// single dump through backend.
type outputs struct {
	text    *bytes.Buffer
	json    *render.JSON
	yaml    *render.YAML
	backend render.Multi
}

func newOutputs(formats []string) *outputs {
	o := &outputs{}
	for _, f := range formats {
		switch f {
		case FormatText:
			o.text = &bytes.Buffer{}
			o.backend = append(o.backend, render.NewText(o.text))
		case FormatJSON:
			o.json = render.NewJSON()
			o.backend = append(o.backend, o.json)
		case FormatYAML:
			o.yaml = render.NewYAML()
			o.backend = append(o.backend, o.yaml)
		}
	}
	return o
}

// encode returns the finished output of every format.
func (o *outputs) encode() (map[string][]byte, error) {
	out := make(map[string][]byte, len(o.backend))
	if o.text != nil {
		out[FormatText] = o.text.Bytes()
	}
	if o.json != nil {
		var buf bytes.Buffer
		if err := o.json.Encode(&buf, JSONIndent); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		out[FormatJSON] = buf.Bytes()
	}
	if o.yaml != nil {
		var buf bytes.Buffer
		if err := o.yaml.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		out[FormatYAML] = buf.Bytes()
	}
	return out, nil
}

// streamBackend returns a backend writing format to w, and a function that
// completes the output once the dump has finished. Text is written as the
// dump progresses; the structured formats are written at the end.
func streamBackend(format string, w io.Writer) (dump.Backend, func() error) {
	switch format {
	case FormatJSON:
		js := render.NewJSON()
		return js, func() error { return js.Encode(w, JSONIndent) }
	case FormatYAML:
		y := render.NewYAML()
		return y, func() error { return y.Encode(w) }
	}
	return render.NewText(w), func() error { return nil }
}
