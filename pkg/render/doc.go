// Package render turns dump nodes into output.
//
// # Overview
//
// The dump engine in package dump describes every packet as a [dump.Node]
// tree. This package provides the backends that consume those trees:
//
//   - [Text]: the indented, human-readable dump
//   - [JSON]: an array with one ordered object per packet
//   - [YAML]: the same ordered objects as a YAML sequence
//   - [Multi]: fans one dump out to several backends
//
// All backends implement [dump.Backend], so a single decode pass can feed
// any combination of them:
//
//	text := render.NewText(os.Stdout)
//	js := render.NewJSON()
//	err := dump.Dump(ctx, src, opts, render.Multi{text, js})
//	err = js.Encode(f, "  ")
//
// # Text Output
//
// Text is written through an [IndentWriter], which prefixes every line with
// four spaces per indent level. Titles, "label: value" lines, nested
// sections and hexdumps are laid out exactly as the node tree says.
//
// # Structured Output
//
// [Tree] converts a node to an ordered [Object]. Algorithm ids carry a
// companion "<key>.str" name, MPIs become "<key>.bits" (and "<key>.raw"
// when values are dumped), and text-only entries are left out. JSON and
// YAML share this conversion, so both contain the same keys in the same
// order.
//
// [dump.Node]: github.com/matzehuels/pgpdump/pkg/dump.Node
// [dump.Backend]: github.com/matzehuels/pgpdump/pkg/dump.Backend
package render
