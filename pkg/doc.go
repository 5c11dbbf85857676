// Package pkg provides the libraries behind pgpdump, an OpenPGP packet
// stream dumper.
//
// # Overview
//
// pgpdump walks OpenPGP data packet by packet and describes every field it
// finds. The pkg directory is organized into these areas:
//
//  1. [stream] - Input sources, armor and cleartext unwrapping, decompression
//  2. [packet] - Wire-format parsers (headers, keys, signatures, subpackets)
//  3. [algo] - Algorithm and type id name tables
//  4. [dump] - The dump engine, building one node tree per top-level packet
//  5. [render] - Text, JSON and YAML backends over the node tree
//  6. [pipeline] - Orchestration (read, dump, render, cache)
//  7. [cache] - Content-addressed output cache
//
// # Architecture
//
// The typical data flow through pgpdump:
//
//	file or stdin
//	     ↓
//	[stream] (dearmor, skip cleartext, buffer)
//	     ↓
//	[dump] (packet headers, [packet] parsers, nested compressed data)
//	     ↓
//	[render] (text / JSON / YAML)
//
// # Quick Start
//
//	src := stream.New(os.Stdin)
//	err := dump.Dump(ctx, src, dump.Options{DumpGrips: true}, render.NewText(os.Stdout))
//
// Several formats from one walk:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, data, pipeline.Options{
//	    Formats: []string{"text", "json"},
//	})
//
// Supporting packages: [errors] defines coded errors, [observability]
// exposes hooks for packets, bounds and cache events, and [buildinfo] holds
// the version stamped at build time.
//
// [stream]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/stream
// [packet]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/packet
// [algo]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/algo
// [dump]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/dump
// [render]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pgpdump/pkg/buildinfo
package pkg
